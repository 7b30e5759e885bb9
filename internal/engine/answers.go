package engine

import "surveyflow/internal/model"

// AnswerStore holds the answers of one in-progress session. It performs no
// validation; checking that a value matches the question's declared type is
// the caller's job.
type AnswerStore struct {
	values model.AnswerMap
}

// NewAnswerStore creates an empty store
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{values: make(model.AnswerMap)}
}

// Get returns the answer for a question, if one was given
func (s *AnswerStore) Get(questionID string) (model.AnswerValue, bool) {
	v, ok := s.values[questionID]
	return v, ok
}

// Has reports whether the question has been answered
func (s *AnswerStore) Has(questionID string) bool {
	_, ok := s.values[questionID]
	return ok
}

// Set records the answer for a question, replacing any earlier one. The
// stored value never shares backing storage with the caller's slice.
func (s *AnswerStore) Set(questionID string, v model.AnswerValue) {
	if v.Choices != nil {
		v.Choices = append([]string(nil), v.Choices...)
	}
	s.values[questionID] = v
}

// Snapshot returns an independent copy of all answers
func (s *AnswerStore) Snapshot() model.AnswerMap {
	return s.values.Clone()
}

// Len returns the number of answered questions
func (s *AnswerStore) Len() int {
	return len(s.values)
}
