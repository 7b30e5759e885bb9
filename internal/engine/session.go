package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"surveyflow/internal/model"
)

// Phase is the lifecycle state of a session
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

var (
	// ErrNoVisibleQuestions means the survey has nothing to show at session
	// start, so a session cannot begin
	ErrNoVisibleQuestions = errors.New("survey has no visible questions")
	// ErrSessionCompleted means the session already reached its terminal
	// phase; completion is final
	ErrSessionCompleted = errors.New("session already completed")
)

// Session drives one respondent through a survey. It owns the current
// position and the answer store, and recomputes visibility from the current
// answers on every transition. Sessions are not safe for concurrent use;
// callers serialize navigation calls.
type Session struct {
	survey  *model.Survey
	answers *AnswerStore
	current int
	phase   Phase
}

// NextResult is the outcome of advancing the session. When Completed is set,
// Response holds the finished record and Question is nil.
type NextResult struct {
	Completed bool
	Question  *model.Question
	Response  *model.Response
}

// PrevResult is the outcome of stepping backward. Moved is false when the
// session is already at the first visible question; that case is a no-op,
// not an error.
type PrevResult struct {
	Moved    bool
	Question *model.Question
}

// NewSession starts a fresh session positioned on the survey's first
// question. It fails with ErrNoVisibleQuestions when there is nothing to
// show.
func NewSession(survey *model.Survey) (*Session, error) {
	if survey == nil || len(VisibleQuestions(survey, model.AnswerMap{})) == 0 {
		return nil, ErrNoVisibleQuestions
	}
	return &Session{
		survey:  survey,
		answers: NewAnswerStore(),
		current: 0,
		phase:   PhaseInProgress,
	}, nil
}

// Restore rebuilds a session from persisted state
func Restore(survey *model.Survey, currentIndex int, phase Phase, answers model.AnswerMap) (*Session, error) {
	if survey == nil || len(survey.Questions) == 0 {
		return nil, ErrNoVisibleQuestions
	}
	if currentIndex < 0 {
		currentIndex = 0
	}
	if currentIndex >= len(survey.Questions) {
		currentIndex = len(survey.Questions) - 1
	}
	if phase != PhaseCompleted {
		phase = PhaseInProgress
	}

	store := NewAnswerStore()
	for id, v := range answers {
		store.Set(id, v)
	}
	return &Session{
		survey:  survey,
		answers: store,
		current: currentIndex,
		phase:   phase,
	}, nil
}

// Survey returns the survey this session walks
func (s *Session) Survey() *model.Survey {
	return s.survey
}

// Current returns the question the respondent is on
func (s *Session) Current() *model.Question {
	q := s.survey.Questions[s.current]
	return &q
}

// CurrentIndex returns the order index of the current question
func (s *Session) CurrentIndex() int {
	return s.current
}

// Phase returns the session lifecycle state
func (s *Session) Phase() Phase {
	return s.phase
}

// Completed reports whether the session reached its terminal phase
func (s *Session) Completed() bool {
	return s.phase == PhaseCompleted
}

// Answers returns a snapshot of the answers given so far
func (s *Session) Answers() model.AnswerMap {
	return s.answers.Snapshot()
}

// CurrentAnswer returns the stored answer for the current question, if any
func (s *Session) CurrentAnswer() (model.AnswerValue, bool) {
	return s.answers.Get(s.Current().ID)
}

// Submit records an answer for the current question. It does not move the
// session; Next does that.
func (s *Session) Submit(v model.AnswerValue) error {
	if s.phase == PhaseCompleted {
		return ErrSessionCompleted
	}
	s.answers.Set(s.Current().ID, v)
	return nil
}

// Next advances to the first question after the current position that is
// visible under the answers as they stand right now. When no visible
// question remains the session completes and the finished Response is
// returned; completion is terminal.
func (s *Session) Next() (*NextResult, error) {
	if s.phase == PhaseCompleted {
		return nil, ErrSessionCompleted
	}

	for _, idx := range VisibleIndexes(s.survey, s.answers.Snapshot()) {
		if idx > s.current {
			s.current = idx
			return &NextResult{Question: s.Current()}, nil
		}
	}

	s.phase = PhaseCompleted
	response := &model.Response{
		ID:          uuid.NewString(),
		SurveyID:    s.survey.ID,
		Answers:     s.answers.Snapshot(),
		CompletedAt: time.Now(),
	}
	return &NextResult{Completed: true, Response: response}, nil
}

// Previous steps back to the nearest earlier question that is currently
// visible. The current answer is preserved. At or before the first visible
// question this is a safe no-op.
func (s *Session) Previous() (*PrevResult, error) {
	if s.phase == PhaseCompleted {
		return nil, ErrSessionCompleted
	}

	answers := s.answers.Snapshot()
	for i := s.current - 1; i >= 0; i-- {
		if IsVisible(s.survey.Questions[i], i, answers) {
			s.current = i
			return &PrevResult{Moved: true, Question: s.Current()}, nil
		}
	}
	return &PrevResult{Moved: false}, nil
}

// CanGoNext reports whether a later question remains. While the current
// question is unanswered the provisional lookahead is used, so branches the
// pending answer could open still count and the UI keeps reading "next"
// rather than "finish".
func (s *Session) CanGoNext() bool {
	if s.phase == PhaseCompleted {
		return false
	}

	if !s.answers.Has(s.Current().ID) {
		potential := PotentialVisible(s.survey, s.current, s.answers.Snapshot())
		for idx := range potential {
			if idx > s.current {
				return true
			}
		}
		return false
	}

	for _, idx := range VisibleIndexes(s.survey, s.answers.Snapshot()) {
		if idx > s.current {
			return true
		}
	}
	return false
}

// CanGoPrevious reports whether an earlier visible question exists
func (s *Session) CanGoPrevious() bool {
	if s.phase == PhaseCompleted {
		return false
	}

	answers := s.answers.Snapshot()
	for i := s.current - 1; i >= 0; i-- {
		if IsVisible(s.survey.Questions[i], i, answers) {
			return true
		}
	}
	return false
}

// Progress returns the 1-based position of the current question within the
// visible list and the visible total
func (s *Session) Progress() (position, total int) {
	visible := VisibleIndexes(s.survey, s.answers.Snapshot())
	for _, idx := range visible {
		if idx <= s.current {
			position++
		}
	}
	return position, len(visible)
}
