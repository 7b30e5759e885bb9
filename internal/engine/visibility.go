package engine

import "surveyflow/internal/model"

// IsVisible decides whether a question should be presented given the answers
// collected so far. The question at order index 0 is always visible, even if
// it was authored with conditions. A question without conditions is visible
// whenever its position is reached. Otherwise the question's condition mode
// decides: "any" (the default) shows the question when at least one condition
// holds, "all" requires every condition to hold.
func IsVisible(q model.Question, orderIndex int, answers model.AnswerMap) bool {
	if orderIndex == 0 {
		return true
	}
	if len(q.Conditions) == 0 {
		return true
	}

	if q.ConditionMode == model.ConditionModeAll {
		for _, c := range q.Conditions {
			if !Evaluate(c, answers) {
				return false
			}
		}
		return true
	}

	for _, c := range q.Conditions {
		if Evaluate(c, answers) {
			return true
		}
	}
	return false
}

// VisibleQuestions returns, in survey order, every question visible under the
// given answers. The first question is included unconditionally with its
// conditions stripped. The result must be recomputed after every answer
// change; it is never valid to cache it across mutations.
func VisibleQuestions(s *model.Survey, answers model.AnswerMap) []model.Question {
	var visible []model.Question
	for i, q := range s.Questions {
		if i == 0 {
			first := q
			first.Conditions = nil
			visible = append(visible, first)
			continue
		}
		if IsVisible(q, i, answers) {
			visible = append(visible, q)
		}
	}
	return visible
}

// VisibleIndexes returns the order indexes of the currently visible questions
func VisibleIndexes(s *model.Survey, answers model.AnswerMap) []int {
	var visible []int
	for i, q := range s.Questions {
		if IsVisible(q, i, answers) {
			visible = append(visible, i)
		}
	}
	return visible
}

// PotentialVisible is a lookahead used while the question at currentIndex is
// still unanswered: it returns the indexes of every question that is either
// visible now or could become visible depending on how the current question
// is answered (it has a condition targeting the current question). The
// lookahead only drives UI affordances such as the next/finish button label;
// it never selects the question actually shown next.
func PotentialVisible(s *model.Survey, currentIndex int, answers model.AnswerMap) map[int]bool {
	potential := make(map[int]bool)
	if currentIndex < 0 || currentIndex >= len(s.Questions) {
		return potential
	}
	currentID := s.Questions[currentIndex].ID

	for i, q := range s.Questions {
		if i == currentIndex {
			potential[i] = true
			continue
		}
		if IsVisible(q, i, answers) {
			potential[i] = true
			continue
		}
		for _, c := range q.Conditions {
			if c.TargetQuestionID == currentID {
				potential[i] = true
				break
			}
		}
	}
	return potential
}
