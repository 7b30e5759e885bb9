package model

import "time"

// SessionState is the persisted form of an in-progress respondent session.
// It is enough, together with the survey definition, to rebuild the session.
type SessionState struct {
	ID           string    `json:"id"`
	SurveyID     string    `json:"surveyId"`
	CurrentIndex int       `json:"currentIndex"`
	Phase        string    `json:"phase"`
	Answers      AnswerMap `json:"answers"`
	StartedAt    time.Time `json:"startedAt"`
}

// QuestionView is what the UI needs to render the current question
type QuestionView struct {
	Question    *Question    `json:"question"`
	Answer      *AnswerValue `json:"answer,omitempty"`
	Position    int          `json:"position"`
	Total       int          `json:"total"`
	HasNext     bool         `json:"hasNext"`
	HasPrevious bool         `json:"hasPrevious"`
	Completed   bool         `json:"completed"`
}

// StartSessionResponse is returned when a respondent session begins
type StartSessionResponse struct {
	SessionID     string    `json:"sessionId"`
	Token         string    `json:"token"`
	SurveyTitle   string    `json:"surveyTitle"`
	FirstQuestion *Question `json:"firstQuestion"`
	Total         int       `json:"total"`
	HasNext       bool      `json:"hasNext"`
}

// NextView is the outcome of advancing a session
type NextView struct {
	Completed   bool      `json:"completed"`
	ResponseID  string    `json:"responseId,omitempty"`
	Question    *Question `json:"question,omitempty"`
	Position    int       `json:"position,omitempty"`
	Total       int       `json:"total,omitempty"`
	HasNext     bool      `json:"hasNext"`
	HasPrevious bool      `json:"hasPrevious"`
}

// PrevView is the outcome of stepping a session backward. Moved is false
// when the session is already at the first visible question.
type PrevView struct {
	Moved       bool      `json:"moved"`
	Question    *Question `json:"question,omitempty"`
	Position    int       `json:"position,omitempty"`
	Total       int       `json:"total,omitempty"`
	HasNext     bool      `json:"hasNext"`
	HasPrevious bool      `json:"hasPrevious"`
}
