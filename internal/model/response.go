package model

import "time"

// Response is the immutable record produced when a respondent session
// completes. Answers is a snapshot taken at the moment of completion.
type Response struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	SurveyID    string    `json:"surveyId" bson:"surveyId"`
	Answers     AnswerMap `json:"answers" bson:"answers"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}
