package model

import "time"

// QuestionType defines the kind of answer a question collects
type QuestionType string

const (
	QuestionTypeText         QuestionType = "TEXT"          // Free text
	QuestionTypeNumber       QuestionType = "NUMBER"        // Numeric entry, stored as entered
	QuestionTypeSingleChoice QuestionType = "SINGLE_CHOICE" // Exactly one option
	QuestionTypeMultiChoice  QuestionType = "MULTI_CHOICE"  // Any number of options
)

// Operator compares a previously given answer against a literal value
type Operator string

const (
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "not_equals"
	OpContains       Operator = "contains"
	OpGreaterThan    Operator = "greater_than"
	OpGreaterOrEqual Operator = "greater_or_equal"
	OpLessThan       Operator = "less_than"
	OpLessOrEqual    Operator = "less_or_equal"
)

// ConditionMode controls how a question's conditions combine
type ConditionMode string

const (
	ConditionModeAny ConditionMode = "any" // at least one condition must hold (default)
	ConditionModeAll ConditionMode = "all" // every condition must hold
)

// Condition gates a question on an answer given earlier in the survey.
// Value holds the literal to compare against. Expression, when set, replaces
// the operator comparison with a free-form expression over the answers map.
type Condition struct {
	ID               string   `json:"id" bson:"id"`
	TargetQuestionID string   `json:"targetId" bson:"targetId"`
	Operator         Operator `json:"operator" bson:"operator"`
	Value            string   `json:"value" bson:"value"`
	Expression       string   `json:"expression,omitempty" bson:"expression,omitempty"`
}

// Question is a single prompt in a survey
type Question struct {
	ID            string        `json:"id" bson:"id"`
	Text          string        `json:"text" bson:"text"`
	Type          QuestionType  `json:"type" bson:"type"`
	Required      bool          `json:"required" bson:"required"`
	Options       []string      `json:"options,omitempty" bson:"options,omitempty"`
	Conditions    []Condition   `json:"conditions,omitempty" bson:"conditions,omitempty"`
	ConditionMode ConditionMode `json:"conditionMode,omitempty" bson:"conditionMode,omitempty"`
}

// Survey is an ordered questionnaire authored by an admin. Question order is
// meaningful: it defines traversal order and which questions may act as
// condition targets.
type Survey struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Title     string     `json:"title" bson:"title"`
	Questions []Question `json:"questions" bson:"questions"`
	IsActive  bool       `json:"isActive" bson:"isActive"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// QuestionIndex returns the order index of the question with the given id,
// or -1 when the survey has no such question.
func (s *Survey) QuestionIndex(questionID string) int {
	for i, q := range s.Questions {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}
