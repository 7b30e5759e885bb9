package model

import "strings"

// AnswerKind tags the shape of an answer value
type AnswerKind string

const (
	AnswerText      AnswerKind = "text"
	AnswerNumber    AnswerKind = "number"
	AnswerChoice    AnswerKind = "choice"
	AnswerChoiceSet AnswerKind = "choiceSet"
)

// AnswerValue is one respondent answer. Text carries the value for the
// scalar kinds (numbers stay as entered); Choices carries the selected
// options for AnswerChoiceSet.
type AnswerValue struct {
	Kind    AnswerKind `json:"kind" bson:"kind"`
	Text    string     `json:"text,omitempty" bson:"text,omitempty"`
	Choices []string   `json:"choices,omitempty" bson:"choices,omitempty"`
}

// TextAnswer builds a free-text answer
func TextAnswer(text string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: text}
}

// NumberAnswer builds a numeric answer, kept as entered
func NumberAnswer(text string) AnswerValue {
	return AnswerValue{Kind: AnswerNumber, Text: text}
}

// ChoiceAnswer builds a single-choice answer
func ChoiceAnswer(option string) AnswerValue {
	return AnswerValue{Kind: AnswerChoice, Text: option}
}

// ChoiceSetAnswer builds a multi-choice answer
func ChoiceSetAnswer(options ...string) AnswerValue {
	return AnswerValue{Kind: AnswerChoiceSet, Choices: options}
}

// IsSet reports whether the value is a multi-choice selection
func (v AnswerValue) IsSet() bool {
	return v.Kind == AnswerChoiceSet
}

// ContainsChoice reports whether a multi-choice answer includes the option
func (v AnswerValue) ContainsChoice(option string) bool {
	for _, c := range v.Choices {
		if c == option {
			return true
		}
	}
	return false
}

// StringForm returns the answer rendered as a single string. Multi-choice
// selections join their options with a comma.
func (v AnswerValue) StringForm() string {
	if v.IsSet() {
		return strings.Join(v.Choices, ", ")
	}
	return v.Text
}

// AnswerMap maps question id to the answer given for it
type AnswerMap map[string]AnswerValue

// Clone returns an independent copy of the map
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for id, v := range m {
		if v.Choices != nil {
			v.Choices = append([]string(nil), v.Choices...)
		}
		out[id] = v
	}
	return out
}
