package engine

import (
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"surveyflow/internal/model"
)

// Evaluate reports whether a single condition is satisfied by the answers
// collected so far. A condition over an unanswered target, an unparsable
// numeric comparison, or a failing expression is simply false; the evaluator
// never returns an error.
func Evaluate(c model.Condition, answers model.AnswerMap) bool {
	answer, ok := answers[c.TargetQuestionID]
	if !ok {
		return false
	}

	if c.Expression != "" {
		return evaluateExpression(c.Expression, answers)
	}

	switch c.Operator {
	case model.OpEquals:
		return equals(answer, c.Value)
	case model.OpNotEquals:
		return !equals(answer, c.Value)
	case model.OpContains:
		if answer.IsSet() {
			return answer.ContainsChoice(c.Value)
		}
		return strings.Contains(answer.StringForm(), c.Value)
	case model.OpGreaterThan, model.OpGreaterOrEqual, model.OpLessThan, model.OpLessOrEqual:
		return compareNumeric(c.Operator, answer, c.Value)
	}

	return false
}

// equals is structural equality on the string form. Equality is not defined
// on multi-choice selections, so a set answer never equals a literal.
func equals(answer model.AnswerValue, value string) bool {
	if answer.IsSet() {
		return false
	}
	return answer.StringForm() == value
}

func compareNumeric(op model.Operator, answer model.AnswerValue, value string) bool {
	a, err := strconv.ParseFloat(strings.TrimSpace(answer.StringForm()), 64)
	if err != nil {
		return false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}

	switch op {
	case model.OpGreaterThan:
		return a > b
	case model.OpGreaterOrEqual:
		return a >= b
	case model.OpLessThan:
		return a < b
	case model.OpLessOrEqual:
		return a <= b
	}
	return false
}

// evaluateExpression compiles and runs a free-form boolean expression against
// the answers map. Question ids are the environment variables: text, number
// and single-choice answers bind to strings (numbers to float64 when they
// parse), multi-choice answers bind to string slices.
func evaluateExpression(expression string, answers model.AnswerMap) bool {
	env := exprEnv(answers)

	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false
	}

	result, ok := output.(bool)
	return ok && result
}

func exprEnv(answers model.AnswerMap) map[string]any {
	env := make(map[string]any, len(answers))
	for id, v := range answers {
		switch v.Kind {
		case model.AnswerChoiceSet:
			env[id] = v.Choices
		case model.AnswerNumber:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64); err == nil {
				env[id] = f
			} else {
				env[id] = v.Text
			}
		default:
			env[id] = v.Text
		}
	}
	return env
}
