package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/model"
)

func mustSession(t *testing.T, s *model.Survey) *Session {
	t.Helper()
	sess, err := NewSession(s)
	require.NoError(t, err)
	return sess
}

func TestNewSessionEmptySurvey(t *testing.T) {
	_, err := NewSession(&model.Survey{ID: "s1"})
	assert.ErrorIs(t, err, ErrNoVisibleQuestions)

	_, err = NewSession(nil)
	assert.ErrorIs(t, err, ErrNoVisibleQuestions)
}

func TestSessionStartsOnFirstQuestion(t *testing.T) {
	sess := mustSession(t, branchingSurvey())

	assert.Equal(t, "q1", sess.Current().ID)
	assert.Equal(t, PhaseInProgress, sess.Phase())
	assert.False(t, sess.CanGoPrevious())
}

func TestNextSkipsHiddenBranch(t *testing.T) {
	sess := mustSession(t, branchingSurvey())

	// Scenario A: "No" hides q2, so q3 comes straight after q1
	require.NoError(t, sess.Submit(model.ChoiceAnswer("No")))
	res, err := sess.Next()
	require.NoError(t, err)
	require.NotNil(t, res.Question)
	assert.Equal(t, "q3", res.Question.ID)

	res, err = sess.Next()
	require.NoError(t, err)
	assert.True(t, res.Completed)
	require.NotNil(t, res.Response)
	assert.Equal(t, "s1", res.Response.SurveyID)
}

func TestNextEntersOpenBranch(t *testing.T) {
	sess := mustSession(t, branchingSurvey())

	// Scenario B: "Yes" opens q2, then q3, then done
	require.NoError(t, sess.Submit(model.ChoiceAnswer("Yes")))
	res, err := sess.Next()
	require.NoError(t, err)
	assert.Equal(t, "q2", res.Question.ID)

	require.NoError(t, sess.Submit(model.TextAnswer("a dog")))
	res, err = sess.Next()
	require.NoError(t, err)
	assert.Equal(t, "q3", res.Question.ID)

	res, err = sess.Next()
	require.NoError(t, err)
	assert.True(t, res.Completed)
}

func TestRetroactiveAnswerChangeReroutes(t *testing.T) {
	sess := mustSession(t, branchingSurvey())

	// Scenario C: reach q2 via "Yes", go back, flip to "No"
	require.NoError(t, sess.Submit(model.ChoiceAnswer("Yes")))
	res, err := sess.Next()
	require.NoError(t, err)
	require.Equal(t, "q2", res.Question.ID)

	prev, err := sess.Previous()
	require.NoError(t, err)
	require.True(t, prev.Moved)
	require.Equal(t, "q1", prev.Question.ID)

	require.NoError(t, sess.Submit(model.ChoiceAnswer("No")))
	res, err = sess.Next()
	require.NoError(t, err)
	require.NotNil(t, res.Question)

	// Visibility is recomputed from current answers, never cached
	assert.Equal(t, "q3", res.Question.ID)
}

func TestTermination(t *testing.T) {
	s := &model.Survey{ID: "s1", Questions: []model.Question{
		{ID: "q1"}, {ID: "q2"}, {ID: "q3"}, {ID: "q4"}, {ID: "q5"},
	}}
	sess := mustSession(t, s)

	calls := 0
	for {
		res, err := sess.Next()
		require.NoError(t, err)
		calls++
		require.LessOrEqual(t, calls, len(s.Questions))
		if res.Completed {
			break
		}
	}
	assert.True(t, sess.Completed())
}

func TestPreviousIsNoopAtFirstVisible(t *testing.T) {
	sess := mustSession(t, branchingSurvey())

	prev, err := sess.Previous()
	require.NoError(t, err)
	assert.False(t, prev.Moved)
	assert.Equal(t, "q1", sess.Current().ID)
	assert.False(t, sess.CanGoPrevious())
}

func TestPreviousSkipsHiddenQuestions(t *testing.T) {
	sess := mustSession(t, branchingSurvey())

	require.NoError(t, sess.Submit(model.ChoiceAnswer("No")))
	res, err := sess.Next()
	require.NoError(t, err)
	require.Equal(t, "q3", res.Question.ID)

	// q2 is hidden, so backward lands on q1 and the answer survives
	prev, err := sess.Previous()
	require.NoError(t, err)
	require.True(t, prev.Moved)
	assert.Equal(t, "q1", prev.Question.ID)

	answer, ok := sess.CurrentAnswer()
	require.True(t, ok)
	assert.Equal(t, "No", answer.Text)
}

func TestCanGoNextUsesLookaheadWhileUnanswered(t *testing.T) {
	// Only a conditioned question follows: without the lookahead the button
	// would prematurely read "finish" before q1 is answered
	s := &model.Survey{ID: "s1", Questions: []model.Question{
		{ID: "q1", Type: model.QuestionTypeSingleChoice, Options: []string{"Yes", "No"}},
		{ID: "q2", Conditions: []model.Condition{
			{TargetQuestionID: "q1", Operator: model.OpEquals, Value: "Yes"},
		}},
	}}
	sess := mustSession(t, s)

	assert.True(t, sess.CanGoNext())

	require.NoError(t, sess.Submit(model.ChoiceAnswer("No")))
	assert.False(t, sess.CanGoNext())

	require.NoError(t, sess.Submit(model.ChoiceAnswer("Yes")))
	assert.True(t, sess.CanGoNext())
}

func TestLookaheadDoesNotRouteNavigation(t *testing.T) {
	s := &model.Survey{ID: "s1", Questions: []model.Question{
		{ID: "q1", Type: model.QuestionTypeSingleChoice, Options: []string{"Yes", "No"}},
		{ID: "q2", Conditions: []model.Condition{
			{TargetQuestionID: "q1", Operator: model.OpEquals, Value: "Yes"},
		}},
	}}
	sess := mustSession(t, s)

	// Lookahead says a next question may exist, but Next still completes when
	// the actual answers keep q2 hidden
	require.True(t, sess.CanGoNext())
	res, err := sess.Next()
	require.NoError(t, err)
	assert.True(t, res.Completed)
}

func TestCompletionIsTerminal(t *testing.T) {
	s := &model.Survey{ID: "s1", Questions: []model.Question{{ID: "q1"}}}
	sess := mustSession(t, s)

	res, err := sess.Next()
	require.NoError(t, err)
	require.True(t, res.Completed)

	_, err = sess.Next()
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = sess.Previous()
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.ErrorIs(t, sess.Submit(model.TextAnswer("late")), ErrSessionCompleted)
	assert.False(t, sess.CanGoNext())
	assert.False(t, sess.CanGoPrevious())
}

func TestResponseSnapshotIsIndependent(t *testing.T) {
	s := &model.Survey{ID: "s1", Questions: []model.Question{
		{ID: "q1", Type: model.QuestionTypeMultiChoice, Options: []string{"A", "B"}},
	}}
	sess := mustSession(t, s)

	picked := []string{"A", "B"}
	require.NoError(t, sess.Submit(model.ChoiceSetAnswer(picked...)))
	res, err := sess.Next()
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.Equal(t, []string{"A", "B"}, res.Response.Answers["q1"].Choices)

	// Neither the slice the respondent handed in nor a snapshot taken from
	// the session shares backing storage with the recorded response
	picked[0] = "Z"
	snap := sess.Answers()
	snap["q1"].Choices[1] = "Z"
	assert.Equal(t, []string{"A", "B"}, res.Response.Answers["q1"].Choices)
}

func TestProgressCountsVisibleOnly(t *testing.T) {
	sess := mustSession(t, branchingSurvey())

	pos, total := sess.Progress()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 2, total) // q2 hidden until q1 is "Yes"

	require.NoError(t, sess.Submit(model.ChoiceAnswer("Yes")))
	_, err := sess.Next()
	require.NoError(t, err)

	pos, total = sess.Progress()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 3, total)
}

func TestRestoreRoundTrip(t *testing.T) {
	s := branchingSurvey()
	sess := mustSession(t, s)

	require.NoError(t, sess.Submit(model.ChoiceAnswer("Yes")))
	_, err := sess.Next()
	require.NoError(t, err)

	restored, err := Restore(s, sess.CurrentIndex(), sess.Phase(), sess.Answers())
	require.NoError(t, err)

	assert.Equal(t, sess.Current().ID, restored.Current().ID)
	assert.Equal(t, sess.Answers(), restored.Answers())
	assert.Equal(t, sess.Phase(), restored.Phase())
}

func TestRestoreClampsIndex(t *testing.T) {
	s := branchingSurvey()

	restored, err := Restore(s, 42, PhaseInProgress, model.AnswerMap{})
	require.NoError(t, err)
	assert.Equal(t, len(s.Questions)-1, restored.CurrentIndex())

	restored, err = Restore(s, -3, PhaseInProgress, model.AnswerMap{})
	require.NoError(t, err)
	assert.Equal(t, 0, restored.CurrentIndex())
}
