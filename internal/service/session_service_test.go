package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/config"
	"surveyflow/internal/engine"
	"surveyflow/internal/model"
)

// fakeResponseRepo is an in-memory repository.ResponseRepo
type fakeResponseRepo struct {
	responses map[string]*model.Response
	createErr error
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[string]*model.Response)}
}

func (r *fakeResponseRepo) Create(_ context.Context, response *model.Response) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.responses[response.ID] = response
	return nil
}

func (r *fakeResponseRepo) GetByID(_ context.Context, id string) (*model.Response, error) {
	return r.responses[id], nil
}

func (r *fakeResponseRepo) GetBySurveyID(_ context.Context, surveyID string) ([]*model.Response, error) {
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *fakeResponseRepo) CountBySurveyID(_ context.Context, surveyID string) (int64, error) {
	out, _ := r.GetBySurveyID(context.Background(), surveyID)
	return int64(len(out)), nil
}

func (r *fakeResponseRepo) Delete(_ context.Context, id string) error {
	delete(r.responses, id)
	return nil
}

// fakeSessionCache is an in-memory cache.SessionCache
type fakeSessionCache struct {
	states map[string]*model.SessionState
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{states: make(map[string]*model.SessionState)}
}

func (c *fakeSessionCache) Set(_ context.Context, state *model.SessionState) error {
	copied := *state
	copied.Answers = state.Answers.Clone()
	c.states[state.ID] = &copied
	return nil
}

func (c *fakeSessionCache) Get(_ context.Context, id string) (*model.SessionState, error) {
	return c.states[id], nil
}

func (c *fakeSessionCache) Delete(_ context.Context, id string) error {
	delete(c.states, id)
	return nil
}

// fakeBroadcaster records watcher events
type fakeBroadcaster struct {
	events []string
}

func (b *fakeBroadcaster) BroadcastToWatchers(_ string, event string, _ interface{}) {
	b.events = append(b.events, event)
}

type sessionFixture struct {
	svc       *SessionService
	responses *fakeResponseRepo
	events    *fakeBroadcaster
	surveyID  string
}

func newSessionFixture(t *testing.T, active bool) *sessionFixture {
	t.Helper()

	surveyRepo := newFakeSurveyRepo()
	s := validSurvey()
	s.IsActive = active
	id, err := surveyRepo.Create(context.Background(), s)
	require.NoError(t, err)

	responses := newFakeResponseRepo()
	events := &fakeBroadcaster{}
	authSvc := NewAuthService(&config.Config{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "admin123",
	})

	svc := NewSessionService(surveyRepo, responses, newFakeSessionCache(), authSvc)
	svc.SetBroadcaster(events)

	return &sessionFixture{svc: svc, responses: responses, events: events, surveyID: id}
}

func TestStartSession(t *testing.T) {
	f := newSessionFixture(t, true)

	resp, err := f.svc.Start(context.Background(), f.surveyID)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "q1", resp.FirstQuestion.ID)
	assert.Equal(t, 1, resp.Total) // conditioned q2 hidden until q1 is "No"
	assert.Contains(t, f.events.events, "session_started")
}

func TestStartSessionInactiveSurvey(t *testing.T) {
	f := newSessionFixture(t, false)

	_, err := f.svc.Start(context.Background(), f.surveyID)
	assert.ErrorIs(t, err, ErrSurveyInactive)
}

func TestStartSessionUnknownSurvey(t *testing.T) {
	f := newSessionFixture(t, true)

	_, err := f.svc.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestSessionWalkThroughBranch(t *testing.T) {
	f := newSessionFixture(t, true)
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.surveyID)
	require.NoError(t, err)
	id := started.SessionID

	// "No" opens the conditioned follow-up question
	require.NoError(t, f.svc.SubmitAnswer(ctx, id, model.ChoiceAnswer("No")))

	next, err := f.svc.Next(ctx, id)
	require.NoError(t, err)
	require.False(t, next.Completed)
	assert.Equal(t, "q2", next.Question.ID)
	assert.True(t, next.HasPrevious)

	require.NoError(t, f.svc.SubmitAnswer(ctx, id, model.TextAnswer("too slow")))

	next, err = f.svc.Next(ctx, id)
	require.NoError(t, err)
	require.True(t, next.Completed)
	require.NotEmpty(t, next.ResponseID)

	// The completed record was persisted with the answer snapshot
	stored := f.responses.responses[next.ResponseID]
	require.NotNil(t, stored)
	assert.Equal(t, f.surveyID, stored.SurveyID)
	assert.Equal(t, "too slow", stored.Answers["q2"].Text)
	assert.Contains(t, f.events.events, "session_completed")

	done, err := f.svc.IsComplete(ctx, id)
	require.NoError(t, err)
	assert.True(t, done)

	_, err = f.svc.Next(ctx, id)
	assert.ErrorIs(t, err, engine.ErrSessionCompleted)
}

func TestSessionSkipsBranchAndCompletes(t *testing.T) {
	f := newSessionFixture(t, true)
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.surveyID)
	require.NoError(t, err)
	id := started.SessionID

	// "Yes" keeps q2 hidden, so the first advance already completes
	require.NoError(t, f.svc.SubmitAnswer(ctx, id, model.ChoiceAnswer("Yes")))

	next, err := f.svc.Next(ctx, id)
	require.NoError(t, err)
	assert.True(t, next.Completed)
}

func TestNextRetriesWhenResponsePersistFails(t *testing.T) {
	f := newSessionFixture(t, true)
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.surveyID)
	require.NoError(t, err)
	id := started.SessionID

	require.NoError(t, f.svc.SubmitAnswer(ctx, id, model.ChoiceAnswer("Yes")))

	f.responses.createErr = errors.New("write unavailable")
	_, err = f.svc.Next(ctx, id)
	require.Error(t, err)

	// The failed insert must not leave the cached session terminal
	done, err := f.svc.IsComplete(ctx, id)
	require.NoError(t, err)
	assert.False(t, done)

	f.responses.createErr = nil
	next, err := f.svc.Next(ctx, id)
	require.NoError(t, err)
	require.True(t, next.Completed)
	assert.NotNil(t, f.responses.responses[next.ResponseID])
}

func TestSessionPreviousNoopAtStart(t *testing.T) {
	f := newSessionFixture(t, true)
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.surveyID)
	require.NoError(t, err)

	prev, err := f.svc.Previous(ctx, started.SessionID)
	require.NoError(t, err)
	assert.False(t, prev.Moved)
	assert.False(t, prev.HasPrevious)

	// Position unchanged
	view, err := f.svc.CurrentQuestion(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "q1", view.Question.ID)
}

func TestCurrentQuestionEchoesStoredAnswer(t *testing.T) {
	f := newSessionFixture(t, true)
	ctx := context.Background()

	started, err := f.svc.Start(ctx, f.surveyID)
	require.NoError(t, err)
	id := started.SessionID

	require.NoError(t, f.svc.SubmitAnswer(ctx, id, model.ChoiceAnswer("No")))

	view, err := f.svc.CurrentQuestion(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, view.Answer)
	assert.Equal(t, "No", view.Answer.Text)
	assert.Equal(t, 1, view.Position)
	assert.Equal(t, 2, view.Total)
}

func TestSessionNotFound(t *testing.T) {
	f := newSessionFixture(t, true)

	_, err := f.svc.CurrentQuestion(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
