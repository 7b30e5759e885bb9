package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"surveyflow/internal/cache"
	"surveyflow/internal/engine"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSurveyInactive  = errors.New("survey is not active")
)

// SessionService runs respondent sessions. It wraps the navigation engine
// with persistence: session state lives in Redis between calls, the survey
// definition is re-read per call, and the finished Response is written to
// MongoDB at the completed transition.
type SessionService struct {
	surveyRepo   repository.SurveyRepo
	responseRepo repository.ResponseRepo
	sessions     cache.SessionCache
	authSvc      *AuthService
	broadcaster  Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	surveyRepo repository.SurveyRepo,
	responseRepo repository.ResponseRepo,
	sessions cache.SessionCache,
	authSvc *AuthService,
) *SessionService {
	return &SessionService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		sessions:     sessions,
		authSvc:      authSvc,
	}
}

// SetBroadcaster sets the broadcaster for live watcher events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start begins a session on an active survey and returns its first question
// with a session-scoped token
func (s *SessionService) Start(ctx context.Context, surveyID string) (*model.StartSessionResponse, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey: %w", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if !survey.IsActive {
		return nil, ErrSurveyInactive
	}

	sess, err := engine.NewSession(survey)
	if err != nil {
		return nil, err
	}

	sessionID := "sess_" + uuid.New().String()[:8]
	token, err := s.authSvc.GenerateSessionToken(sessionID, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	state := &model.SessionState{
		ID:        sessionID,
		SurveyID:  surveyID,
		StartedAt: time.Now(),
	}
	if err := s.save(ctx, state, sess); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWatchers(surveyID, "session_started", map[string]interface{}{
			"sessionId": sessionID,
		})
	}

	_, total := sess.Progress()
	return &model.StartSessionResponse{
		SessionID:     sessionID,
		Token:         token,
		SurveyTitle:   survey.Title,
		FirstQuestion: sess.Current(),
		Total:         total,
		HasNext:       sess.CanGoNext(),
	}, nil
}

// CurrentQuestion returns what the respondent should see right now,
// including any answer already stored for re-display
func (s *SessionService) CurrentQuestion(ctx context.Context, sessionID string) (*model.QuestionView, error) {
	sess, _, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Completed() {
		return &model.QuestionView{Completed: true}, nil
	}

	view := &model.QuestionView{
		Question:    sess.Current(),
		HasNext:     sess.CanGoNext(),
		HasPrevious: sess.CanGoPrevious(),
	}
	view.Position, view.Total = sess.Progress()
	if answer, ok := sess.CurrentAnswer(); ok {
		view.Answer = &answer
	}
	return view, nil
}

// SubmitAnswer stores the answer for the session's current question
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID string, value model.AnswerValue) error {
	sess, state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	questionID := sess.Current().ID
	if err := sess.Submit(value); err != nil {
		return err
	}
	if err := s.save(ctx, state, sess); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWatchers(state.SurveyID, "answer_submitted", map[string]interface{}{
			"sessionId":  sessionID,
			"questionId": questionID,
		})
	}
	return nil
}

// Next advances the session. On completion the response record is persisted
// and its id returned.
func (s *SessionService) Next(ctx context.Context, sessionID string) (*model.NextView, error) {
	sess, state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := sess.Next()
	if err != nil {
		return nil, err
	}

	if result.Completed {
		// The response record must exist before the cached session turns
		// terminal, otherwise a failed insert leaves nothing to retry
		if err := s.responseRepo.Create(ctx, result.Response); err != nil {
			return nil, fmt.Errorf("failed to persist response: %w", err)
		}
		if err := s.save(ctx, state, sess); err != nil {
			return nil, err
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToWatchers(state.SurveyID, "session_completed", map[string]interface{}{
				"sessionId":  sessionID,
				"responseId": result.Response.ID,
			})
		}
		return &model.NextView{
			Completed:  true,
			ResponseID: result.Response.ID,
		}, nil
	}

	if err := s.save(ctx, state, sess); err != nil {
		return nil, err
	}

	view := &model.NextView{
		Question:    result.Question,
		HasNext:     sess.CanGoNext(),
		HasPrevious: sess.CanGoPrevious(),
	}
	view.Position, view.Total = sess.Progress()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWatchers(state.SurveyID, "session_progress", map[string]interface{}{
			"sessionId": sessionID,
			"position":  view.Position,
			"total":     view.Total,
		})
	}
	return view, nil
}

// Previous steps the session backward; at the first visible question it is
// a no-op reported as such
func (s *SessionService) Previous(ctx context.Context, sessionID string) (*model.PrevView, error) {
	sess, state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := sess.Previous()
	if err != nil {
		return nil, err
	}

	view := &model.PrevView{
		Moved:       result.Moved,
		HasNext:     sess.CanGoNext(),
		HasPrevious: sess.CanGoPrevious(),
	}
	view.Position, view.Total = sess.Progress()
	if result.Moved {
		view.Question = result.Question
		if err := s.save(ctx, state, sess); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// IsComplete reports whether the session reached its terminal phase
func (s *SessionService) IsComplete(ctx context.Context, sessionID string) (bool, error) {
	sess, _, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return sess.Completed(), nil
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*engine.Session, *model.SessionState, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session state: %w", err)
	}
	if state == nil {
		return nil, nil, ErrSessionNotFound
	}

	survey, err := s.surveyRepo.GetByID(ctx, state.SurveyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load survey: %w", err)
	}
	if survey == nil {
		return nil, nil, ErrSurveyNotFound
	}

	sess, err := engine.Restore(survey, state.CurrentIndex, engine.Phase(state.Phase), state.Answers)
	if err != nil {
		return nil, nil, err
	}
	return sess, state, nil
}

func (s *SessionService) save(ctx context.Context, state *model.SessionState, sess *engine.Session) error {
	state.CurrentIndex = sess.CurrentIndex()
	state.Phase = string(sess.Phase())
	state.Answers = sess.Answers()
	if err := s.sessions.Set(ctx, state); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}
