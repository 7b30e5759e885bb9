package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"surveyflow/internal/engine"
	"surveyflow/internal/model"
	"surveyflow/internal/service"
	"surveyflow/internal/transport/rest/middleware"
)

// SessionHandler handles respondent session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Start handles POST /v1/surveys/{surveyId}/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	resp, err := h.sessionSvc.Start(r.Context(), surveyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSurveyNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSurveyInactive):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, engine.ErrNoVisibleQuestions):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetCurrent handles GET /v1/sessions/{sessionId}/question/current
func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessionSvc.CurrentQuestion(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	Answer model.AnswerValue `json:"answer"`
}

// SubmitAnswer handles PUT /v1/sessions/{sessionId}/answer
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Answer.Kind == "" {
		writeError(w, http.StatusBadRequest, "answer kind is required")
		return
	}

	if err := h.sessionSvc.SubmitAnswer(r.Context(), sessionID, req.Answer); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Next handles POST /v1/sessions/{sessionId}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessionSvc.Next(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Previous handles POST /v1/sessions/{sessionId}/previous
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessionSvc.Previous(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// sessionID resolves the session id from the path and checks that the token
// is scoped to the same session
func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	pathID := mux.Vars(r)["sessionId"]
	tokenID := middleware.GetSessionID(r.Context())
	if pathID != tokenID {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return "", false
	}
	return pathID, true
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSurveyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrSessionCompleted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
