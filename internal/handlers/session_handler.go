package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
)

// SessionHandler handles interactive study session requests
type SessionHandler struct {
	sessions interfaces.SessionService
	logger   arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type startSessionRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	MaterialID string `json:"material_id" validate:"required"`
	Type       string `json:"session_type" validate:"required,oneof=quiz flashcards"`
}

type attemptRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	QuestionID string `json:"question_id" validate:"required"`
	MaterialID string `json:"material_id"`
	Topic      string `json:"topic"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"is_correct"`
}

// StartHandler begins a new study session
func (h *SessionHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req startSessionRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessions.StartSession(r.Context(), req.UserID, req.MaterialID, req.Type)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, session)
}

// SessionRoutesHandler dispatches /api/sessions/{id} and
// /api/sessions/{id}/attempts.
func (h *SessionHandler) SessionRoutesHandler(w http.ResponseWriter, r *http.Request) {
	suffix := PathSuffix(r, "/api/sessions/")
	if suffix == "" {
		WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	parts := strings.SplitN(suffix, "/", 2)
	sessionID := parts[0]

	if len(parts) == 2 && parts[1] == "attempts" {
		h.recordAttempt(w, r, sessionID)
		return
	}

	switch r.Method {
	case "GET":
		session, err := h.sessions.GetSession(r.Context(), sessionID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, session)
	case "DELETE":
		if err := h.sessions.EndSession(r.Context(), sessionID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteSuccess(w, "Session ended")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SessionHandler) recordAttempt(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req attemptRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	attempt := &models.QuizAttempt{
		UserID:     req.UserID,
		QuestionID: req.QuestionID,
		MaterialID: req.MaterialID,
		Topic:      req.Topic,
		Answer:     req.Answer,
		IsCorrect:  req.IsCorrect,
	}

	session, err := h.sessions.RecordAttempt(r.Context(), sessionID, attempt)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, session)
}
