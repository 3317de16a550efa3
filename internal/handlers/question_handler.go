package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
)

// QuestionHandler handles question generation, feedback, and the quality loop
type QuestionHandler struct {
	qa        interfaces.QAService
	questions interfaces.QuestionStorage
	logger    arbor.ILogger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(qa interfaces.QAService, questions interfaces.QuestionStorage, logger arbor.ILogger) *QuestionHandler {
	return &QuestionHandler{
		qa:        qa,
		questions: questions,
		logger:    logger,
	}
}

type generateQuestionsRequest struct {
	MaterialID string   `json:"material_id" validate:"required"`
	Count      int      `json:"count" validate:"omitempty,min=1,max=50"`
	Types      []string `json:"types" validate:"omitempty,dive,oneof=multiple_choice short_answer"`
	Difficulty string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Topics     []string `json:"topics"`
}

type generateAdversarialRequest struct {
	MaterialID     string `json:"material_id" validate:"required"`
	Count          int    `json:"count" validate:"omitempty,min=1,max=20"`
	BaseOnExisting bool   `json:"base_on_existing"`
}

type feedbackRequest struct {
	QuestionID       string  `json:"question_id" validate:"required"`
	UserID           string  `json:"user_id" validate:"required"`
	IsCorrect        bool    `json:"is_correct"`
	IsHelpful        *bool   `json:"is_helpful"`
	DifficultyRating *int    `json:"difficulty_rating" validate:"omitempty,min=1,max=5"`
	FeedbackText     *string `json:"feedback_text"`
}

type evaluateRequest struct {
	MaterialID string  `json:"material_id" validate:"required"`
	Threshold  float64 `json:"threshold" validate:"omitempty,min=0,max=1"`
}

// GenerateHandler creates a batch of quiz questions for a material
func (h *QuestionHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req generateQuestionsRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	generated, err := h.qa.GenerateQuestions(r.Context(), req.MaterialID, interfaces.QuestionRequest{
		Count:      req.Count,
		Types:      req.Types,
		Difficulty: req.Difficulty,
		Topics:     req.Topics,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("material_id", req.MaterialID).Msg("Question generation failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"questions": generated,
		"count":     len(generated),
	})
}

// AdversarialHandler creates deliberately tricky questions for a material
func (h *QuestionHandler) AdversarialHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req generateAdversarialRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	generated, err := h.qa.GenerateAdversarial(r.Context(), req.MaterialID, req.Count, req.BaseOnExisting)
	if err != nil {
		h.logger.Warn().Err(err).Str("material_id", req.MaterialID).Msg("Adversarial generation failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"questions": generated,
		"count":     len(generated),
	})
}

// FeedbackHandler records one user's feedback on a question
func (h *QuestionHandler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req feedbackRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	record := &models.FeedbackRecord{
		ID:               common.NewFeedbackID(),
		QuestionID:       req.QuestionID,
		UserID:           req.UserID,
		IsCorrect:        req.IsCorrect,
		IsHelpful:        req.IsHelpful,
		DifficultyRating: req.DifficultyRating,
		FeedbackText:     req.FeedbackText,
	}

	if err := h.qa.RecordFeedback(r.Context(), record); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, record)
}

// EvaluateHandler runs the quality sweep over a material's questions
func (h *QuestionHandler) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req evaluateRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.qa.EvaluateQuestions(r.Context(), req.MaterialID, req.Threshold)
	if err != nil {
		h.logger.Warn().Err(err).Str("material_id", req.MaterialID).Msg("Question evaluation failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// ListHandler returns stored questions for a material (?material_id=)
func (h *QuestionHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	materialID := r.URL.Query().Get("material_id")
	if materialID == "" {
		WriteError(w, http.StatusBadRequest, "material_id query parameter is required")
		return
	}

	items, err := h.questions.GetQuestionsByMaterial(r.Context(), materialID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"questions": items,
		"count":     len(items),
	})
}
