package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
)

// StatusHandler reports backend availability and storage counts
type StatusHandler struct {
	completion interfaces.CompletionService
	materials  interfaces.MaterialStorage
	questions  interfaces.QuestionStorage
	feedback   interfaces.FeedbackStorage
	logger     arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(completion interfaces.CompletionService, materials interfaces.MaterialStorage, questions interfaces.QuestionStorage, feedback interfaces.FeedbackStorage, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		completion: completion,
		materials:  materials,
		questions:  questions,
		feedback:   feedback,
		logger:     logger,
	}
}

// GetStatusHandler returns application status including the model backend
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := map[string]interface{}{
		"status": "ok",
	}

	models, err := h.completion.ListModels(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Model backend unreachable")
		status["backend"] = map[string]interface{}{
			"available": false,
			"error":     err.Error(),
		}
	} else {
		status["backend"] = map[string]interface{}{
			"available": true,
			"models":    models,
		}
	}

	counts := map[string]int{}
	if n, err := h.materials.CountMaterials(r.Context()); err == nil {
		counts["materials"] = n
	}
	if n, err := h.questions.CountQuestions(r.Context()); err == nil {
		counts["questions"] = n
	}
	if n, err := h.feedback.CountFeedback(r.Context()); err == nil {
		counts["feedback"] = n
	}
	status["counts"] = counts

	WriteJSON(w, http.StatusOK, status)
}
