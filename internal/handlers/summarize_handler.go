package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
)

// SummarizeHandler runs the summarization pipeline over stored materials
type SummarizeHandler struct {
	summarize interfaces.SummarizeService
	logger    arbor.ILogger
}

// NewSummarizeHandler creates a new summarize handler
func NewSummarizeHandler(summarize interfaces.SummarizeService, logger arbor.ILogger) *SummarizeHandler {
	return &SummarizeHandler{
		summarize: summarize,
		logger:    logger,
	}
}

type summarizeRequest struct {
	MaterialID string `json:"material_id" validate:"required"`
	MaxPoints  int    `json:"max_points" validate:"omitempty,min=1,max=20"`
	Validate   *bool  `json:"validate"` // Defaults to true
}

// SummarizeHandler generates a validated summary for a material
func (h *SummarizeHandler) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req summarizeRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	validation := true
	if req.Validate != nil {
		validation = *req.Validate
	}

	result, err := h.summarize.SummarizeMaterial(r.Context(), req.MaterialID, interfaces.SummarizeOptions{
		MaxPoints:         req.MaxPoints,
		ValidationEnabled: validation,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("material_id", req.MaterialID).Msg("Summarization failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
