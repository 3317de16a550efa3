package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
)

// ExportHandler renders study sheets to PDF
type ExportHandler struct {
	export interfaces.ExportService
	logger arbor.ILogger
}

// NewExportHandler creates a new export handler
func NewExportHandler(export interfaces.ExportService, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		export: export,
		logger: logger,
	}
}

type exportRequest struct {
	MaterialID        string `json:"material_id" validate:"required"`
	IncludeFlashcards bool   `json:"include_flashcards"`
}

// StudySheetHandler renders a material's summary (and optionally its
// flashcards) to a PDF study sheet and returns the output path.
func (h *ExportHandler) StudySheetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req exportRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	path, err := h.export.ExportStudySheet(r.Context(), req.MaterialID, req.IncludeFlashcards)
	if err != nil {
		h.logger.Warn().Err(err).Str("material_id", req.MaterialID).Msg("Study sheet export failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"path":   path,
	})
}
