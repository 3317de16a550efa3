package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
)

// FlashcardHandler handles flashcard generation and retrieval
type FlashcardHandler struct {
	flashcards interfaces.FlashcardService
	cards      interfaces.FlashcardStorage
	logger     arbor.ILogger
}

// NewFlashcardHandler creates a new flashcard handler
func NewFlashcardHandler(flashcards interfaces.FlashcardService, cards interfaces.FlashcardStorage, logger arbor.ILogger) *FlashcardHandler {
	return &FlashcardHandler{
		flashcards: flashcards,
		cards:      cards,
		logger:     logger,
	}
}

type generateFlashcardsRequest struct {
	MaterialID string `json:"material_id" validate:"required"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=50"`
}

// GenerateHandler creates flashcards for a material
func (h *FlashcardHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req generateFlashcardsRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	generated, err := h.flashcards.GenerateFlashcards(r.Context(), req.MaterialID, req.Count)
	if err != nil {
		h.logger.Warn().Err(err).Str("material_id", req.MaterialID).Msg("Flashcard generation failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"flashcards": generated,
		"count":      len(generated),
	})
}

// ListHandler returns stored flashcards for a material (?material_id=)
func (h *FlashcardHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	materialID := r.URL.Query().Get("material_id")
	if materialID == "" {
		WriteError(w, http.StatusBadRequest, "material_id query parameter is required")
		return
	}

	items, err := h.cards.GetFlashcardsByMaterial(r.Context(), materialID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"flashcards": items,
		"count":      len(items),
	})
}
