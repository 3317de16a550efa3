package handlers

import (
	"io"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
)

// maxUploadBytes caps PDF uploads at 20MB
const maxUploadBytes = 20 << 20

// MaterialHandler handles study material ingestion and management
type MaterialHandler struct {
	materials interfaces.MaterialService
	logger    arbor.ILogger
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(materials interfaces.MaterialService, logger arbor.ILogger) *MaterialHandler {
	return &MaterialHandler{
		materials: materials,
		logger:    logger,
	}
}

type ingestTextRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Title  string `json:"title"`
	Text   string `json:"text" validate:"required"`
}

type ingestURLRequest struct {
	UserID string `json:"user_id" validate:"required"`
	URL    string `json:"url" validate:"required,url"`
}

// IngestTextHandler accepts raw pasted text as a new material
func (h *MaterialHandler) IngestTextHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req ingestTextRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	material, err := h.materials.IngestText(r.Context(), req.UserID, req.Title, req.Text)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("Text ingestion failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, material)
}

// IngestPDFHandler accepts a multipart PDF upload as a new material.
// Form fields: user_id, file.
func (h *MaterialHandler) IngestPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	userID := r.FormValue("user_id")
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	material, err := h.materials.IngestPDF(r.Context(), userID, header.Filename, data)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("PDF ingestion failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, material)
}

// IngestURLHandler fetches a web page and stores its content as a material
func (h *MaterialHandler) IngestURLHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req ingestURLRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	material, err := h.materials.IngestURL(r.Context(), req.UserID, req.URL)
	if err != nil {
		h.logger.Warn().Err(err).Str("url", req.URL).Msg("URL ingestion failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, material)
}

// ListMaterialsHandler returns all materials for a user (?user_id=)
func (h *MaterialHandler) ListMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	items, err := h.materials.ListMaterials(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"materials": items,
		"count":     len(items),
	})
}

// MaterialByIDHandler handles GET and DELETE on /api/materials/{id}
func (h *MaterialHandler) MaterialByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := PathSuffix(r, "/api/materials/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Material ID is required")
		return
	}

	switch r.Method {
	case "GET":
		material, err := h.materials.GetMaterial(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, material)
	case "DELETE":
		if err := h.materials.DeleteMaterial(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteSuccess(w, "Material deleted")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
