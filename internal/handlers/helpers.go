package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/studeo/internal/llm"
	"github.com/ternarybob/studeo/internal/services/materials"
	"github.com/ternarybob/studeo/internal/services/sessions"
	"github.com/ternarybob/studeo/internal/storage/badger"
)

var validate = validator.New()

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// DecodeAndValidate decodes the request body into dst and runs struct
// validation. Writes a 400 response and returns false on any failure.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Validation failed: %v", err))
		return false
	}
	return true
}

// WriteServiceError maps service and storage errors onto HTTP status codes
func WriteServiceError(w http.ResponseWriter, err error) {
	var modelErr *llm.ModelNotFoundError
	switch {
	case errors.Is(err, badger.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, materials.ErrDuplicateMaterial):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, materials.ErrEmptyContent):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sessions.ErrSessionExpired):
		WriteError(w, http.StatusGone, err.Error())
	case errors.As(err, &modelErr):
		WriteError(w, http.StatusBadGateway, modelErr.Error())
	case errors.Is(err, llm.ErrTimeout):
		WriteError(w, http.StatusGatewayTimeout, "Model backend timed out")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// PathSuffix extracts the path segment after the given prefix, trimming any
// trailing slash. Returns "" when the path carries no segment.
func PathSuffix(r *http.Request, prefix string) string {
	suffix := strings.TrimPrefix(r.URL.Path, prefix)
	return strings.Trim(suffix, "/")
}
