package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
	"github.com/ternarybob/studeo/internal/storage/badger"
)

// UserHandler manages user profiles keyed by external chat identity
type UserHandler struct {
	users  interfaces.UserStorage
	logger arbor.ILogger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users interfaces.UserStorage, logger arbor.ILogger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

type upsertUserRequest struct {
	ExternalID          string `json:"external_id" validate:"required"`
	PreferredDifficulty string `json:"preferred_difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// UpsertHandler creates or updates a user profile
func (h *UserHandler) UpsertHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req upsertUserRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.GetUserByExternalID(r.Context(), req.ExternalID)
	if errors.Is(err, badger.ErrNotFound) {
		user = &models.UserProfile{
			ID:         common.NewUserID(),
			ExternalID: req.ExternalID,
		}
	} else if err != nil {
		WriteServiceError(w, err)
		return
	}

	if req.PreferredDifficulty != "" {
		user.PreferredDifficulty = req.PreferredDifficulty
	}

	if err := h.users.StoreUser(r.Context(), user); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// GetHandler returns the profile for /api/users/{externalID}
func (h *UserHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	externalID := PathSuffix(r, "/api/users/")
	if externalID == "" {
		WriteError(w, http.StatusBadRequest, "External user ID is required")
		return
	}

	user, err := h.users.GetUserByExternalID(r.Context(), externalID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
