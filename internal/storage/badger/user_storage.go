package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
)

// UserStorage implements interfaces.UserStorage for Badger
type UserStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewUserStorage creates a new UserStorage instance
func NewUserStorage(db *BadgerDB, logger arbor.ILogger) interfaces.UserStorage {
	return &UserStorage{db: db, logger: logger}
}

func (s *UserStorage) StoreUser(ctx context.Context, user *models.UserProfile) error {
	if user.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	if user.ExternalID == "" {
		return fmt.Errorf("user external ID is required")
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.LastActive = now

	if err := s.db.Store().Upsert(user.ID, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *UserStorage) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := s.db.Store().Get(id, &user)
	if err == badgerhold.ErrNotFound {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *UserStorage) GetUserByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error) {
	var users []models.UserProfile
	if err := s.db.Store().Find(&users, badgerhold.Where("ExternalID").Eq(externalID)); err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", externalID, ErrNotFound)
	}
	return &users[0], nil
}
