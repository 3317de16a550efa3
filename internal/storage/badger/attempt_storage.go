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

// AttemptStorage implements interfaces.AttemptStorage for Badger.
// Attempts are append-only; analytics reads them back in bulk.
type AttemptStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAttemptStorage creates a new AttemptStorage instance
func NewAttemptStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AttemptStorage {
	return &AttemptStorage{db: db, logger: logger}
}

func (s *AttemptStorage) StoreAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if attempt.ID == "" {
		return fmt.Errorf("attempt ID is required")
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(attempt.ID, attempt); err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

func (s *AttemptStorage) GetAttemptsByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := s.db.Store().Find(&attempts, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to find attempts: %w", err)
	}
	return attempts, nil
}

func (s *AttemptStorage) GetAttemptsBySession(ctx context.Context, sessionID string) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := s.db.Store().Find(&attempts, badgerhold.Where("SessionID").Eq(sessionID)); err != nil {
		return nil, fmt.Errorf("failed to find attempts: %w", err)
	}
	return attempts, nil
}
