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

// FeedbackStorage implements interfaces.FeedbackStorage for Badger.
// Records are append-only: there is no update or delete path.
type FeedbackStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFeedbackStorage creates a new FeedbackStorage instance
func NewFeedbackStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FeedbackStorage {
	return &FeedbackStorage{db: db, logger: logger}
}

func (s *FeedbackStorage) StoreFeedback(ctx context.Context, record *models.FeedbackRecord) error {
	if record.ID == "" {
		return fmt.Errorf("feedback ID is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

func (s *FeedbackStorage) GetFeedbackByQuestion(ctx context.Context, questionID string) ([]models.FeedbackRecord, error) {
	var records []models.FeedbackRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("QuestionID").Eq(questionID)); err != nil {
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	return records, nil
}

func (s *FeedbackStorage) CountFeedback(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.FeedbackRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return int(count), nil
}
