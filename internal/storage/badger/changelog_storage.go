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

// ChangelogStorage implements interfaces.ChangelogStorage for Badger.
// The changelog is append-only; entries are never rewritten.
type ChangelogStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChangelogStorage creates a new ChangelogStorage instance
func NewChangelogStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChangelogStorage {
	return &ChangelogStorage{db: db, logger: logger}
}

func (s *ChangelogStorage) AppendEntry(ctx context.Context, entry *models.ChangelogEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("changelog entry ID is required")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if err := s.db.Store().Insert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to append changelog entry: %w", err)
	}
	return nil
}

func (s *ChangelogStorage) GetEntriesByQuestion(ctx context.Context, questionID string) ([]models.ChangelogEntry, error) {
	var entries []models.ChangelogEntry
	if err := s.db.Store().Find(&entries, badgerhold.Where("QuestionID").Eq(questionID)); err != nil {
		return nil, fmt.Errorf("failed to find changelog entries: %w", err)
	}
	return entries, nil
}

func (s *ChangelogStorage) GetEntriesByMaterial(ctx context.Context, materialID string) ([]models.ChangelogEntry, error) {
	var entries []models.ChangelogEntry
	if err := s.db.Store().Find(&entries, badgerhold.Where("MaterialID").Eq(materialID)); err != nil {
		return nil, fmt.Errorf("failed to find changelog entries: %w", err)
	}
	return entries, nil
}
