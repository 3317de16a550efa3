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

// SummaryStorage implements interfaces.SummaryStorage for Badger
type SummaryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSummaryStorage creates a new SummaryStorage instance
func NewSummaryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SummaryStorage {
	return &SummaryStorage{db: db, logger: logger}
}

func (s *SummaryStorage) StoreSummary(ctx context.Context, summary *models.StoredSummary) error {
	if summary.ID == "" {
		return fmt.Errorf("summary ID is required")
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(summary.ID, summary); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

func (s *SummaryStorage) GetSummariesByMaterial(ctx context.Context, materialID string) ([]*models.StoredSummary, error) {
	var summaries []models.StoredSummary
	if err := s.db.Store().Find(&summaries, badgerhold.Where("MaterialID").Eq(materialID)); err != nil {
		return nil, fmt.Errorf("failed to find summaries: %w", err)
	}
	return toPointers(summaries), nil
}
