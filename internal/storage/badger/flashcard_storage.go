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

// FlashcardStorage implements interfaces.FlashcardStorage for Badger
type FlashcardStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFlashcardStorage creates a new FlashcardStorage instance
func NewFlashcardStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FlashcardStorage {
	return &FlashcardStorage{db: db, logger: logger}
}

func (s *FlashcardStorage) StoreFlashcards(ctx context.Context, cards []*models.Flashcard) error {
	now := time.Now()
	for _, card := range cards {
		if card.ID == "" {
			return fmt.Errorf("flashcard ID is required")
		}
		if card.CreatedAt.IsZero() {
			card.CreatedAt = now
		}
		if err := s.db.Store().Upsert(card.ID, card); err != nil {
			return fmt.Errorf("failed to save flashcard %s: %w", card.ID, err)
		}
	}
	return nil
}

func (s *FlashcardStorage) GetFlashcardsByMaterial(ctx context.Context, materialID string) ([]*models.Flashcard, error) {
	var cards []models.Flashcard
	if err := s.db.Store().Find(&cards, badgerhold.Where("MaterialID").Eq(materialID)); err != nil {
		return nil, fmt.Errorf("failed to find flashcards: %w", err)
	}
	return toPointers(cards), nil
}
