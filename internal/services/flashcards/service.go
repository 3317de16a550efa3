// Package flashcards generates front/back study cards from materials.
package flashcards

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
	"github.com/ternarybob/studeo/internal/services/prompts"
)

const (
	defaultCount    = 10
	maxContentChars = 12000
	maxSideChars    = 300
)

// Service generates and stores flashcards
type Service struct {
	completion interfaces.CompletionService
	materials  interfaces.MaterialStorage
	cards      interfaces.FlashcardStorage
	logger     arbor.ILogger
}

// NewService creates a flashcard service
func NewService(completion interfaces.CompletionService, materials interfaces.MaterialStorage, cards interfaces.FlashcardStorage, logger arbor.ILogger) *Service {
	return &Service{
		completion: completion,
		materials:  materials,
		cards:      cards,
		logger:     logger,
	}
}

// GenerateFlashcards generates count cards from a material and persists them
func (s *Service) GenerateFlashcards(ctx context.Context, materialID string, count int) ([]*models.Flashcard, error) {
	material, err := s.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("loading material %s: %w", materialID, err)
	}
	if count <= 0 {
		count = defaultCount
	}

	content := material.ContentText
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	parsed, err := s.completion.CompleteStructured(ctx, prompts.Flashcards(content, count), interfaces.PresetCreative, 2000)
	if err != nil {
		return nil, fmt.Errorf("flashcard generation: %w", err)
	}

	rawCards, ok := parsed["flashcards"].([]interface{})
	if !ok || len(rawCards) == 0 {
		s.logger.Warn().Str("material_id", materialID).Msg("Flashcard generation returned nothing usable")
		return []*models.Flashcard{}, nil
	}

	now := time.Now()
	generated := make([]*models.Flashcard, 0, len(rawCards))
	for _, raw := range rawCards {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		card := &models.Flashcard{
			ID:         common.NewFlashcardID(),
			MaterialID: material.ID,
			UserID:     material.UserID,
			CreatedAt:  now,
		}
		if front, ok := entry["front"].(string); ok {
			card.Front = clip(strings.TrimSpace(front))
		}
		if back, ok := entry["back"].(string); ok {
			card.Back = clip(strings.TrimSpace(back))
		}
		if topic, ok := entry["topic"].(string); ok {
			card.Topic = strings.TrimSpace(topic)
		}
		if card.Front == "" || card.Back == "" {
			continue
		}
		generated = append(generated, card)
		if len(generated) == count {
			break
		}
	}

	if len(generated) > 0 {
		if err := s.cards.StoreFlashcards(ctx, generated); err != nil {
			return nil, fmt.Errorf("storing flashcards: %w", err)
		}
	}
	return generated, nil
}

func clip(s string) string {
	if len(s) > maxSideChars {
		return s[:maxSideChars-3] + "..."
	}
	return s
}
