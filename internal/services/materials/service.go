// Package materials ingests study content from text, PDF files, and URLs,
// normalizes it to plain text, and deduplicates by content fingerprint.
package materials

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
	"github.com/ternarybob/studeo/internal/services/prompts"
)

// ErrDuplicateMaterial indicates the same content was already ingested by this user
var ErrDuplicateMaterial = errors.New("material with identical content already exists")

// ErrEmptyContent indicates extraction produced no usable text
var ErrEmptyContent = errors.New("no text content could be extracted")

const topicExtractionChars = 12000

// Service ingests and manages study materials
type Service struct {
	storage    interfaces.MaterialStorage
	completion interfaces.CompletionService
	users      interfaces.UserStorage // optional, nil disables profile counters
	config     common.IngestConfig
	logger     arbor.ILogger
}

// NewService creates a material service
func NewService(storage interfaces.MaterialStorage, completion interfaces.CompletionService, users interfaces.UserStorage, config common.IngestConfig, logger arbor.ILogger) *Service {
	return &Service{
		storage:    storage,
		completion: completion,
		users:      users,
		config:     config,
		logger:     logger,
	}
}

// IngestText stores pasted text as a material
func (s *Service) IngestText(ctx context.Context, userID, title, text string) (*models.Material, error) {
	return s.store(ctx, userID, models.SourceTypeText, title, title, text)
}

// IngestPDF extracts text from an uploaded PDF and stores it
func (s *Service) IngestPDF(ctx context.Context, userID, filename string, data []byte) (*models.Material, error) {
	text, err := extractPDFText(data, s.logger)
	if err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w", err)
	}
	title := strings.TrimSuffix(filename, ".pdf")
	return s.store(ctx, userID, models.SourceTypePDF, filename, title, text)
}

// IngestURL fetches a web page, extracts its main content as markdown, and stores it
func (s *Service) IngestURL(ctx context.Context, userID, url string) (*models.Material, error) {
	title, text, err := s.fetchURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if title == "" {
		title = url
	}
	return s.store(ctx, userID, models.SourceTypeURL, url, title, text)
}

// GetMaterial returns one material by id
func (s *Service) GetMaterial(ctx context.Context, id string) (*models.Material, error) {
	return s.storage.GetMaterial(ctx, id)
}

// ListMaterials returns all of a user's materials
func (s *Service) ListMaterials(ctx context.Context, userID string) ([]*models.Material, error) {
	return s.storage.GetMaterialsByUser(ctx, userID)
}

// DeleteMaterial removes one material by id
func (s *Service) DeleteMaterial(ctx context.Context, id string) error {
	return s.storage.DeleteMaterial(ctx, id)
}

// store normalizes, deduplicates, topic-extracts, and persists content
func (s *Service) store(ctx context.Context, userID, sourceType, sourceRef, title, text string) (*models.Material, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyContent
	}

	fingerprint := Fingerprint(text)
	existing, err := s.storage.FindByFingerprint(ctx, userID, fingerprint)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w (existing id %s)", ErrDuplicateMaterial, existing.ID)
	}

	now := time.Now()
	material := &models.Material{
		ID:          common.NewMaterialID(),
		UserID:      userID,
		SourceType:  sourceType,
		SourceRef:   sourceRef,
		Title:       title,
		ContentText: text,
		Fingerprint: fingerprint,
		WordCount:   len(strings.Fields(text)),
		Topics:      s.extractTopics(ctx, text),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.StoreMaterial(ctx, material); err != nil {
		return nil, fmt.Errorf("storing material: %w", err)
	}

	s.logger.Info().
		Str("material_id", material.ID).
		Str("source_type", sourceType).
		Int("word_count", material.WordCount).
		Msg("Ingested material")

	s.bumpUploadCounter(ctx, userID)
	return material, nil
}

// bumpUploadCounter advances the user's lifetime upload count. Failures
// are logged, not surfaced: the material itself is already persisted.
func (s *Service) bumpUploadCounter(ctx context.Context, userID string) {
	if s.users == nil {
		return
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return
	}
	user.MaterialsUploaded++
	if err := s.users.StoreUser(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to update profile counters")
	}
}

// extractTopics asks the model for key topics at ingest time. Failures are
// absorbed: a material without topics is still usable.
func (s *Service) extractTopics(ctx context.Context, text string) []string {
	if s.completion == nil {
		return nil
	}
	if len(text) > topicExtractionChars {
		text = text[:topicExtractionChars]
	}
	parsed, err := s.completion.CompleteStructured(ctx, prompts.TopicExtraction(text), interfaces.PresetFactual, 500)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Topic extraction at ingest failed")
		return nil
	}
	raw, ok := parsed["key_topics"].([]interface{})
	if !ok {
		return nil
	}
	topics := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
			topics = append(topics, strings.TrimSpace(str))
		}
	}
	return topics
}

// Fingerprint computes the dedupe hash for material content. Whitespace is
// collapsed first so formatting differences do not defeat deduplication.
func Fingerprint(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
