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

// MaterialStorage implements interfaces.MaterialStorage for Badger
type MaterialStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewMaterialStorage creates a new MaterialStorage instance
func NewMaterialStorage(db *BadgerDB, logger arbor.ILogger) interfaces.MaterialStorage {
	return &MaterialStorage{db: db, logger: logger}
}

func (s *MaterialStorage) StoreMaterial(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		return fmt.Errorf("material ID is required")
	}

	now := time.Now()
	if material.CreatedAt.IsZero() {
		material.CreatedAt = now
	}
	material.UpdatedAt = now

	if err := s.db.Store().Upsert(material.ID, material); err != nil {
		return fmt.Errorf("failed to save material: %w", err)
	}
	return nil
}

func (s *MaterialStorage) GetMaterial(ctx context.Context, id string) (*models.Material, error) {
	var material models.Material
	if err := s.db.Store().Get(id, &material); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("material %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return &material, nil
}

func (s *MaterialStorage) GetMaterialsByUser(ctx context.Context, userID string) ([]*models.Material, error) {
	var materials []models.Material
	if err := s.db.Store().Find(&materials, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to find materials: %w", err)
	}
	return toPointers(materials), nil
}

func (s *MaterialStorage) GetAllMaterials(ctx context.Context) ([]*models.Material, error) {
	var materials []models.Material
	if err := s.db.Store().Find(&materials, nil); err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return toPointers(materials), nil
}

func (s *MaterialStorage) FindByFingerprint(ctx context.Context, userID, fingerprint string) (*models.Material, error) {
	var materials []models.Material
	err := s.db.Store().Find(&materials, badgerhold.Where("Fingerprint").Eq(fingerprint).And("UserID").Eq(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to find material by fingerprint: %w", err)
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("material with fingerprint %s: %w", fingerprint, ErrNotFound)
	}
	return &materials[0], nil
}

func (s *MaterialStorage) DeleteMaterial(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Material{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("material %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete material: %w", err)
	}
	return nil
}

func (s *MaterialStorage) CountMaterials(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Material{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return int(count), nil
}

func toPointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
