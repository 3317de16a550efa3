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

// QuestionStorage implements interfaces.QuestionStorage for Badger
type QuestionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewQuestionStorage creates a new QuestionStorage instance
func NewQuestionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.QuestionStorage {
	return &QuestionStorage{db: db, logger: logger}
}

func (s *QuestionStorage) StoreQuestion(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		return fmt.Errorf("question ID is required")
	}

	now := time.Now()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = now
	}
	question.UpdatedAt = now

	if err := s.db.Store().Upsert(question.ID, question); err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

func (s *QuestionStorage) StoreQuestions(ctx context.Context, questions []*models.Question) error {
	for _, question := range questions {
		if err := s.StoreQuestion(ctx, question); err != nil {
			return err
		}
	}
	return nil
}

func (s *QuestionStorage) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := s.db.Store().Get(id, &question); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("question %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

func (s *QuestionStorage) GetQuestionsByMaterial(ctx context.Context, materialID string) ([]*models.Question, error) {
	var questions []models.Question
	if err := s.db.Store().Find(&questions, badgerhold.Where("MaterialID").Eq(materialID)); err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}
	return toPointers(questions), nil
}

func (s *QuestionStorage) DeleteQuestion(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Question{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("question %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

func (s *QuestionStorage) CountQuestions(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Question{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return int(count), nil
}
