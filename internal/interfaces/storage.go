package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/studeo/internal/models"
)

// MaterialStorage - interface for study material persistence
type MaterialStorage interface {
	StoreMaterial(ctx context.Context, material *models.Material) error
	GetMaterial(ctx context.Context, id string) (*models.Material, error)
	GetMaterialsByUser(ctx context.Context, userID string) ([]*models.Material, error)
	GetAllMaterials(ctx context.Context) ([]*models.Material, error)
	FindByFingerprint(ctx context.Context, userID, fingerprint string) (*models.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
	CountMaterials(ctx context.Context) (int, error)
}

// QuestionStorage - interface for question persistence
type QuestionStorage interface {
	StoreQuestion(ctx context.Context, question *models.Question) error
	StoreQuestions(ctx context.Context, questions []*models.Question) error
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	GetQuestionsByMaterial(ctx context.Context, materialID string) ([]*models.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	CountQuestions(ctx context.Context) (int, error)
}

// FeedbackStorage - interface for append-only feedback records
type FeedbackStorage interface {
	StoreFeedback(ctx context.Context, record *models.FeedbackRecord) error
	GetFeedbackByQuestion(ctx context.Context, questionID string) ([]models.FeedbackRecord, error)
	CountFeedback(ctx context.Context) (int, error)
}

// ChangelogStorage - interface for the append-only audit trail
type ChangelogStorage interface {
	AppendEntry(ctx context.Context, entry *models.ChangelogEntry) error
	GetEntriesByQuestion(ctx context.Context, questionID string) ([]models.ChangelogEntry, error)
	GetEntriesByMaterial(ctx context.Context, materialID string) ([]models.ChangelogEntry, error)
}

// SessionStorage - interface for study session persistence
type SessionStorage interface {
	StoreSession(ctx context.Context, session *models.StudySession) error
	GetSession(ctx context.Context, id string) (*models.StudySession, error)
	GetSessionsByUser(ctx context.Context, userID string) ([]*models.StudySession, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int, error)
}

// AttemptStorage - interface for quiz attempt persistence
type AttemptStorage interface {
	StoreAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	GetAttemptsByUser(ctx context.Context, userID string) ([]models.QuizAttempt, error)
	GetAttemptsBySession(ctx context.Context, sessionID string) ([]models.QuizAttempt, error)
}

// UserStorage - interface for user profile persistence
type UserStorage interface {
	StoreUser(ctx context.Context, user *models.UserProfile) error
	GetUser(ctx context.Context, id string) (*models.UserProfile, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error)
}

// SummaryStorage - interface for stored summaries
type SummaryStorage interface {
	StoreSummary(ctx context.Context, summary *models.StoredSummary) error
	GetSummariesByMaterial(ctx context.Context, materialID string) ([]*models.StoredSummary, error)
}

// FlashcardStorage - interface for flashcard persistence
type FlashcardStorage interface {
	StoreFlashcards(ctx context.Context, cards []*models.Flashcard) error
	GetFlashcardsByMaterial(ctx context.Context, materialID string) ([]*models.Flashcard, error)
}
