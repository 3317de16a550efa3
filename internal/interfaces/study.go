package interfaces

import (
	"context"

	"github.com/ternarybob/studeo/internal/models"
)

// SummarizeOptions controls one summarization run
type SummarizeOptions struct {
	MaxPoints         int
	ValidationEnabled bool
}

// SummarizeService runs the summarization-validation pipeline
type SummarizeService interface {
	Summarize(ctx context.Context, content string, opts SummarizeOptions) *models.SummaryResult
	SummarizeMaterial(ctx context.Context, materialID string, opts SummarizeOptions) (*models.SummaryResult, error)
}

// QuestionRequest describes one question generation run
type QuestionRequest struct {
	Count      int
	Types      []string
	Difficulty string
	Topics     []string
}

// QAService generates questions and runs the feedback-driven quality loop
type QAService interface {
	GenerateQuestions(ctx context.Context, materialID string, req QuestionRequest) ([]*models.Question, error)
	GenerateAdversarial(ctx context.Context, materialID string, count int, baseOnExisting bool) ([]*models.Question, error)
	RecordFeedback(ctx context.Context, record *models.FeedbackRecord) error
	EvaluateQuestions(ctx context.Context, materialID string, threshold float64) (*models.EvaluationSummary, error)
}

// FlashcardService generates study cards from materials
type FlashcardService interface {
	GenerateFlashcards(ctx context.Context, materialID string, count int) ([]*models.Flashcard, error)
}

// MaterialService ingests and manages study materials
type MaterialService interface {
	IngestText(ctx context.Context, userID, title, text string) (*models.Material, error)
	IngestPDF(ctx context.Context, userID, filename string, data []byte) (*models.Material, error)
	IngestURL(ctx context.Context, userID, url string) (*models.Material, error)
	GetMaterial(ctx context.Context, id string) (*models.Material, error)
	ListMaterials(ctx context.Context, userID string) ([]*models.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
}

// SessionService manages interactive study sessions
type SessionService interface {
	StartSession(ctx context.Context, userID, materialID, sessionType string) (*models.StudySession, error)
	GetSession(ctx context.Context, id string) (*models.StudySession, error)
	RecordAttempt(ctx context.Context, sessionID string, attempt *models.QuizAttempt) (*models.StudySession, error)
	EndSession(ctx context.Context, id string) error
	CleanupExpired(ctx context.Context) (int, error)
}

// TopicPerformance aggregates attempt accuracy for one topic
type TopicPerformance struct {
	Topic    string  `json:"topic"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// DailyProgress counts attempts per calendar day
type DailyProgress struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// UserAnalytics is the aggregate study report for one user
type UserAnalytics struct {
	UserID          string             `json:"user_id"`
	TotalAttempts   int                `json:"total_attempts"`
	TotalCorrect    int                `json:"total_correct"`
	OverallAccuracy float64            `json:"overall_accuracy"`
	ByTopic         []TopicPerformance `json:"by_topic"`
	Daily           []DailyProgress    `json:"daily"`
	WeakestTopics   []string           `json:"weakest_topics"`
}

// AnalyticsService computes study aggregates from attempts
type AnalyticsService interface {
	UserReport(ctx context.Context, userID string) (*UserAnalytics, error)
}

// ExportService renders study sheets to PDF
type ExportService interface {
	ExportStudySheet(ctx context.Context, materialID string, includeFlashcards bool) (string, error)
}
