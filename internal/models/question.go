package models

import (
	"fmt"
	"time"
)

const (
	// QuestionTypeMultipleChoice is a four-option question answered by index
	QuestionTypeMultipleChoice = "multiple_choice"
	// QuestionTypeShortAnswer is a free-text question answered by string match
	QuestionTypeShortAnswer = "short_answer"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QualityMetrics holds feedback-derived quality data for a question.
// Accuracy and Helpfulness are recomputed solely from feedback records,
// never hand-edited.
type QualityMetrics struct {
	Accuracy      float64   `json:"accuracy"`
	Helpfulness   float64   `json:"helpfulness"`
	TotalAttempts int       `json:"total_attempts"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Score returns the weighted quality score. Helpfulness dominates because
// a question users find confusing is worse than one that is merely hard.
func (m QualityMetrics) Score() float64 {
	return 0.4*m.Accuracy + 0.6*m.Helpfulness
}

// Question represents one generated quiz question
type Question struct {
	ID         string `json:"id" badgerhold:"key"` // q_{uuid}
	MaterialID string `json:"material_id" badgerhold:"index"`
	UserID     string `json:"user_id"`

	Type          string   `json:"question_type"` // multiple_choice, short_answer
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`       // Exactly 4 for multiple choice
	CorrectIndex  int      `json:"correct_index,omitempty"` // Index into Options
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Topic         string   `json:"topic"`
	Difficulty    string   `json:"difficulty"` // easy, medium, hard

	IsAdversarial   bool   `json:"is_adversarial"`
	AdversarialType string `json:"adversarial_type,omitempty"` // misconception, edge_case, precision, ambiguity, general

	Metrics          QualityMetrics `json:"quality_metrics"`
	Version          int            `json:"version"`
	ImprovementNotes string         `json:"improvement_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the option/answer-shape invariant for the question type
func (q *Question) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("question text is empty")
	}
	switch q.Type {
	case QuestionTypeMultipleChoice:
		if len(q.Options) != 4 {
			return fmt.Errorf("multiple choice question requires exactly 4 options, got %d", len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("correct index %d out of range for %d options", q.CorrectIndex, len(q.Options))
		}
	case QuestionTypeShortAnswer:
		if q.CorrectAnswer == "" {
			return fmt.Errorf("short answer question requires a correct answer")
		}
	default:
		return fmt.Errorf("unknown question type: %s", q.Type)
	}
	return nil
}

// EvaluationSummary aggregates the outcome of one quality evaluation sweep
type EvaluationSummary struct {
	TotalQuestions int `json:"total_questions"`
	Removed        int `json:"removed"`
	Updated        int `json:"updated"`
	NoAction       int `json:"no_action"`
}
