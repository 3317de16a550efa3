package models

import (
	"time"
)

// FeedbackRecord is one user's verdict on one question. Append-only.
type FeedbackRecord struct {
	ID         string `json:"id" badgerhold:"key"` // fb_{uuid}
	QuestionID string `json:"question_id" badgerhold:"index"`
	UserID     string `json:"user_id"`

	IsCorrect        bool    `json:"is_correct"`
	IsHelpful        *bool   `json:"is_helpful,omitempty"`        // Nullable: user may skip the helpfulness rating
	DifficultyRating *int    `json:"difficulty_rating,omitempty"` // 1-5 when present
	FeedbackText     *string `json:"feedback_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ComputeMetrics derives quality metrics from a question's feedback records.
// Helpfulness counts only records where the user rated helpfulness; with no
// ratings at all it is 0.
func ComputeMetrics(records []FeedbackRecord) QualityMetrics {
	m := QualityMetrics{UpdatedAt: time.Now()}
	if len(records) == 0 {
		return m
	}
	m.TotalAttempts = len(records)

	correct := 0
	helpfulTrue := 0
	helpfulRated := 0
	for _, r := range records {
		if r.IsCorrect {
			correct++
		}
		if r.IsHelpful != nil {
			helpfulRated++
			if *r.IsHelpful {
				helpfulTrue++
			}
		}
	}

	m.Accuracy = float64(correct) / float64(len(records))
	if helpfulRated > 0 {
		m.Helpfulness = float64(helpfulTrue) / float64(helpfulRated)
	}
	return m
}
