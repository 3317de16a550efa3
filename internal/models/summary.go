package models

import (
	"time"
)

// TopicSet holds the model-extracted topical guidance for a material
type TopicSet struct {
	SubjectAreas []string `json:"subject_areas"`
	KeyTopics    []string `json:"key_topics"`
}

// FallbackTopics returns the fixed generic topic set used when extraction
// fails or returns nothing, so generation still has guidance context.
func FallbackTopics() TopicSet {
	return TopicSet{
		SubjectAreas: []string{"Academic", "Education", "Study Material"},
		KeyTopics:    []string{"Concepts", "Definitions", "Key Points"},
	}
}

// IsEmpty reports whether the topic set carries no guidance at all
func (t TopicSet) IsEmpty() bool {
	return len(t.SubjectAreas) == 0 && len(t.KeyTopics) == 0
}

// PointValidation records the support verdict for a single summary point
type PointValidation struct {
	Point     string `json:"point"`
	Supported bool   `json:"supported"`
	Reason    string `json:"reason,omitempty"`
}

// ValidationRecord aggregates per-point verdicts for one summary pass
type ValidationRecord struct {
	Points        []PointValidation `json:"points"`
	InvalidPoints int               `json:"invalid_points_count"`
	TotalPoints   int               `json:"total_points"`
}

// SummaryResult is the transient outcome of one summarization call.
// Filtered and Regenerated are mutually exclusive; at most one is true.
type SummaryResult struct {
	Points      []string          `json:"points"`
	Topics      TopicSet          `json:"topics"`
	Validation  *ValidationRecord `json:"validation,omitempty"`
	Filtered    bool              `json:"filtered"`
	Regenerated bool              `json:"regenerated"`
	Failed      bool              `json:"failed"`
	Message     string            `json:"message,omitempty"` // Placeholder text when Failed
}

// StoredSummary persists an accepted summary for export and review
type StoredSummary struct {
	ID          string    `json:"id" badgerhold:"key"` // sum_{uuid}
	MaterialID  string    `json:"material_id" badgerhold:"index"`
	UserID      string    `json:"user_id"`
	Points      []string  `json:"points"`
	Topics      TopicSet  `json:"topics"`
	Filtered    bool      `json:"filtered"`
	Regenerated bool      `json:"regenerated"`
	CreatedAt   time.Time `json:"created_at"`
}
