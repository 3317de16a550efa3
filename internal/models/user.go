package models

import (
	"time"
)

// UserProfile tracks per-user preferences and lifetime counters.
// ExternalID is the chat-platform identity the profile is looked up by.
type UserProfile struct {
	ID         string `json:"id" badgerhold:"key"` // usr_{uuid}
	ExternalID string `json:"external_id" badgerhold:"unique"`

	PreferredDifficulty string `json:"preferred_difficulty"` // easy, medium, hard

	MaterialsUploaded int `json:"materials_uploaded"`
	QuestionsAnswered int `json:"questions_answered"`
	CorrectAnswers    int `json:"correct_answers"`

	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}
