package models

import (
	"time"
)

// Flashcard is one front/back study card generated from a material
type Flashcard struct {
	ID         string `json:"id" badgerhold:"key"` // fc_{uuid}
	MaterialID string `json:"material_id" badgerhold:"index"`
	UserID     string `json:"user_id"`

	Front string `json:"front"`
	Back  string `json:"back"`
	Topic string `json:"topic"`

	CreatedAt time.Time `json:"created_at"`
}
