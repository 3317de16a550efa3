package models

import (
	"time"
)

const (
	// SessionTypeQuiz is an interactive quiz run
	SessionTypeQuiz = "quiz"
	// SessionTypeFlashcards is an interactive flashcard review
	SessionTypeFlashcards = "flashcards"
)

// StudySession is explicit per-user interactive state with an expiry,
// keyed by session id.
type StudySession struct {
	ID         string `json:"id" badgerhold:"key"` // ses_{uuid}
	UserID     string `json:"user_id" badgerhold:"index"`
	MaterialID string `json:"material_id"`
	Type       string `json:"session_type"` // quiz, flashcards

	CurrentIndex int `json:"current_index"`
	CorrectCount int `json:"correct_count"`
	TotalCount   int `json:"total_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" badgerhold:"index"`
}

// Expired reports whether the session has passed its expiry
func (s *StudySession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch advances the expiry window after activity
func (s *StudySession) Touch(now time.Time, ttl time.Duration) {
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// QuizAttempt records one answered question within a session
type QuizAttempt struct {
	ID         string `json:"id" badgerhold:"key"` // att_{uuid}
	SessionID  string `json:"session_id" badgerhold:"index"`
	UserID     string `json:"user_id" badgerhold:"index"`
	QuestionID string `json:"question_id"`
	MaterialID string `json:"material_id"`
	Topic      string `json:"topic"`

	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`

	CreatedAt time.Time `json:"created_at"`
}
