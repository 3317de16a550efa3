package common

import (
	"github.com/google/uuid"
)

// NewMaterialID generates a unique study material ID with the "mat_" prefix
// Format: mat_<uuid>
func NewMaterialID() string {
	return "mat_" + uuid.New().String()
}

// NewQuestionID generates a unique question ID with the "q_" prefix
func NewQuestionID() string {
	return "q_" + uuid.New().String()
}

// NewFeedbackID generates a unique feedback ID with the "fb_" prefix
func NewFeedbackID() string {
	return "fb_" + uuid.New().String()
}

// NewChangelogID generates a unique changelog entry ID with the "chg_" prefix
func NewChangelogID() string {
	return "chg_" + uuid.New().String()
}

// NewSessionID generates a unique study session ID with the "ses_" prefix
func NewSessionID() string {
	return "ses_" + uuid.New().String()
}

// NewAttemptID generates a unique quiz attempt ID with the "att_" prefix
func NewAttemptID() string {
	return "att_" + uuid.New().String()
}

// NewUserID generates a unique user profile ID with the "usr_" prefix
func NewUserID() string {
	return "usr_" + uuid.New().String()
}

// NewFlashcardID generates a unique flashcard ID with the "fc_" prefix
func NewFlashcardID() string {
	return "fc_" + uuid.New().String()
}

// NewSummaryID generates a unique summary ID with the "sum_" prefix
func NewSummaryID() string {
	return "sum_" + uuid.New().String()
}
