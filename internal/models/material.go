package models

import (
	"time"
)

const (
	// SourceTypePDF indicates material uploaded as a PDF file
	SourceTypePDF = "pdf"
	// SourceTypeURL indicates material fetched from a web page
	SourceTypeURL = "url"
	// SourceTypeText indicates material pasted as raw text
	SourceTypeText = "text"
)

// Material represents a unit of ingested study content
type Material struct {
	// Identity
	ID         string `json:"id" badgerhold:"key"` // mat_{uuid}
	UserID     string `json:"user_id" badgerhold:"index"`
	SourceType string `json:"source_type"` // pdf, url, text
	SourceRef  string `json:"source_ref"`  // Original filename or URL

	// Content
	Title       string `json:"title"`
	ContentText string `json:"content_text"` // Extracted plain text used for generation
	Fingerprint string `json:"fingerprint" badgerhold:"index"` // MD5 of normalized content for dedupe

	// Derived metadata
	WordCount int      `json:"word_count"`
	Topics    []string `json:"topics,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TooShort reports whether the material has enough content for generation
func (m *Material) TooShort(minChars int) bool {
	return len(m.ContentText) < minChars
}
