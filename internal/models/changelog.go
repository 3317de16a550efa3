package models

import (
	"time"
)

const (
	ChangelogActionCreated = "created"
	ChangelogActionUpdated = "updated"
	ChangelogActionRemoved = "removed"
)

// ChangelogEntry is one record in the append-only question audit trail.
// Every question mutation or deletion produces exactly one entry.
type ChangelogEntry struct {
	ID         string `json:"id" badgerhold:"key"` // chg_{uuid}
	QuestionID string `json:"question_id" badgerhold:"index"`
	MaterialID string `json:"material_id" badgerhold:"index"`

	Action  string `json:"action"` // created, updated, removed
	Details string `json:"details,omitempty"`

	QAData       *Question `json:"qa_data,omitempty"`       // Snapshot after the action
	PreviousData *Question `json:"previous_data,omitempty"` // Snapshot before an update

	Timestamp time.Time `json:"timestamp"`
}
