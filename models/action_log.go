package models

import (
	"encoding/json"
	"time"
)

// Action types recorded in the append-only log. Free-form tags by design,
// but every writer in this codebase uses one of these constants so that
// history reconstruction can match on them reliably.
const (
	ActionUserRegistered = "user_registered"

	ActionNoteCreated = "note_created"
	ActionNoteUpdated = "note_updated"
	ActionNoteDeleted = "note_deleted"
	ActionNoteRead    = "note_read"

	ActionAssignmentCreated     = "assignment_created"
	ActionAssignmentUpdated     = "assignment_updated"
	ActionAssignmentDeleted     = "assignment_deleted"
	ActionAssignmentCompleted   = "assignment_completed"
	ActionAssignmentUncompleted = "assignment_uncompleted"

	ActionContactCreated = "contact_created"
	ActionContactUpdated = "contact_updated"
	ActionContactDeleted = "contact_deleted"
)

// ActionPayload is the structured context attached to a log entry. Only the
// fields relevant to the action are set; the whole struct is serialized as
// JSON into the payload column.
type ActionPayload struct {
	NoteID         int64  `json:"note_id,omitempty"`
	AssignmentID   int64  `json:"assignment_id,omitempty"`
	AffectedUserID int64  `json:"affected_user_id,omitempty"`
	NewValue       string `json:"new_value,omitempty"`
}

// ActionLog is one entry of the append-only audit log. Entries are never
// updated; histories (deletion, completion) are reconstructed by folding
// over ordered entries rather than read from stored state.
//
// UserID is nullable so that entries survive deletion of the acting user.
type ActionLog struct {
	LogID      int64         `json:"id"`
	UserID     *int64        `json:"user_id,omitempty"`
	TargetID   int64         `json:"target_id"`
	ActionType string        `json:"action_type"`
	CreatedAt  time.Time     `json:"created_at"`
	Payload    ActionPayload `json:"payload"`
}

// TableName returns the name of the database table
// associated with the ActionLog model.
func (l ActionLog) TableName() string {
	return "action_logs"
}

// MarshalPayload serializes the entry's payload for storage.
func (l ActionLog) MarshalPayload() ([]byte, error) {
	return json.Marshal(l.Payload)
}

// UnmarshalPayload fills the entry's payload from its stored form. An empty
// raw value leaves the payload zeroed.
func (l *ActionLog) UnmarshalPayload(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &l.Payload)
}
