package models

import "time"

// RecipientStatus is the recipient-controlled progress state of an
// assignment. The three values form a closed enum; anything else is
// rejected at the service layer.
type RecipientStatus string

// The full recipient status enum.
const (
	StatusPending    RecipientStatus = "en_attente"
	StatusInProgress RecipientStatus = "en_cours"
	StatusDone       RecipientStatus = "terminé"
)

// Valid reports whether s is one of the three allowed recipient statuses.
func (s RecipientStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Assignment links a note to one recipient and carries that recipient's
// private sub-state. Each (note, user) pair has at most one assignment;
// the database enforces this with a unique constraint.
//
// Two independent state axes live here:
//   - read axis: IsRead/ReadDate, flipped to true on the recipient's first
//     GET of the note (monotonic on that path) and freely togglable via
//     direct update by creator or recipient;
//   - status axis: RecipientStatus, recipient-controlled. FinishedDate is
//     non-nil exactly while the status is StatusDone.
//
// RecipientPriority is private to the recipient and must never appear in
// another user's view of the note.
type Assignment struct {
	AssignmentID int64 `json:"id"`
	NoteID       int64 `json:"note_id"`
	UserID       int64 `json:"user_id"`

	AssignedAt time.Time  `json:"assigned_at"`
	IsRead     bool       `json:"is_read"`
	ReadDate   *time.Time `json:"read_date,omitempty"`

	RecipientPriority bool            `json:"recipient_priority"`
	RecipientStatus   RecipientStatus `json:"recipient_status"`
	FinishedDate      *time.Time      `json:"finished_date,omitempty"`
}

// TableName returns the name of the database table
// associated with the Assignment model.
func (a Assignment) TableName() string {
	return "assignments"
}

// AssignmentUpdate carries a partial update of an assignment. Nil fields
// are left untouched by the persistence layer. UserID reassignment is
// creator-only; IsRead may be toggled by creator or recipient.
type AssignmentUpdate struct {
	AssignmentID int64  `json:"id"`
	IsRead       *bool  `json:"is_read,omitempty"`
	UserID       *int64 `json:"user_id,omitempty"`
}
