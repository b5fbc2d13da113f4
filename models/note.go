package models

import "time"

// MaxNoteContentLength is the upper bound for note content, in characters.
// Content must also be non-empty after trimming.
const MaxNoteContentLength = 5000

// Note is a piece of content authored by one user and shared with others
// through Assignment records. The creator is the sole authority for the
// content, the importance flag and the assignment roster.
//
// A note is never hard-deleted through the regular API: DeleteDate and
// DeletedBy record a soft delete while the row is retained for audit.
// DeletedBy is the user who actually performed the deletion, which may be
// a recipient rather than the creator.
type Note struct {
	NoteID    int64  `json:"id"`
	Content   string `json:"content"`
	CreatorID int64  `json:"creator_id"`
	Important bool   `json:"important"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdateDate *time.Time `json:"update_date,omitempty"`
	ReadDate   *time.Time `json:"read_date,omitempty"`
	DeleteDate *time.Time `json:"delete_date,omitempty"`
	DeletedBy  *int64     `json:"deleted_by,omitempty"`
}

// TableName returns the name of the database table
// associated with the Note model.
func (n Note) TableName() string {
	return "notes"
}

// IsDeleted reports whether the note has been soft-deleted.
func (n Note) IsDeleted() bool {
	return n.DeleteDate != nil
}

// NoteUpdate carries a partial update of a note. Nil fields are left
// untouched by the persistence layer.
type NoteUpdate struct {
	NoteID    int64   `json:"id"`
	Content   *string `json:"content,omitempty"`
	Important *bool   `json:"important,omitempty"`
}
