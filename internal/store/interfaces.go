package store

import (
	"context"
	"time"

	"github.com/tmercier/noteshare/models"
)

// UserRepository persists account records.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUsersByIDs(ctx context.Context, userIDs []int64) ([]models.User, error)
}

// NoteRepository persists notes. Lookups include soft-deleted rows; it is
// the service layer's job to decide what a deleted note may disclose.
type NoteRepository interface {
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	FindNoteByID(ctx context.Context, noteID int64) (models.Note, error)
	UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error)
	SoftDeleteNote(ctx context.Context, noteID, deletedBy int64) (models.Note, error)

	// StampReadDate sets the note's read_date if and only if it is still
	// null. Later calls are no-ops.
	StampReadDate(ctx context.Context, noteID int64, readAt time.Time) error
	FindOrphanNotesByCreator(ctx context.Context, creatorID int64) ([]models.Note, error)
}

// AssignmentRepository persists per-recipient assignment records.
//
// CreateAssignment runs its reference checks and the insert inside a single
// transaction; the unique constraint on (note_id, user_id) is the
// authoritative duplicate guard.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment models.Assignment) (models.Assignment, error)
	FindAssignmentByID(ctx context.Context, assignmentID int64) (models.Assignment, error)
	FindAssignmentByNoteAndUser(ctx context.Context, noteID, userID int64) (models.Assignment, error)
	FindAssignmentsByNote(ctx context.Context, noteID int64) ([]models.Assignment, error)
	FindUnreadByUser(ctx context.Context, userID int64) ([]models.Assignment, error)
	UpdateAssignment(ctx context.Context, update models.AssignmentUpdate) (models.Assignment, error)
	DeleteAssignment(ctx context.Context, assignmentID int64) (models.Assignment, error)

	// MarkRead flips is_read to true if and only if it is currently false,
	// stamping readAt. It reports whether the flip happened, so callers can
	// skip audit logging on repeat reads. Safe under concurrent calls.
	MarkRead(ctx context.Context, assignmentID int64, readAt time.Time) (models.Assignment, bool, error)

	TogglePriority(ctx context.Context, assignmentID int64) (models.Assignment, error)
	UpdateStatus(ctx context.Context, assignmentID int64, status models.RecipientStatus, finishedDate *time.Time) (models.Assignment, error)
}

// ContactRepository persists the one-directional address book.
type ContactRepository interface {
	CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error)
	FindContactByID(ctx context.Context, contactID int64) (models.Contact, error)
	FindContactsByOwner(ctx context.Context, ownerID int64) ([]models.Contact, error)
	UpdateContact(ctx context.Context, update models.ContactUpdate) (models.Contact, error)
	DeleteContact(ctx context.Context, contactID int64) (models.Contact, error)

	// ReciprocalPairExists reports whether both directed contact rows
	// (a → b and b → a) exist. This is the derived mutuality check; the
	// result is never cached or stored.
	ReciprocalPairExists(ctx context.Context, userA, userB int64) (bool, error)
}

// ActionLogRepository persists the append-only audit log. Entries are never
// updated or deleted through this interface.
type ActionLogRepository interface {
	Append(ctx context.Context, entry models.ActionLog) (models.ActionLog, error)

	// FindByActionTypes returns every entry whose action type matches one
	// of the given tags, ordered by creation time then id. Histories are
	// reconstructed by folding over this ordered stream.
	FindByActionTypes(ctx context.Context, actionTypes ...string) ([]models.ActionLog, error)
}
