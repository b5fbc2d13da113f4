package service

import (
	"context"

	"github.com/tmercier/noteshare/models"
)

// AuthService handles account registration, credential verification and the
// JWT token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, credentials models.Credentials) (models.User, error)
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ContactService manages the one-directional address book and the derived
// mutuality relation gating note assignment.
type ContactService interface {
	CreateContact(ctx context.Context, ownerID int64, contact models.Contact) (models.ContactView, error)
	ListContacts(ctx context.Context, ownerID int64) ([]models.ContactView, error)
	ListAssignableUsers(ctx context.Context, userID int64) ([]models.UserRef, error)
	UpdateContact(ctx context.Context, ownerID int64, update models.ContactUpdate) (models.ContactView, error)
	DeleteContact(ctx context.Context, ownerID, contactID int64) (models.ContactView, error)

	// IsMutual reports whether both directed contact rows between the two
	// users exist at this moment.
	IsMutual(ctx context.Context, ownerID, targetID int64) (bool, error)
}

// NoteService computes role-filtered note views and enforces the note
// mutation rules.
type NoteService interface {
	CreateNote(ctx context.Context, creatorID int64, content string, important bool) (models.NoteView, error)

	// GetNoteForUser resolves the caller's role toward the note and returns
	// the matching view. As a side effect, a recipient's first successful
	// read flips their assignment to read.
	GetNoteForUser(ctx context.Context, noteID, userID int64) (models.NoteView, error)

	UpdateNote(ctx context.Context, userID int64, update models.NoteUpdate) (models.NoteView, error)
	DeleteNote(ctx context.Context, noteID, userID int64) (models.NoteView, error)
	GetOrphanNotes(ctx context.Context, userID int64) ([]models.NoteView, error)
}

// AssignmentService drives the per-recipient assignment lifecycle.
type AssignmentService interface {
	CreateAssignment(ctx context.Context, creatorID, noteID, targetUserID int64, isRead bool) (models.AssignmentView, error)
	UpdateAssignment(ctx context.Context, callerID int64, update models.AssignmentUpdate) (models.AssignmentView, error)
	DeleteAssignment(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error)
	TogglePriority(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error)
	UpdateStatus(ctx context.Context, callerID, assignmentID int64, status models.RecipientStatus) (models.AssignmentView, error)
	ListUnread(ctx context.Context, userID int64) ([]models.AssignmentView, error)
}

// HistoryService reconstructs derived note histories by folding over the
// ordered action log.
type HistoryService interface {
	GetDeletionHistory(ctx context.Context, callerID, noteID int64) ([]models.DeletionRecord, error)
	GetCompletionHistory(ctx context.Context, callerID, noteID int64) ([]models.CompletionRecord, error)
}
