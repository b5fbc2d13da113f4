package models

import "time"

// NoteRole is the access role a user holds toward a note, derived at access
// time and never stored: creator if the note's creator id matches the
// requester, recipient if an assignment exists for (note, requester).
type NoteRole string

// The two roles a user can hold toward a note. A user holding neither is
// forbidden to see the note at all.
const (
	NoteRoleCreator   NoteRole = "creator"
	NoteRoleRecipient NoteRole = "recipient"
)

// AssignmentDetail is the per-recipient block exposed in the creator's view
// of a note. It deliberately has no recipient_priority field: priority is
// private to each recipient and never leaves their own view.
type AssignmentDetail struct {
	AssignmentID    int64           `json:"id"`
	User            UserRef         `json:"user"`
	AssignedAt      time.Time       `json:"assigned_at"`
	IsRead          bool            `json:"is_read"`
	ReadDate        *time.Time      `json:"read_date,omitempty"`
	RecipientStatus RecipientStatus `json:"recipient_status"`
	FinishedDate    *time.Time      `json:"finished_date,omitempty"`
}

// AssignmentView is the serialized form of an assignment returned by
// assignment mutators and embedded in a recipient's note view.
//
// RecipientPriority is populated only when the caller is the assignment's
// recipient; for any other caller it is omitted.
type AssignmentView struct {
	AssignmentID int64 `json:"id"`
	NoteID       int64 `json:"note_id"`
	UserID       int64 `json:"user_id"`

	AssignedAt time.Time  `json:"assigned_at"`
	IsRead     bool       `json:"is_read"`
	ReadDate   *time.Time `json:"read_date,omitempty"`

	RecipientPriority *bool           `json:"recipient_priority,omitempty"`
	RecipientStatus   RecipientStatus `json:"recipient_status"`
	FinishedDate      *time.Time      `json:"finished_date,omitempty"`
}

// NewAssignmentView builds the view of an assignment as seen by callerID,
// applying the recipient-priority confidentiality rule.
func NewAssignmentView(a Assignment, callerID int64) AssignmentView {
	view := AssignmentView{
		AssignmentID:    a.AssignmentID,
		NoteID:          a.NoteID,
		UserID:          a.UserID,
		AssignedAt:      a.AssignedAt,
		IsRead:          a.IsRead,
		ReadDate:        a.ReadDate,
		RecipientStatus: a.RecipientStatus,
		FinishedDate:    a.FinishedDate,
	}

	if a.UserID == callerID {
		priority := a.RecipientPriority
		view.RecipientPriority = &priority
	}

	return view
}

// NoteView is the role-filtered response shape for a note.
//
// Creator views carry AssignedTo, ReadBy and AssignmentsDetails; recipient
// views carry only MyAssignment with the three roster fields explicitly nil
// for confidentiality. DeletedBy follows the disclosure contract: the
// creator always sees the deleter, a recipient sees the deleter only when
// the deleter is the creator.
type NoteView struct {
	NoteID    int64     `json:"id"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	Creator   UserRef   `json:"creator"`
	Role      NoteRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	UpdateDate *time.Time `json:"update_date,omitempty"`
	DeleteDate *time.Time `json:"delete_date,omitempty"`
	DeletedBy  *UserRef   `json:"deleted_by,omitempty"`

	AssignedTo         []UserRef          `json:"assigned_to"`
	ReadBy             []UserRef          `json:"read_by"`
	AssignmentsDetails []AssignmentDetail `json:"assignments_details"`

	MyAssignment *AssignmentView `json:"my_assignment,omitempty"`
}

// DeletionRecord is one reconstructed entry of a note's deletion history:
// who removed which recipient's assignment, and when. Usernames resolve to
// the empty string when the account no longer exists.
type DeletionRecord struct {
	AssignmentID     int64     `json:"assignment_id"`
	NoteID           int64     `json:"note_id"`
	DeletedBy        UserRef   `json:"deleted_by"`
	AffectedUser     UserRef   `json:"affected_user"`
	DeletedAt        time.Time `json:"deleted_at"`
	DeletedByUnknown bool      `json:"deleted_by_unknown,omitempty"`
}

// CompletionRecord is one reconstructed entry of a note's completion
// history. Only assignments whose latest completion-axis event is
// "completed" appear; an un-completion suppresses the stale entry instead
// of being reported alongside it.
type CompletionRecord struct {
	AssignmentID int64     `json:"assignment_id"`
	NoteID       int64     `json:"note_id"`
	CompletedBy  UserRef   `json:"completed_by"`
	CompletedAt  time.Time `json:"completed_at"`
}
