package service

import (
	"context"
	"time"

	"github.com/tmercier/noteshare/internal/store"
	"github.com/tmercier/noteshare/models"
)

// Function-field mocks for the store interfaces. Each method delegates to
// its field when set and returns zero values otherwise, so tests only wire
// the calls they care about.

type mockUserRepository struct {
	createUserFn         func(ctx context.Context, user models.User) (models.User, error)
	findUserByIDFn       func(ctx context.Context, userID int64) (models.User, error)
	findUserByUsernameFn func(ctx context.Context, username string) (models.User, error)
	findUsersByIDsFn     func(ctx context.Context, userIDs []int64) ([]models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findUserByIDFn != nil {
		return m.findUserByIDFn(ctx, userID)
	}
	return models.User{UserID: userID}, nil
}

func (m *mockUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	if m.findUserByUsernameFn != nil {
		return m.findUserByUsernameFn(ctx, username)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []int64) ([]models.User, error) {
	if m.findUsersByIDsFn != nil {
		return m.findUsersByIDsFn(ctx, userIDs)
	}
	users := make([]models.User, 0, len(userIDs))
	for _, id := range userIDs {
		users = append(users, models.User{UserID: id, Username: "user"})
	}
	return users, nil
}

type mockNoteRepository struct {
	createNoteFn               func(ctx context.Context, note models.Note) (models.Note, error)
	findNoteByIDFn             func(ctx context.Context, noteID int64) (models.Note, error)
	updateNoteFn               func(ctx context.Context, update models.NoteUpdate) (models.Note, error)
	softDeleteNoteFn           func(ctx context.Context, noteID, deletedBy int64) (models.Note, error)
	stampReadDateFn            func(ctx context.Context, noteID int64, readAt time.Time) error
	findOrphanNotesByCreatorFn func(ctx context.Context, creatorID int64) ([]models.Note, error)
}

func (m *mockNoteRepository) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	if m.createNoteFn != nil {
		return m.createNoteFn(ctx, note)
	}
	return note, nil
}

func (m *mockNoteRepository) FindNoteByID(ctx context.Context, noteID int64) (models.Note, error) {
	if m.findNoteByIDFn != nil {
		return m.findNoteByIDFn(ctx, noteID)
	}
	return models.Note{NoteID: noteID}, nil
}

func (m *mockNoteRepository) UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error) {
	if m.updateNoteFn != nil {
		return m.updateNoteFn(ctx, update)
	}
	return models.Note{NoteID: update.NoteID}, nil
}

func (m *mockNoteRepository) SoftDeleteNote(ctx context.Context, noteID, deletedBy int64) (models.Note, error) {
	if m.softDeleteNoteFn != nil {
		return m.softDeleteNoteFn(ctx, noteID, deletedBy)
	}
	return models.Note{NoteID: noteID}, nil
}

func (m *mockNoteRepository) StampReadDate(ctx context.Context, noteID int64, readAt time.Time) error {
	if m.stampReadDateFn != nil {
		return m.stampReadDateFn(ctx, noteID, readAt)
	}
	return nil
}

func (m *mockNoteRepository) FindOrphanNotesByCreator(ctx context.Context, creatorID int64) ([]models.Note, error) {
	if m.findOrphanNotesByCreatorFn != nil {
		return m.findOrphanNotesByCreatorFn(ctx, creatorID)
	}
	return nil, nil
}

type mockAssignmentRepository struct {
	createAssignmentFn            func(ctx context.Context, assignment models.Assignment) (models.Assignment, error)
	findAssignmentByIDFn          func(ctx context.Context, assignmentID int64) (models.Assignment, error)
	findAssignmentByNoteAndUserFn func(ctx context.Context, noteID, userID int64) (models.Assignment, error)
	findAssignmentsByNoteFn       func(ctx context.Context, noteID int64) ([]models.Assignment, error)
	findUnreadByUserFn            func(ctx context.Context, userID int64) ([]models.Assignment, error)
	updateAssignmentFn            func(ctx context.Context, update models.AssignmentUpdate) (models.Assignment, error)
	deleteAssignmentFn            func(ctx context.Context, assignmentID int64) (models.Assignment, error)
	markReadFn                    func(ctx context.Context, assignmentID int64, readAt time.Time) (models.Assignment, bool, error)
	togglePriorityFn              func(ctx context.Context, assignmentID int64) (models.Assignment, error)
	updateStatusFn                func(ctx context.Context, assignmentID int64, status models.RecipientStatus, finishedDate *time.Time) (models.Assignment, error)
}

func (m *mockAssignmentRepository) CreateAssignment(ctx context.Context, assignment models.Assignment) (models.Assignment, error) {
	if m.createAssignmentFn != nil {
		return m.createAssignmentFn(ctx, assignment)
	}
	return assignment, nil
}

func (m *mockAssignmentRepository) FindAssignmentByID(ctx context.Context, assignmentID int64) (models.Assignment, error) {
	if m.findAssignmentByIDFn != nil {
		return m.findAssignmentByIDFn(ctx, assignmentID)
	}
	return models.Assignment{AssignmentID: assignmentID}, nil
}

func (m *mockAssignmentRepository) FindAssignmentByNoteAndUser(ctx context.Context, noteID, userID int64) (models.Assignment, error) {
	if m.findAssignmentByNoteAndUserFn != nil {
		return m.findAssignmentByNoteAndUserFn(ctx, noteID, userID)
	}
	return models.Assignment{}, store.ErrAssignmentNotFound
}

func (m *mockAssignmentRepository) FindAssignmentsByNote(ctx context.Context, noteID int64) ([]models.Assignment, error) {
	if m.findAssignmentsByNoteFn != nil {
		return m.findAssignmentsByNoteFn(ctx, noteID)
	}
	return nil, nil
}

func (m *mockAssignmentRepository) FindUnreadByUser(ctx context.Context, userID int64) ([]models.Assignment, error) {
	if m.findUnreadByUserFn != nil {
		return m.findUnreadByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAssignmentRepository) UpdateAssignment(ctx context.Context, update models.AssignmentUpdate) (models.Assignment, error) {
	if m.updateAssignmentFn != nil {
		return m.updateAssignmentFn(ctx, update)
	}
	return models.Assignment{AssignmentID: update.AssignmentID}, nil
}

func (m *mockAssignmentRepository) DeleteAssignment(ctx context.Context, assignmentID int64) (models.Assignment, error) {
	if m.deleteAssignmentFn != nil {
		return m.deleteAssignmentFn(ctx, assignmentID)
	}
	return models.Assignment{AssignmentID: assignmentID}, nil
}

func (m *mockAssignmentRepository) MarkRead(ctx context.Context, assignmentID int64, readAt time.Time) (models.Assignment, bool, error) {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, assignmentID, readAt)
	}
	return models.Assignment{AssignmentID: assignmentID, IsRead: true, ReadDate: &readAt}, true, nil
}

func (m *mockAssignmentRepository) TogglePriority(ctx context.Context, assignmentID int64) (models.Assignment, error) {
	if m.togglePriorityFn != nil {
		return m.togglePriorityFn(ctx, assignmentID)
	}
	return models.Assignment{AssignmentID: assignmentID}, nil
}

func (m *mockAssignmentRepository) UpdateStatus(ctx context.Context, assignmentID int64, status models.RecipientStatus, finishedDate *time.Time) (models.Assignment, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, assignmentID, status, finishedDate)
	}
	return models.Assignment{AssignmentID: assignmentID, RecipientStatus: status, FinishedDate: finishedDate}, nil
}

type mockContactRepository struct {
	createContactFn        func(ctx context.Context, contact models.Contact) (models.Contact, error)
	findContactByIDFn      func(ctx context.Context, contactID int64) (models.Contact, error)
	findContactsByOwnerFn  func(ctx context.Context, ownerID int64) ([]models.Contact, error)
	updateContactFn        func(ctx context.Context, update models.ContactUpdate) (models.Contact, error)
	deleteContactFn        func(ctx context.Context, contactID int64) (models.Contact, error)
	reciprocalPairExistsFn func(ctx context.Context, userA, userB int64) (bool, error)
}

func (m *mockContactRepository) CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error) {
	if m.createContactFn != nil {
		return m.createContactFn(ctx, contact)
	}
	return contact, nil
}

func (m *mockContactRepository) FindContactByID(ctx context.Context, contactID int64) (models.Contact, error) {
	if m.findContactByIDFn != nil {
		return m.findContactByIDFn(ctx, contactID)
	}
	return models.Contact{ContactID: contactID}, nil
}

func (m *mockContactRepository) FindContactsByOwner(ctx context.Context, ownerID int64) ([]models.Contact, error) {
	if m.findContactsByOwnerFn != nil {
		return m.findContactsByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockContactRepository) UpdateContact(ctx context.Context, update models.ContactUpdate) (models.Contact, error) {
	if m.updateContactFn != nil {
		return m.updateContactFn(ctx, update)
	}
	return models.Contact{ContactID: update.ContactID}, nil
}

func (m *mockContactRepository) DeleteContact(ctx context.Context, contactID int64) (models.Contact, error) {
	if m.deleteContactFn != nil {
		return m.deleteContactFn(ctx, contactID)
	}
	return models.Contact{ContactID: contactID}, nil
}

func (m *mockContactRepository) ReciprocalPairExists(ctx context.Context, userA, userB int64) (bool, error) {
	if m.reciprocalPairExistsFn != nil {
		return m.reciprocalPairExistsFn(ctx, userA, userB)
	}
	return false, nil
}

type mockActionLogRepository struct {
	appendFn            func(ctx context.Context, entry models.ActionLog) (models.ActionLog, error)
	findByActionTypesFn func(ctx context.Context, actionTypes ...string) ([]models.ActionLog, error)

	appended []models.ActionLog
}

func (m *mockActionLogRepository) Append(ctx context.Context, entry models.ActionLog) (models.ActionLog, error) {
	m.appended = append(m.appended, entry)
	if m.appendFn != nil {
		return m.appendFn(ctx, entry)
	}
	return entry, nil
}

func (m *mockActionLogRepository) FindByActionTypes(ctx context.Context, actionTypes ...string) ([]models.ActionLog, error) {
	if m.findByActionTypesFn != nil {
		return m.findByActionTypesFn(ctx, actionTypes...)
	}
	return nil, nil
}

// appendedTypes lists the recorded action types in order, for asserting on
// audit behaviour.
func (m *mockActionLogRepository) appendedTypes() []string {
	types := make([]string, 0, len(m.appended))
	for _, entry := range m.appended {
		types = append(types, entry.ActionType)
	}
	return types
}
