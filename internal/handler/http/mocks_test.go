package http

import (
	"context"

	"github.com/tmercier/noteshare/internal/service"
	"github.com/tmercier/noteshare/models"
)

// Function-field mocks for the service interfaces. Each method delegates to
// its field when set and returns zero values otherwise.

type mockAuthService struct {
	registerUserFn func(ctx context.Context, credentials models.Credentials) (models.User, error)
	loginFn        func(ctx context.Context, credentials models.Credentials) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, credentials models.Credentials) (models.User, error) {
	if m.registerUserFn != nil {
		return m.registerUserFn(ctx, credentials)
	}
	return models.User{}, nil
}

func (m *mockAuthService) Login(ctx context.Context, credentials models.Credentials) (models.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, credentials)
	}
	return models.User{}, nil
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	if m.createTokenFn != nil {
		return m.createTokenFn(ctx, user)
	}
	return models.Token{SignedString: "signed-token"}, nil
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, tokenString)
	}
	return models.Token{}, service.ErrTokenIsExpired
}

type mockContactService struct {
	createContactFn       func(ctx context.Context, ownerID int64, contact models.Contact) (models.ContactView, error)
	listContactsFn        func(ctx context.Context, ownerID int64) ([]models.ContactView, error)
	listAssignableUsersFn func(ctx context.Context, userID int64) ([]models.UserRef, error)
	updateContactFn       func(ctx context.Context, ownerID int64, update models.ContactUpdate) (models.ContactView, error)
	deleteContactFn       func(ctx context.Context, ownerID, contactID int64) (models.ContactView, error)
	isMutualFn            func(ctx context.Context, ownerID, targetID int64) (bool, error)
}

func (m *mockContactService) CreateContact(ctx context.Context, ownerID int64, contact models.Contact) (models.ContactView, error) {
	if m.createContactFn != nil {
		return m.createContactFn(ctx, ownerID, contact)
	}
	return models.ContactView{}, nil
}

func (m *mockContactService) ListContacts(ctx context.Context, ownerID int64) ([]models.ContactView, error) {
	if m.listContactsFn != nil {
		return m.listContactsFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockContactService) ListAssignableUsers(ctx context.Context, userID int64) ([]models.UserRef, error) {
	if m.listAssignableUsersFn != nil {
		return m.listAssignableUsersFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockContactService) UpdateContact(ctx context.Context, ownerID int64, update models.ContactUpdate) (models.ContactView, error) {
	if m.updateContactFn != nil {
		return m.updateContactFn(ctx, ownerID, update)
	}
	return models.ContactView{}, nil
}

func (m *mockContactService) DeleteContact(ctx context.Context, ownerID, contactID int64) (models.ContactView, error) {
	if m.deleteContactFn != nil {
		return m.deleteContactFn(ctx, ownerID, contactID)
	}
	return models.ContactView{}, nil
}

func (m *mockContactService) IsMutual(ctx context.Context, ownerID, targetID int64) (bool, error) {
	if m.isMutualFn != nil {
		return m.isMutualFn(ctx, ownerID, targetID)
	}
	return false, nil
}

type mockNoteService struct {
	createNoteFn     func(ctx context.Context, creatorID int64, content string, important bool) (models.NoteView, error)
	getNoteForUserFn func(ctx context.Context, noteID, userID int64) (models.NoteView, error)
	updateNoteFn     func(ctx context.Context, userID int64, update models.NoteUpdate) (models.NoteView, error)
	deleteNoteFn     func(ctx context.Context, noteID, userID int64) (models.NoteView, error)
	getOrphanNotesFn func(ctx context.Context, userID int64) ([]models.NoteView, error)
}

func (m *mockNoteService) CreateNote(ctx context.Context, creatorID int64, content string, important bool) (models.NoteView, error) {
	if m.createNoteFn != nil {
		return m.createNoteFn(ctx, creatorID, content, important)
	}
	return models.NoteView{}, nil
}

func (m *mockNoteService) GetNoteForUser(ctx context.Context, noteID, userID int64) (models.NoteView, error) {
	if m.getNoteForUserFn != nil {
		return m.getNoteForUserFn(ctx, noteID, userID)
	}
	return models.NoteView{}, nil
}

func (m *mockNoteService) UpdateNote(ctx context.Context, userID int64, update models.NoteUpdate) (models.NoteView, error) {
	if m.updateNoteFn != nil {
		return m.updateNoteFn(ctx, userID, update)
	}
	return models.NoteView{}, nil
}

func (m *mockNoteService) DeleteNote(ctx context.Context, noteID, userID int64) (models.NoteView, error) {
	if m.deleteNoteFn != nil {
		return m.deleteNoteFn(ctx, noteID, userID)
	}
	return models.NoteView{}, nil
}

func (m *mockNoteService) GetOrphanNotes(ctx context.Context, userID int64) ([]models.NoteView, error) {
	if m.getOrphanNotesFn != nil {
		return m.getOrphanNotesFn(ctx, userID)
	}
	return nil, nil
}

type mockAssignmentService struct {
	createAssignmentFn func(ctx context.Context, creatorID, noteID, targetUserID int64, isRead bool) (models.AssignmentView, error)
	updateAssignmentFn func(ctx context.Context, callerID int64, update models.AssignmentUpdate) (models.AssignmentView, error)
	deleteAssignmentFn func(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error)
	togglePriorityFn   func(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error)
	updateStatusFn     func(ctx context.Context, callerID, assignmentID int64, status models.RecipientStatus) (models.AssignmentView, error)
	listUnreadFn       func(ctx context.Context, userID int64) ([]models.AssignmentView, error)
}

func (m *mockAssignmentService) CreateAssignment(ctx context.Context, creatorID, noteID, targetUserID int64, isRead bool) (models.AssignmentView, error) {
	if m.createAssignmentFn != nil {
		return m.createAssignmentFn(ctx, creatorID, noteID, targetUserID, isRead)
	}
	return models.AssignmentView{}, nil
}

func (m *mockAssignmentService) UpdateAssignment(ctx context.Context, callerID int64, update models.AssignmentUpdate) (models.AssignmentView, error) {
	if m.updateAssignmentFn != nil {
		return m.updateAssignmentFn(ctx, callerID, update)
	}
	return models.AssignmentView{}, nil
}

func (m *mockAssignmentService) DeleteAssignment(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error) {
	if m.deleteAssignmentFn != nil {
		return m.deleteAssignmentFn(ctx, callerID, assignmentID)
	}
	return models.AssignmentView{}, nil
}

func (m *mockAssignmentService) TogglePriority(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error) {
	if m.togglePriorityFn != nil {
		return m.togglePriorityFn(ctx, callerID, assignmentID)
	}
	return models.AssignmentView{}, nil
}

func (m *mockAssignmentService) UpdateStatus(ctx context.Context, callerID, assignmentID int64, status models.RecipientStatus) (models.AssignmentView, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, callerID, assignmentID, status)
	}
	return models.AssignmentView{}, nil
}

func (m *mockAssignmentService) ListUnread(ctx context.Context, userID int64) ([]models.AssignmentView, error) {
	if m.listUnreadFn != nil {
		return m.listUnreadFn(ctx, userID)
	}
	return nil, nil
}

type mockHistoryService struct {
	getDeletionHistoryFn   func(ctx context.Context, callerID, noteID int64) ([]models.DeletionRecord, error)
	getCompletionHistoryFn func(ctx context.Context, callerID, noteID int64) ([]models.CompletionRecord, error)
}

func (m *mockHistoryService) GetDeletionHistory(ctx context.Context, callerID, noteID int64) ([]models.DeletionRecord, error) {
	if m.getDeletionHistoryFn != nil {
		return m.getDeletionHistoryFn(ctx, callerID, noteID)
	}
	return nil, nil
}

func (m *mockHistoryService) GetCompletionHistory(ctx context.Context, callerID, noteID int64) ([]models.CompletionRecord, error) {
	if m.getCompletionHistoryFn != nil {
		return m.getCompletionHistoryFn(ctx, callerID, noteID)
	}
	return nil, nil
}
