package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/store"
	"github.com/tmercier/noteshare/models"
)

func newAssignmentService(assignments store.AssignmentRepository, notes store.NoteRepository, users store.UserRepository, contacts store.ContactRepository, logs store.ActionLogRepository) AssignmentService {
	if assignments == nil {
		assignments = &mockAssignmentRepository{}
	}
	if notes == nil {
		notes = &mockNoteRepository{}
	}
	if users == nil {
		users = &mockUserRepository{}
	}
	if contacts == nil {
		contacts = &mockContactRepository{}
	}
	if logs == nil {
		logs = &mockActionLogRepository{}
	}
	return NewAssignmentService(assignments, notes, users, contacts, logs, logger.Nop())
}

func noteOwnedBy(creatorID int64) *mockNoteRepository {
	return &mockNoteRepository{
		findNoteByIDFn: func(ctx context.Context, noteID int64) (models.Note, error) {
			return models.Note{NoteID: noteID, CreatorID: creatorID}, nil
		},
	}
}

func TestCreateAssignment_NonCreatorForbidden(t *testing.T) {
	svc := newAssignmentService(nil, noteOwnedBy(1), nil, nil, nil)

	_, err := svc.CreateAssignment(context.Background(), 2, 10, 3, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateAssignment_RequiresMutualContact(t *testing.T) {
	contacts := &mockContactRepository{
		reciprocalPairExistsFn: func(ctx context.Context, userA, userB int64) (bool, error) {
			return false, nil
		},
	}
	created := 0
	assignments := &mockAssignmentRepository{
		createAssignmentFn: func(ctx context.Context, assignment models.Assignment) (models.Assignment, error) {
			created++
			return assignment, nil
		},
	}
	svc := newAssignmentService(assignments, noteOwnedBy(1), nil, contacts, nil)

	_, err := svc.CreateAssignment(context.Background(), 1, 10, 2, false)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, created)
}

func TestCreateAssignment_MutualContactSucceeds(t *testing.T) {
	var checkedA, checkedB int64
	contacts := &mockContactRepository{
		reciprocalPairExistsFn: func(ctx context.Context, userA, userB int64) (bool, error) {
			checkedA, checkedB = userA, userB
			return true, nil
		},
	}
	assignments := &mockAssignmentRepository{
		createAssignmentFn: func(ctx context.Context, assignment models.Assignment) (models.Assignment, error) {
			assignment.AssignmentID = 100
			assignment.AssignedAt = time.Now()
			return assignment, nil
		},
	}
	logs := &mockActionLogRepository{}
	svc := newAssignmentService(assignments, noteOwnedBy(1), nil, contacts, logs)

	view, err := svc.CreateAssignment(context.Background(), 1, 10, 2, false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), checkedA)
	assert.Equal(t, int64(2), checkedB)
	assert.Equal(t, int64(100), view.AssignmentID)
	assert.Equal(t, int64(2), view.UserID)

	require.Len(t, logs.appended, 1)
	assert.Equal(t, models.ActionAssignmentCreated, logs.appended[0].ActionType)
	assert.Equal(t, int64(2), logs.appended[0].Payload.AffectedUserID)
}

func TestCreateAssignment_SelfSkipsMutualityCheck(t *testing.T) {
	mutualityChecks := 0
	contacts := &mockContactRepository{
		reciprocalPairExistsFn: func(ctx context.Context, userA, userB int64) (bool, error) {
			mutualityChecks++
			return false, nil
		},
	}
	svc := newAssignmentService(nil, noteOwnedBy(1), nil, contacts, nil)

	_, err := svc.CreateAssignment(context.Background(), 1, 10, 1, true)
	require.NoError(t, err)
	assert.Zero(t, mutualityChecks)
}

func TestCreateAssignment_DuplicatePairConflicts(t *testing.T) {
	contacts := &mockContactRepository{
		reciprocalPairExistsFn: func(ctx context.Context, userA, userB int64) (bool, error) {
			return true, nil
		},
	}
	assignments := &mockAssignmentRepository{
		createAssignmentFn: func(ctx context.Context, assignment models.Assignment) (models.Assignment, error) {
			return models.Assignment{}, store.ErrAssignmentAlreadyExists
		},
	}
	svc := newAssignmentService(assignments, noteOwnedBy(1), nil, contacts, nil)

	// the conflict holds whatever read flag the duplicate carries
	_, err := svc.CreateAssignment(context.Background(), 1, 10, 2, true)
	assert.ErrorIs(t, err, store.ErrAssignmentAlreadyExists)
}

func assignmentHeldBy(noteID, userID int64, status models.RecipientStatus) *mockAssignmentRepository {
	return &mockAssignmentRepository{
		findAssignmentByIDFn: func(ctx context.Context, assignmentID int64) (models.Assignment, error) {
			return models.Assignment{AssignmentID: assignmentID, NoteID: noteID, UserID: userID, RecipientStatus: status}, nil
		},
	}
}

func TestUpdateAssignment_EmptyUpdateRejected(t *testing.T) {
	svc := newAssignmentService(nil, nil, nil, nil, nil)

	_, err := svc.UpdateAssignment(context.Background(), 1, models.AssignmentUpdate{AssignmentID: 100})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestUpdateAssignment_ReadTogglableByBothSides(t *testing.T) {
	isRead := true
	for _, callerID := range []int64{1, 2} {
		assignments := assignmentHeldBy(10, 2, models.StatusPending)
		logs := &mockActionLogRepository{}
		svc := newAssignmentService(assignments, noteOwnedBy(1), nil, nil, logs)

		_, err := svc.UpdateAssignment(context.Background(), callerID, models.AssignmentUpdate{AssignmentID: 100, IsRead: &isRead})
		require.NoError(t, err, "caller %d", callerID)
		require.Len(t, logs.appended, 1)
		assert.Equal(t, models.ActionAssignmentUpdated, logs.appended[0].ActionType)
		assert.Equal(t, "is_read=true", logs.appended[0].Payload.NewValue)
	}
}

func TestUpdateAssignment_UnrelatedUserForbidden(t *testing.T) {
	isRead := true
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusPending), noteOwnedBy(1), nil, nil, nil)

	_, err := svc.UpdateAssignment(context.Background(), 99, models.AssignmentUpdate{AssignmentID: 100, IsRead: &isRead})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAssignment_ReassignmentCreatorOnly(t *testing.T) {
	target := int64(3)
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusPending), noteOwnedBy(1), nil, nil, nil)

	// the recipient may toggle is_read but may not reassign
	_, err := svc.UpdateAssignment(context.Background(), 2, models.AssignmentUpdate{AssignmentID: 100, UserID: &target})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAssignment_ReassignmentTargetMustExist(t *testing.T) {
	target := int64(3)
	users := &mockUserRepository{
		findUserByIDFn: func(ctx context.Context, userID int64) (models.User, error) {
			return models.User{}, store.ErrUserNotFound
		},
	}
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusPending), noteOwnedBy(1), users, nil, nil)

	_, err := svc.UpdateAssignment(context.Background(), 1, models.AssignmentUpdate{AssignmentID: 100, UserID: &target})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestDeleteAssignment_CreatorOnly(t *testing.T) {
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusPending), noteOwnedBy(1), nil, nil, nil)

	_, err := svc.DeleteAssignment(context.Background(), 2, 100)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteAssignment_AuditCarriesRemovedRecipient(t *testing.T) {
	assignments := assignmentHeldBy(10, 2, models.StatusPending)
	assignments.deleteAssignmentFn = func(ctx context.Context, assignmentID int64) (models.Assignment, error) {
		return models.Assignment{AssignmentID: assignmentID, NoteID: 10, UserID: 2}, nil
	}
	logs := &mockActionLogRepository{}
	svc := newAssignmentService(assignments, noteOwnedBy(1), nil, nil, logs)

	_, err := svc.DeleteAssignment(context.Background(), 1, 100)
	require.NoError(t, err)

	require.Len(t, logs.appended, 1)
	entry := logs.appended[0]
	assert.Equal(t, models.ActionAssignmentDeleted, entry.ActionType)
	assert.Equal(t, int64(10), entry.Payload.NoteID)
	assert.Equal(t, int64(100), entry.Payload.AssignmentID)
	assert.Equal(t, int64(2), entry.Payload.AffectedUserID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, int64(1), *entry.UserID)
}

func TestTogglePriority_RecipientOnly(t *testing.T) {
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusPending), nil, nil, nil, nil)

	_, err := svc.TogglePriority(context.Background(), 1, 100)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTogglePriority_ExposesFlagToRecipient(t *testing.T) {
	assignments := assignmentHeldBy(10, 2, models.StatusPending)
	assignments.togglePriorityFn = func(ctx context.Context, assignmentID int64) (models.Assignment, error) {
		return models.Assignment{AssignmentID: assignmentID, NoteID: 10, UserID: 2, RecipientPriority: true}, nil
	}
	logs := &mockActionLogRepository{}
	svc := newAssignmentService(assignments, nil, nil, nil, logs)

	view, err := svc.TogglePriority(context.Background(), 2, 100)
	require.NoError(t, err)

	require.NotNil(t, view.RecipientPriority)
	assert.True(t, *view.RecipientPriority)
	require.Len(t, logs.appended, 1)
	assert.Equal(t, "recipient_priority=true", logs.appended[0].Payload.NewValue)
}

func TestUpdateStatus_UnknownValueRejected(t *testing.T) {
	lookups := 0
	assignments := &mockAssignmentRepository{
		findAssignmentByIDFn: func(ctx context.Context, assignmentID int64) (models.Assignment, error) {
			lookups++
			return models.Assignment{}, nil
		},
	}
	svc := newAssignmentService(assignments, nil, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 2, 100, "fini")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, lookups)
}

func TestUpdateStatus_RecipientOnly(t *testing.T) {
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusPending), nil, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, 100, models.StatusInProgress)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatus_DoneStampsFinishedDate(t *testing.T) {
	var passedFinished *time.Time
	assignments := assignmentHeldBy(10, 2, models.StatusInProgress)
	assignments.updateStatusFn = func(ctx context.Context, assignmentID int64, status models.RecipientStatus, finishedDate *time.Time) (models.Assignment, error) {
		passedFinished = finishedDate
		return models.Assignment{AssignmentID: assignmentID, NoteID: 10, UserID: 2, RecipientStatus: status, FinishedDate: finishedDate}, nil
	}
	logs := &mockActionLogRepository{}
	svc := newAssignmentService(assignments, nil, nil, nil, logs)

	view, err := svc.UpdateStatus(context.Background(), 2, 100, models.StatusDone)
	require.NoError(t, err)

	require.NotNil(t, passedFinished)
	require.NotNil(t, view.FinishedDate)
	assert.Equal(t, []string{models.ActionAssignmentCompleted}, logs.appendedTypes())
}

func TestUpdateStatus_LeavingDoneClearsStamp(t *testing.T) {
	passedFinished := &time.Time{} // sentinel, overwritten by the call
	assignments := assignmentHeldBy(10, 2, models.StatusDone)
	assignments.updateStatusFn = func(ctx context.Context, assignmentID int64, status models.RecipientStatus, finishedDate *time.Time) (models.Assignment, error) {
		passedFinished = finishedDate
		return models.Assignment{AssignmentID: assignmentID, NoteID: 10, UserID: 2, RecipientStatus: status}, nil
	}
	logs := &mockActionLogRepository{}
	svc := newAssignmentService(assignments, nil, nil, nil, logs)

	_, err := svc.UpdateStatus(context.Background(), 2, 100, models.StatusInProgress)
	require.NoError(t, err)

	assert.Nil(t, passedFinished)
	assert.Equal(t, []string{models.ActionAssignmentUncompleted}, logs.appendedTypes())
}

func TestUpdateStatus_NoAuditWhenUnchanged(t *testing.T) {
	logs := &mockActionLogRepository{}
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusDone), nil, nil, nil, logs)

	_, err := svc.UpdateStatus(context.Background(), 2, 100, models.StatusDone)
	require.NoError(t, err)
	assert.Empty(t, logs.appended)
}

func TestUpdateStatus_PendingToInProgressLogsPlainUpdate(t *testing.T) {
	logs := &mockActionLogRepository{}
	svc := newAssignmentService(assignmentHeldBy(10, 2, models.StatusPending), nil, nil, nil, logs)

	_, err := svc.UpdateStatus(context.Background(), 2, 100, models.StatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, []string{models.ActionAssignmentUpdated}, logs.appendedTypes())
	require.Len(t, logs.appended, 1)
	assert.Equal(t, string(models.StatusInProgress), logs.appended[0].Payload.NewValue)
}

func TestListUnread_BuildsCallerViews(t *testing.T) {
	assignments := &mockAssignmentRepository{
		findUnreadByUserFn: func(ctx context.Context, userID int64) ([]models.Assignment, error) {
			return []models.Assignment{
				{AssignmentID: 100, NoteID: 10, UserID: userID, RecipientPriority: true},
				{AssignmentID: 101, NoteID: 11, UserID: userID},
			}, nil
		},
	}
	svc := newAssignmentService(assignments, nil, nil, nil, nil)

	views, err := svc.ListUnread(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, views, 2)
	// the caller is the recipient, so their own priority flags are visible
	require.NotNil(t, views[0].RecipientPriority)
	assert.True(t, *views[0].RecipientPriority)
	assert.False(t, views[0].IsRead)
}
