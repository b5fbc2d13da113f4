package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/store"
	"github.com/tmercier/noteshare/models"
)

// assignmentService is the concrete implementation of [AssignmentService].
//
// Authorization is split along the two state axes: the note's creator owns
// the roster (create, reassign, delete), the recipient owns their private
// sub-state (priority, status), and the read flag is shared between them.
type assignmentService struct {
	assignmentRepository store.AssignmentRepository
	noteRepository       store.NoteRepository
	userRepository       store.UserRepository
	contactRepository    store.ContactRepository
	actionLogRepository  store.ActionLogRepository
	logger               *logger.Logger
}

// NewAssignmentService constructs an [AssignmentService] over the given
// repositories.
func NewAssignmentService(assignmentRepository store.AssignmentRepository, noteRepository store.NoteRepository, userRepository store.UserRepository, contactRepository store.ContactRepository, actionLogRepository store.ActionLogRepository, logger *logger.Logger) AssignmentService {
	return &assignmentService{
		assignmentRepository: assignmentRepository,
		noteRepository:       noteRepository,
		userRepository:       userRepository,
		contactRepository:    contactRepository,
		actionLogRepository:  actionLogRepository,
		logger:               logger,
	}
}

// CreateAssignment shares a note with a recipient.
//
// The caller must be the note's creator. Self-assignment is always allowed;
// assigning to anyone else requires a mutual contact pair between caller
// and target at this moment. A duplicate (note, target) pair yields
// [store.ErrAssignmentAlreadyExists] regardless of the isRead value
// supplied.
func (s *assignmentService) CreateAssignment(ctx context.Context, creatorID, noteID, targetUserID int64, isRead bool) (models.AssignmentView, error) {
	log := logger.FromContext(ctx)

	note, err := s.noteRepository.FindNoteByID(ctx, noteID)
	if err != nil {
		log.Err(err).Int64("note_id", noteID).Msg("note lookup failed")
		return models.AssignmentView{}, fmt.Errorf("note lookup failed: %w", err)
	}
	if note.CreatorID != creatorID {
		log.Error().Int64("note_id", noteID).Int64("user_id", creatorID).Msg("assignment creation by non-creator rejected")
		return models.AssignmentView{}, ErrForbidden
	}

	if targetUserID != creatorID {
		if _, err := s.userRepository.FindUserByID(ctx, targetUserID); err != nil {
			log.Err(err).Int64("target_user_id", targetUserID).Msg("target user lookup failed")
			return models.AssignmentView{}, fmt.Errorf("target user lookup failed: %w", err)
		}

		mutual, mutualErr := s.contactRepository.ReciprocalPairExists(ctx, creatorID, targetUserID)
		if mutualErr != nil {
			return models.AssignmentView{}, fmt.Errorf("mutuality check failed: %w", mutualErr)
		}
		if !mutual {
			log.Error().Int64("user_id", creatorID).Int64("target_user_id", targetUserID).Msg("assignment to non-mutual contact rejected")
			return models.AssignmentView{}, ErrForbidden
		}
	}

	created, err := s.assignmentRepository.CreateAssignment(ctx, models.Assignment{
		NoteID: noteID,
		UserID: targetUserID,
		IsRead: isRead,
	})
	if err != nil {
		log.Err(err).Int64("note_id", noteID).Int64("target_user_id", targetUserID).Msg("assignment creation ended with error")
		return models.AssignmentView{}, fmt.Errorf("assignment creation ended with error: %w", err)
	}

	s.appendLog(ctx, creatorID, created.AssignmentID, models.ActionAssignmentCreated, models.ActionPayload{
		NoteID:         created.NoteID,
		AssignmentID:   created.AssignmentID,
		AffectedUserID: created.UserID,
	})

	return models.NewAssignmentView(created, creatorID), nil
}

// UpdateAssignment applies a direct partial update.
//
// The read flag may be changed by the creator or the recipient, in either
// direction. Reassignment (user_id) is creator-only; the new target must
// exist and must not already hold an assignment for the note.
func (s *assignmentService) UpdateAssignment(ctx context.Context, callerID int64, update models.AssignmentUpdate) (models.AssignmentView, error) {
	log := logger.FromContext(ctx)

	if update.IsRead == nil && update.UserID == nil {
		return models.AssignmentView{}, ErrInvalidDataProvided
	}

	assignment, note, err := s.loadAssignmentAndNote(ctx, update.AssignmentID)
	if err != nil {
		return models.AssignmentView{}, err
	}

	isCreator := note.CreatorID == callerID
	isRecipient := assignment.UserID == callerID
	if !isCreator && !isRecipient {
		log.Error().Int64("assignment_id", update.AssignmentID).Int64("user_id", callerID).Msg("assignment update by unrelated user rejected")
		return models.AssignmentView{}, ErrForbidden
	}
	if update.UserID != nil {
		if !isCreator {
			log.Error().Int64("assignment_id", update.AssignmentID).Int64("user_id", callerID).Msg("reassignment by non-creator rejected")
			return models.AssignmentView{}, ErrForbidden
		}
		if _, err := s.userRepository.FindUserByID(ctx, *update.UserID); err != nil {
			log.Err(err).Int64("target_user_id", *update.UserID).Msg("reassignment target lookup failed")
			return models.AssignmentView{}, fmt.Errorf("reassignment target lookup failed: %w", err)
		}
	}

	updated, err := s.assignmentRepository.UpdateAssignment(ctx, update)
	if err != nil {
		log.Err(err).Int64("assignment_id", update.AssignmentID).Msg("assignment update ended with error")
		return models.AssignmentView{}, fmt.Errorf("assignment update ended with error: %w", err)
	}

	payload := models.ActionPayload{
		NoteID:         updated.NoteID,
		AssignmentID:   updated.AssignmentID,
		AffectedUserID: updated.UserID,
	}
	if update.IsRead != nil {
		payload.NewValue = "is_read=" + strconv.FormatBool(*update.IsRead)
	}
	s.appendLog(ctx, callerID, updated.AssignmentID, models.ActionAssignmentUpdated, payload)

	return models.NewAssignmentView(updated, callerID), nil
}

// DeleteAssignment removes a recipient's visibility of the note.
// Creator-only; the note and its other assignments are unaffected. The
// audit entry carries the note id and the removed recipient, which is
// what deletion history is later reconstructed from.
func (s *assignmentService) DeleteAssignment(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error) {
	log := logger.FromContext(ctx)

	assignment, note, err := s.loadAssignmentAndNote(ctx, assignmentID)
	if err != nil {
		return models.AssignmentView{}, err
	}
	if note.CreatorID != callerID {
		log.Error().Int64("assignment_id", assignmentID).Int64("user_id", callerID).Msg("assignment deletion by non-creator rejected")
		return models.AssignmentView{}, ErrForbidden
	}

	deleted, err := s.assignmentRepository.DeleteAssignment(ctx, assignmentID)
	if err != nil {
		log.Err(err).Int64("assignment_id", assignmentID).Msg("assignment deletion ended with error")
		return models.AssignmentView{}, fmt.Errorf("assignment deletion ended with error: %w", err)
	}

	s.appendLog(ctx, callerID, deleted.AssignmentID, models.ActionAssignmentDeleted, models.ActionPayload{
		NoteID:         deleted.NoteID,
		AssignmentID:   deleted.AssignmentID,
		AffectedUserID: assignment.UserID,
	})

	return models.NewAssignmentView(deleted, callerID), nil
}

// TogglePriority flips the caller's private priority flag. Recipient-only;
// the flag never appears in anyone else's view.
func (s *assignmentService) TogglePriority(ctx context.Context, callerID, assignmentID int64) (models.AssignmentView, error) {
	log := logger.FromContext(ctx)

	assignment, err := s.assignmentRepository.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		log.Err(err).Int64("assignment_id", assignmentID).Msg("assignment lookup failed")
		return models.AssignmentView{}, fmt.Errorf("assignment lookup failed: %w", err)
	}
	if assignment.UserID != callerID {
		log.Error().Int64("assignment_id", assignmentID).Int64("user_id", callerID).Msg("priority toggle by non-recipient rejected")
		return models.AssignmentView{}, ErrForbidden
	}

	updated, err := s.assignmentRepository.TogglePriority(ctx, assignmentID)
	if err != nil {
		log.Err(err).Int64("assignment_id", assignmentID).Msg("priority toggle ended with error")
		return models.AssignmentView{}, fmt.Errorf("priority toggle ended with error: %w", err)
	}

	s.appendLog(ctx, callerID, updated.AssignmentID, models.ActionAssignmentUpdated, models.ActionPayload{
		NoteID:       updated.NoteID,
		AssignmentID: updated.AssignmentID,
		NewValue:     "recipient_priority=" + strconv.FormatBool(updated.RecipientPriority),
	})

	return models.NewAssignmentView(updated, callerID), nil
}

// UpdateStatus moves the recipient's progress state. Recipient-only; the
// status must be one of the three enum values. Entering the terminal
// status stamps finished_date, leaving it clears the stamp, and the
// completed/uncompleted audit actions fire only when the value actually
// changes.
func (s *assignmentService) UpdateStatus(ctx context.Context, callerID, assignmentID int64, status models.RecipientStatus) (models.AssignmentView, error) {
	log := logger.FromContext(ctx)

	if !status.Valid() {
		log.Error().Int64("assignment_id", assignmentID).Str("status", string(status)).Msg("unknown recipient status rejected")
		return models.AssignmentView{}, ErrInvalidStatus
	}

	assignment, err := s.assignmentRepository.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		log.Err(err).Int64("assignment_id", assignmentID).Msg("assignment lookup failed")
		return models.AssignmentView{}, fmt.Errorf("assignment lookup failed: %w", err)
	}
	if assignment.UserID != callerID {
		log.Error().Int64("assignment_id", assignmentID).Int64("user_id", callerID).Msg("status update by non-recipient rejected")
		return models.AssignmentView{}, ErrForbidden
	}

	var finishedDate *time.Time
	if status == models.StatusDone {
		now := time.Now()
		finishedDate = &now
	}

	updated, err := s.assignmentRepository.UpdateStatus(ctx, assignmentID, status, finishedDate)
	if err != nil {
		log.Err(err).Int64("assignment_id", assignmentID).Msg("status update ended with error")
		return models.AssignmentView{}, fmt.Errorf("status update ended with error: %w", err)
	}

	if assignment.RecipientStatus != status {
		payload := models.ActionPayload{
			NoteID:       updated.NoteID,
			AssignmentID: updated.AssignmentID,
			NewValue:     string(status),
		}
		switch {
		case status == models.StatusDone:
			s.appendLog(ctx, callerID, updated.AssignmentID, models.ActionAssignmentCompleted, payload)
		case assignment.RecipientStatus == models.StatusDone:
			s.appendLog(ctx, callerID, updated.AssignmentID, models.ActionAssignmentUncompleted, payload)
		default:
			s.appendLog(ctx, callerID, updated.AssignmentID, models.ActionAssignmentUpdated, payload)
		}
	}

	return models.NewAssignmentView(updated, callerID), nil
}

// ListUnread returns the caller's own unread assignments.
func (s *assignmentService) ListUnread(ctx context.Context, userID int64) ([]models.AssignmentView, error) {
	log := logger.FromContext(ctx)

	assignments, err := s.assignmentRepository.FindUnreadByUser(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("unread assignment listing failed")
		return nil, fmt.Errorf("unread assignment listing failed: %w", err)
	}

	views := make([]models.AssignmentView, 0, len(assignments))
	for _, assignment := range assignments {
		views = append(views, models.NewAssignmentView(assignment, userID))
	}

	return views, nil
}

// loadAssignmentAndNote fetches an assignment together with its note. The
// note row always exists for a live assignment; a missing one is a storage
// level inconsistency and surfaces as such.
func (s *assignmentService) loadAssignmentAndNote(ctx context.Context, assignmentID int64) (models.Assignment, models.Note, error) {
	assignment, err := s.assignmentRepository.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		return models.Assignment{}, models.Note{}, fmt.Errorf("assignment lookup failed: %w", err)
	}

	note, err := s.noteRepository.FindNoteByID(ctx, assignment.NoteID)
	if err != nil {
		return models.Assignment{}, models.Note{}, fmt.Errorf("note lookup failed: %w", err)
	}

	return assignment, note, nil
}

// appendLog records an audit entry, logging but not propagating a failure:
// the mutation itself already committed.
func (s *assignmentService) appendLog(ctx context.Context, actorID, targetID int64, actionType string, payload models.ActionPayload) {
	if _, err := s.actionLogRepository.Append(ctx, models.ActionLog{
		UserID:     &actorID,
		TargetID:   targetID,
		ActionType: actionType,
		Payload:    payload,
	}); err != nil {
		logger.FromContext(ctx).Err(err).Str("action_type", actionType).Int64("target_id", targetID).Msg("failed to append audit log entry")
	}
}
