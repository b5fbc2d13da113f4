package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/store"
	"github.com/tmercier/noteshare/models"
)

// historyService is the concrete implementation of [HistoryService].
//
// Neither history is stored as first-class state: both are derived on each
// call by folding over the ordered audit log. Histories are expected to be
// small, so each call materializes the full result without pagination.
type historyService struct {
	noteRepository      store.NoteRepository
	userRepository      store.UserRepository
	actionLogRepository store.ActionLogRepository
	logger              *logger.Logger
}

// NewHistoryService constructs a [HistoryService] over the given
// repositories.
func NewHistoryService(noteRepository store.NoteRepository, userRepository store.UserRepository, actionLogRepository store.ActionLogRepository, logger *logger.Logger) HistoryService {
	return &historyService{
		noteRepository:      noteRepository,
		userRepository:      userRepository,
		actionLogRepository: actionLogRepository,
		logger:              logger,
	}
}

// GetDeletionHistory reconstructs who removed which recipient's assignment
// from the note, in event order. Creator-only.
func (s *historyService) GetDeletionHistory(ctx context.Context, callerID, noteID int64) ([]models.DeletionRecord, error) {
	log := logger.FromContext(ctx)

	if err := s.requireCreator(ctx, callerID, noteID); err != nil {
		return nil, err
	}

	entries, err := s.actionLogRepository.FindByActionTypes(ctx, models.ActionAssignmentDeleted)
	if err != nil {
		log.Err(err).Int64("note_id", noteID).Msg("action log scan failed")
		return nil, fmt.Errorf("action log scan failed: %w", err)
	}

	records := make([]models.DeletionRecord, 0, 10)
	userIDs := make([]int64, 0, 20)
	for _, entry := range entries {
		if entry.Payload.NoteID != noteID {
			continue
		}

		record := models.DeletionRecord{
			AssignmentID: entry.Payload.AssignmentID,
			NoteID:       noteID,
			AffectedUser: models.UserRef{UserID: entry.Payload.AffectedUserID},
			DeletedAt:    entry.CreatedAt,
		}
		if entry.UserID != nil {
			record.DeletedBy = models.UserRef{UserID: *entry.UserID}
			userIDs = append(userIDs, *entry.UserID)
		} else {
			record.DeletedByUnknown = true
		}
		userIDs = append(userIDs, entry.Payload.AffectedUserID)

		records = append(records, record)
	}

	if err := s.fillUsernames(ctx, userIDs, func(resolve func(models.UserRef) models.UserRef) {
		for i := range records {
			records[i].DeletedBy = resolve(records[i].DeletedBy)
			records[i].AffectedUser = resolve(records[i].AffectedUser)
		}
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// GetCompletionHistory reconstructs which assignments of the note are
// currently completed. Creator-only.
//
// The fold is last-write-wins per assignment over the ordered
// completed/uncompleted stream: an un-completion suppresses the stale
// completion entry instead of appearing alongside it, and a later
// re-completion surfaces again as a single entry.
func (s *historyService) GetCompletionHistory(ctx context.Context, callerID, noteID int64) ([]models.CompletionRecord, error) {
	log := logger.FromContext(ctx)

	if err := s.requireCreator(ctx, callerID, noteID); err != nil {
		return nil, err
	}

	entries, err := s.actionLogRepository.FindByActionTypes(ctx, models.ActionAssignmentCompleted, models.ActionAssignmentUncompleted)
	if err != nil {
		log.Err(err).Int64("note_id", noteID).Msg("action log scan failed")
		return nil, fmt.Errorf("action log scan failed: %w", err)
	}

	// entries arrive oldest first, so overwriting per assignment id leaves
	// the latest event for each
	latest := make(map[int64]models.ActionLog, 10)
	for _, entry := range entries {
		if entry.Payload.NoteID != noteID {
			continue
		}
		latest[entry.Payload.AssignmentID] = entry
	}

	records := make([]models.CompletionRecord, 0, len(latest))
	userIDs := make([]int64, 0, len(latest))
	for assignmentID, entry := range latest {
		if entry.ActionType != models.ActionAssignmentCompleted {
			continue
		}

		record := models.CompletionRecord{
			AssignmentID: assignmentID,
			NoteID:       noteID,
			CompletedAt:  entry.CreatedAt,
		}
		if entry.UserID != nil {
			record.CompletedBy = models.UserRef{UserID: *entry.UserID}
			userIDs = append(userIDs, *entry.UserID)
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CompletedAt.Equal(records[j].CompletedAt) {
			return records[i].AssignmentID < records[j].AssignmentID
		}
		return records[i].CompletedAt.Before(records[j].CompletedAt)
	})

	if err := s.fillUsernames(ctx, userIDs, func(resolve func(models.UserRef) models.UserRef) {
		for i := range records {
			records[i].CompletedBy = resolve(records[i].CompletedBy)
		}
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// requireCreator resolves the note and rejects any caller other than its
// creator.
func (s *historyService) requireCreator(ctx context.Context, callerID, noteID int64) error {
	note, err := s.noteRepository.FindNoteByID(ctx, noteID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("note_id", noteID).Msg("note lookup failed")
		return fmt.Errorf("note lookup failed: %w", err)
	}
	if note.CreatorID != callerID {
		logger.FromContext(ctx).Error().Int64("note_id", noteID).Int64("user_id", callerID).Msg("history access by non-creator rejected")
		return ErrForbidden
	}
	return nil
}

// fillUsernames resolves usernames for the collected ids and lets the
// caller rewrite its records through the resolver. Ids of deleted accounts
// keep an empty username.
func (s *historyService) fillUsernames(ctx context.Context, userIDs []int64, apply func(resolve func(models.UserRef) models.UserRef)) error {
	if len(userIDs) == 0 {
		apply(func(ref models.UserRef) models.UserRef { return ref })
		return nil
	}

	users, err := s.userRepository.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("user lookup failed: %w", err)
	}

	usernames := make(map[int64]string, len(users))
	for _, user := range users {
		usernames[user.UserID] = user.Username
	}

	apply(func(ref models.UserRef) models.UserRef {
		if name, ok := usernames[ref.UserID]; ok {
			ref.Username = name
		}
		return ref
	})

	return nil
}
