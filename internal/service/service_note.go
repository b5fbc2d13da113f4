package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/store"
	"github.com/tmercier/noteshare/models"
)

// noteService is the concrete implementation of [NoteService]: it derives
// the caller's role toward a note at access time and shapes every response
// accordingly.
//
// Role is never stored. A single resolution point (resolveAccess) feeds all
// operations, so the creator/recipient branching cannot drift between them.
type noteService struct {
	noteRepository       store.NoteRepository
	assignmentRepository store.AssignmentRepository
	userRepository       store.UserRepository
	actionLogRepository  store.ActionLogRepository
	logger               *logger.Logger
}

// NewNoteService constructs a [NoteService] over the given repositories.
func NewNoteService(noteRepository store.NoteRepository, assignmentRepository store.AssignmentRepository, userRepository store.UserRepository, actionLogRepository store.ActionLogRepository, logger *logger.Logger) NoteService {
	return &noteService{
		noteRepository:       noteRepository,
		assignmentRepository: assignmentRepository,
		userRepository:       userRepository,
		actionLogRepository:  actionLogRepository,
		logger:               logger,
	}
}

// noteAccess is the resolved relation between a caller and a note. For a
// recipient, assignment holds the caller's own assignment row.
type noteAccess struct {
	role       models.NoteRole
	assignment *models.Assignment
}

// resolveAccess computes the caller's role toward the note: creator when
// the ids match, recipient when an assignment row exists, [ErrForbidden]
// otherwise.
func (s *noteService) resolveAccess(ctx context.Context, note models.Note, userID int64) (noteAccess, error) {
	if note.CreatorID == userID {
		return noteAccess{role: models.NoteRoleCreator}, nil
	}

	assignment, err := s.assignmentRepository.FindAssignmentByNoteAndUser(ctx, note.NoteID, userID)
	if err != nil {
		if errors.Is(err, store.ErrAssignmentNotFound) {
			return noteAccess{}, ErrForbidden
		}
		return noteAccess{}, fmt.Errorf("assignment lookup failed: %w", err)
	}

	return noteAccess{role: models.NoteRoleRecipient, assignment: &assignment}, nil
}

// CreateNote validates and persists a new note and appends a note_created
// audit entry. The caller becomes the note's creator.
func (s *noteService) CreateNote(ctx context.Context, creatorID int64, content string, important bool) (models.NoteView, error) {
	log := logger.FromContext(ctx)

	content, err := validateContent(content)
	if err != nil {
		log.Error().Int64("user_id", creatorID).Msg("invalid note content provided")
		return models.NoteView{}, err
	}

	created, err := s.noteRepository.CreateNote(ctx, models.Note{
		Content:   content,
		CreatorID: creatorID,
		Important: important,
	})
	if err != nil {
		log.Err(err).Int64("user_id", creatorID).Msg("note creation ended with error")
		return models.NoteView{}, fmt.Errorf("note creation ended with error: %w", err)
	}

	s.appendLog(ctx, creatorID, created.NoteID, models.ActionNoteCreated, models.ActionPayload{NoteID: created.NoteID})

	return s.buildCreatorView(ctx, created)
}

// GetNoteForUser returns the role-filtered view of a note.
//
// The read is the acknowledgment: when the caller is a recipient whose
// assignment is still unread, the assignment flips to read and the note's
// read_date is stamped before the view is built. The flip is monotonic and
// idempotent, so concurrent or repeated reads converge on is_read = true
// with the first read's timestamp.
func (s *noteService) GetNoteForUser(ctx context.Context, noteID, userID int64) (models.NoteView, error) {
	log := logger.FromContext(ctx)

	note, err := s.noteRepository.FindNoteByID(ctx, noteID)
	if err != nil {
		log.Err(err).Int64("note_id", noteID).Msg("note lookup failed")
		return models.NoteView{}, fmt.Errorf("note lookup failed: %w", err)
	}

	access, err := s.resolveAccess(ctx, note, userID)
	if err != nil {
		return models.NoteView{}, err
	}

	if access.role == models.NoteRoleCreator {
		return s.buildCreatorView(ctx, note)
	}

	if !access.assignment.IsRead {
		now := time.Now()
		marked, flipped, markErr := s.assignmentRepository.MarkRead(ctx, access.assignment.AssignmentID, now)
		if markErr != nil {
			log.Err(markErr).Int64("assignment_id", access.assignment.AssignmentID).Msg("read flip failed")
			return models.NoteView{}, fmt.Errorf("read flip failed: %w", markErr)
		}
		access.assignment = &marked

		if flipped {
			if stampErr := s.noteRepository.StampReadDate(ctx, note.NoteID, now); stampErr != nil {
				log.Err(stampErr).Int64("note_id", note.NoteID).Msg("read date stamp failed")
				return models.NoteView{}, fmt.Errorf("read date stamp failed: %w", stampErr)
			}
			if note.ReadDate == nil {
				note.ReadDate = marked.ReadDate
			}

			s.appendLog(ctx, userID, note.NoteID, models.ActionNoteRead, models.ActionPayload{
				NoteID:       note.NoteID,
				AssignmentID: marked.AssignmentID,
			})
		}
	}

	return s.buildRecipientView(ctx, note, *access.assignment, userID)
}

// UpdateNote changes the content and/or importance of a note. Creator-only;
// a recipient gets [ErrForbidden]. Soft-deleted notes are frozen.
func (s *noteService) UpdateNote(ctx context.Context, userID int64, update models.NoteUpdate) (models.NoteView, error) {
	log := logger.FromContext(ctx)

	note, err := s.noteRepository.FindNoteByID(ctx, update.NoteID)
	if err != nil {
		log.Err(err).Int64("note_id", update.NoteID).Msg("note lookup failed")
		return models.NoteView{}, fmt.Errorf("note lookup failed: %w", err)
	}

	if note.CreatorID != userID {
		log.Error().Int64("note_id", update.NoteID).Int64("user_id", userID).Msg("note update by non-creator rejected")
		return models.NoteView{}, ErrForbidden
	}
	if note.IsDeleted() {
		return models.NoteView{}, store.ErrNoteAlreadyDeleted
	}

	if update.Content != nil {
		content, validateErr := validateContent(*update.Content)
		if validateErr != nil {
			log.Error().Int64("note_id", update.NoteID).Msg("invalid note content provided")
			return models.NoteView{}, validateErr
		}
		update.Content = &content
	}
	if update.Content == nil && update.Important == nil {
		return models.NoteView{}, ErrInvalidDataProvided
	}

	updated, err := s.noteRepository.UpdateNote(ctx, update)
	if err != nil {
		log.Err(err).Int64("note_id", update.NoteID).Msg("note update ended with error")
		return models.NoteView{}, fmt.Errorf("note update ended with error: %w", err)
	}

	s.appendLog(ctx, userID, updated.NoteID, models.ActionNoteUpdated, models.ActionPayload{NoteID: updated.NoteID})

	return s.buildCreatorView(ctx, updated)
}

// DeleteNote soft-deletes a note. Creator or any current recipient may
// invoke it; deleted_by records the actual caller, which is the
// traceability contract for deletions performed by a recipient.
func (s *noteService) DeleteNote(ctx context.Context, noteID, userID int64) (models.NoteView, error) {
	log := logger.FromContext(ctx)

	note, err := s.noteRepository.FindNoteByID(ctx, noteID)
	if err != nil {
		log.Err(err).Int64("note_id", noteID).Msg("note lookup failed")
		return models.NoteView{}, fmt.Errorf("note lookup failed: %w", err)
	}

	access, err := s.resolveAccess(ctx, note, userID)
	if err != nil {
		return models.NoteView{}, err
	}

	deleted, err := s.noteRepository.SoftDeleteNote(ctx, noteID, userID)
	if err != nil {
		log.Err(err).Int64("note_id", noteID).Int64("user_id", userID).Msg("note deletion ended with error")
		return models.NoteView{}, fmt.Errorf("note deletion ended with error: %w", err)
	}

	s.appendLog(ctx, userID, deleted.NoteID, models.ActionNoteDeleted, models.ActionPayload{NoteID: deleted.NoteID})

	if access.role == models.NoteRoleCreator {
		return s.buildCreatorView(ctx, deleted)
	}
	return s.buildRecipientView(ctx, deleted, *access.assignment, userID)
}

// GetOrphanNotes lists the caller's non-deleted notes with zero assignment
// rows: candidates for permanent cleanup.
func (s *noteService) GetOrphanNotes(ctx context.Context, userID int64) ([]models.NoteView, error) {
	log := logger.FromContext(ctx)

	notes, err := s.noteRepository.FindOrphanNotesByCreator(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("orphan note listing failed")
		return nil, fmt.Errorf("orphan note listing failed: %w", err)
	}

	views := make([]models.NoteView, 0, len(notes))
	for _, note := range notes {
		view, buildErr := s.buildCreatorView(ctx, note)
		if buildErr != nil {
			return nil, buildErr
		}
		views = append(views, view)
	}

	return views, nil
}

// buildCreatorView assembles the full view: the complete assignment roster
// with per-recipient read and status data, never any recipient's private
// priority flag, and the deleter identity whenever the note is deleted.
func (s *noteService) buildCreatorView(ctx context.Context, note models.Note) (models.NoteView, error) {
	assignments, err := s.assignmentRepository.FindAssignmentsByNote(ctx, note.NoteID)
	if err != nil {
		return models.NoteView{}, fmt.Errorf("assignment listing failed: %w", err)
	}

	ids := make([]int64, 0, len(assignments)+2)
	ids = append(ids, note.CreatorID)
	for _, a := range assignments {
		ids = append(ids, a.UserID)
	}
	if note.DeletedBy != nil {
		ids = append(ids, *note.DeletedBy)
	}

	refs, err := s.resolveUserRefs(ctx, ids)
	if err != nil {
		return models.NoteView{}, err
	}

	view := models.NoteView{
		NoteID:     note.NoteID,
		Content:    note.Content,
		Important:  note.Important,
		Creator:    refs[note.CreatorID],
		Role:       models.NoteRoleCreator,
		CreatedAt:  note.CreatedAt,
		UpdateDate: note.UpdateDate,
		DeleteDate: note.DeleteDate,

		AssignedTo:         make([]models.UserRef, 0, len(assignments)),
		ReadBy:             make([]models.UserRef, 0, len(assignments)),
		AssignmentsDetails: make([]models.AssignmentDetail, 0, len(assignments)),
	}

	if note.DeletedBy != nil {
		deleter := refs[*note.DeletedBy]
		view.DeletedBy = &deleter
	}

	for _, a := range assignments {
		ref := refs[a.UserID]
		view.AssignedTo = append(view.AssignedTo, ref)
		if a.IsRead {
			view.ReadBy = append(view.ReadBy, ref)
		}
		view.AssignmentsDetails = append(view.AssignmentsDetails, models.AssignmentDetail{
			AssignmentID:    a.AssignmentID,
			User:            ref,
			AssignedAt:      a.AssignedAt,
			IsRead:          a.IsRead,
			ReadDate:        a.ReadDate,
			RecipientStatus: a.RecipientStatus,
			FinishedDate:    a.FinishedDate,
		})
	}

	return view, nil
}

// buildRecipientView assembles the restricted view: the caller's own
// assignment block only, with the roster fields left nil. The deleter is
// disclosed only when it was the creator; a deletion by a co-recipient
// stays invisible to other recipients.
func (s *noteService) buildRecipientView(ctx context.Context, note models.Note, assignment models.Assignment, callerID int64) (models.NoteView, error) {
	ids := []int64{note.CreatorID}
	refs, err := s.resolveUserRefs(ctx, ids)
	if err != nil {
		return models.NoteView{}, err
	}

	view := models.NoteView{
		NoteID:     note.NoteID,
		Content:    note.Content,
		Important:  note.Important,
		Creator:    refs[note.CreatorID],
		Role:       models.NoteRoleRecipient,
		CreatedAt:  note.CreatedAt,
		UpdateDate: note.UpdateDate,
		DeleteDate: note.DeleteDate,
	}

	if note.DeletedBy != nil && *note.DeletedBy == note.CreatorID {
		creator := refs[note.CreatorID]
		view.DeletedBy = &creator
	}

	myAssignment := models.NewAssignmentView(assignment, callerID)
	view.MyAssignment = &myAssignment

	return view, nil
}

// resolveUserRefs maps user ids to public references. Ids of deleted
// accounts resolve to a ref with an empty username.
func (s *noteService) resolveUserRefs(ctx context.Context, ids []int64) (map[int64]models.UserRef, error) {
	users, err := s.userRepository.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	refs := make(map[int64]models.UserRef, len(ids))
	for _, id := range ids {
		refs[id] = models.UserRef{UserID: id}
	}
	for _, user := range users {
		refs[user.UserID] = models.UserRef{UserID: user.UserID, Username: user.Username}
	}

	return refs, nil
}

// appendLog records an audit entry, logging but not propagating a failure:
// the mutation itself already committed.
func (s *noteService) appendLog(ctx context.Context, actorID, targetID int64, actionType string, payload models.ActionPayload) {
	if _, err := s.actionLogRepository.Append(ctx, models.ActionLog{
		UserID:     &actorID,
		TargetID:   targetID,
		ActionType: actionType,
		Payload:    payload,
	}); err != nil {
		logger.FromContext(ctx).Err(err).Str("action_type", actionType).Int64("target_id", targetID).Msg("failed to append audit log entry")
	}
}

// validateContent trims and bounds-checks note content.
func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > models.MaxNoteContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}
