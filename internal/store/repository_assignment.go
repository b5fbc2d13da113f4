package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/models"
)

// assignmentRepository is the SQL-backed implementation of
// [AssignmentRepository]. It executes all assignment lifecycle operations
// against the "assignments" table.
//
// The unique constraint on (note_id, user_id) is the authoritative guard
// against duplicate assignments; every code path that can violate it maps
// the driver error to [ErrAssignmentAlreadyExists].
type assignmentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAssignmentRepository constructs an [AssignmentRepository] backed by
// the provided database connection and logger.
func NewAssignmentRepository(db *DB, logger *logger.Logger) AssignmentRepository {
	logger.Debug().Msg("creating assignment repository")
	return &assignmentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAssignment inserts a new assignment row inside a single transaction:
// the note and user existence checks and the insert execute atomically, so
// two concurrent creates cannot both pass the checks and both insert — the
// loser of the race hits the unique constraint and gets
// [ErrAssignmentAlreadyExists].
//
// Returns [ErrNoteNotFound] or [ErrUserNotFound] when the referenced note
// or user is missing.
func (r *assignmentRepository) CreateAssignment(ctx context.Context, assignment models.Assignment) (models.Assignment, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*assignmentRepository.CreateAssignment").Msg("failed to begin transaction")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, noteExists, assignment.NoteID).Scan(&exists); err != nil {
		log.Err(err).Str("func", "*assignmentRepository.CreateAssignment").Int64("note_id", assignment.NoteID).Msg("failed to check note existence")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if !exists {
		return models.Assignment{}, ErrNoteNotFound
	}

	if err := tx.QueryRowContext(ctx, userExists, assignment.UserID).Scan(&exists); err != nil {
		log.Err(err).Str("func", "*assignmentRepository.CreateAssignment").Int64("user_id", assignment.UserID).Msg("failed to check user existence")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if !exists {
		return models.Assignment{}, ErrUserNotFound
	}

	var readDate *time.Time
	if assignment.IsRead {
		now := time.Now()
		readDate = &now
	}

	created, err := scanAssignment(tx.QueryRowContext(ctx, createAssignment, assignment.NoteID, assignment.UserID, assignment.IsRead, readDate))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Assignment{}, ErrAssignmentAlreadyExists
		}

		log.Err(err).
			Str("func", "*assignmentRepository.CreateAssignment").
			Int64("note_id", assignment.NoteID).
			Int64("user_id", assignment.UserID).
			Msg("error inserting assignment")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*assignmentRepository.CreateAssignment").Msg("failed to commit transaction")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return created, nil
}

// FindAssignmentByID retrieves the assignment with the given id, or
// [ErrAssignmentNotFound] when no such row exists.
func (r *assignmentRepository) FindAssignmentByID(ctx context.Context, assignmentID int64) (models.Assignment, error) {
	return r.findOne(ctx, "FindAssignmentByID", findAssignmentByID, assignmentID)
}

// FindAssignmentByNoteAndUser retrieves the unique assignment for the
// (note, user) pair, or [ErrAssignmentNotFound].
func (r *assignmentRepository) FindAssignmentByNoteAndUser(ctx context.Context, noteID, userID int64) (models.Assignment, error) {
	return r.findOne(ctx, "FindAssignmentByNoteAndUser", findAssignmentByNoteAndUser, noteID, userID)
}

// FindAssignmentsByNote returns every assignment of the note, in assignment
// order.
func (r *assignmentRepository) FindAssignmentsByNote(ctx context.Context, noteID int64) ([]models.Assignment, error) {
	return r.findMany(ctx, "FindAssignmentsByNote", findAssignmentsByNote, noteID)
}

// FindUnreadByUser returns the user's own assignments with is_read = false,
// in assignment order.
func (r *assignmentRepository) FindUnreadByUser(ctx context.Context, userID int64) ([]models.Assignment, error) {
	return r.findMany(ctx, "FindUnreadByUser", findUnreadAssignmentsByUser, userID)
}

// UpdateAssignment applies a partial update (is_read toggle and/or
// reassignment to another user). A reassignment that collides with an
// existing (note, user) pair returns [ErrAssignmentAlreadyExists].
func (r *assignmentRepository) UpdateAssignment(ctx context.Context, update models.AssignmentUpdate) (models.Assignment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateAssignmentQuery(update, time.Now())
	if err != nil {
		log.Err(err).Str("func", "*assignmentRepository.UpdateAssignment").Int64("assignment_id", update.AssignmentID).Msg("failed to build update query")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanAssignment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Assignment{}, ErrAssignmentNotFound
		case isUniqueViolation(err):
			return models.Assignment{}, ErrAssignmentAlreadyExists
		case isForeignKeyViolation(err):
			return models.Assignment{}, ErrUserNotFound
		}

		log.Err(err).Str("func", "*assignmentRepository.UpdateAssignment").Int64("assignment_id", update.AssignmentID).Msg("error executing update")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return updated, nil
}

// DeleteAssignment removes the assignment row and returns its final state,
// or [ErrAssignmentNotFound]. The note and its other assignments are
// unaffected.
func (r *assignmentRepository) DeleteAssignment(ctx context.Context, assignmentID int64) (models.Assignment, error) {
	log := logger.FromContext(ctx)

	deleted, err := scanAssignment(r.db.QueryRowContext(ctx, deleteAssignment, assignmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, ErrAssignmentNotFound
		}

		log.Err(err).Str("func", "*assignmentRepository.DeleteAssignment").Int64("assignment_id", assignmentID).Msg("error executing delete")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return deleted, nil
}

// MarkRead flips is_read false → true, stamping readAt. The conditional
// WHERE makes the flip monotonic and idempotent: when the row is already
// read the update matches nothing, the current state is re-fetched and
// flipped = false is reported.
func (r *assignmentRepository) MarkRead(ctx context.Context, assignmentID int64, readAt time.Time) (models.Assignment, bool, error) {
	log := logger.FromContext(ctx)

	flippedAssignment, err := scanAssignment(r.db.QueryRowContext(ctx, markAssignmentRead, assignmentID, readAt))
	if err == nil {
		return flippedAssignment, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).Str("func", "*assignmentRepository.MarkRead").Int64("assignment_id", assignmentID).Msg("error executing conditional read flip")
		return models.Assignment{}, false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	current, findErr := r.FindAssignmentByID(ctx, assignmentID)
	if findErr != nil {
		return models.Assignment{}, false, findErr
	}

	return current, false, nil
}

// TogglePriority flips the recipient's private priority flag and returns
// the updated row, or [ErrAssignmentNotFound].
func (r *assignmentRepository) TogglePriority(ctx context.Context, assignmentID int64) (models.Assignment, error) {
	log := logger.FromContext(ctx)

	updated, err := scanAssignment(r.db.QueryRowContext(ctx, toggleAssignmentPriority, assignmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, ErrAssignmentNotFound
		}

		log.Err(err).Str("func", "*assignmentRepository.TogglePriority").Int64("assignment_id", assignmentID).Msg("error executing priority toggle")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return updated, nil
}

// UpdateStatus writes the recipient status together with its finished_date:
// non-nil when entering the terminal status, nil otherwise. The two columns
// change in one statement so the finished_date invariant cannot be observed
// half-applied.
func (r *assignmentRepository) UpdateStatus(ctx context.Context, assignmentID int64, status models.RecipientStatus, finishedDate *time.Time) (models.Assignment, error) {
	log := logger.FromContext(ctx)

	updated, err := scanAssignment(r.db.QueryRowContext(ctx, updateAssignmentStatus, assignmentID, status, finishedDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, ErrAssignmentNotFound
		}

		log.Err(err).Str("func", "*assignmentRepository.UpdateStatus").Int64("assignment_id", assignmentID).Str("status", string(status)).Msg("error executing status update")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return updated, nil
}

func (r *assignmentRepository) findOne(ctx context.Context, caller, query string, args ...any) (models.Assignment, error) {
	log := logger.FromContext(ctx)

	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, ErrAssignmentNotFound
		}

		log.Err(err).Str("func", "*assignmentRepository."+caller).Msg("error: scanning error")
		return models.Assignment{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return assignment, nil
}

func (r *assignmentRepository) findMany(ctx context.Context, caller, query string, args ...any) ([]models.Assignment, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*assignmentRepository."+caller).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	assignments := make([]models.Assignment, 0, 10)
	for rows.Next() {
		assignment, scanErr := scanAssignment(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*assignmentRepository."+caller).Msg("failed to scan assignment row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		assignments = append(assignments, assignment)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*assignmentRepository."+caller).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return assignments, nil
}

func scanAssignment(row rowScanner) (models.Assignment, error) {
	var a models.Assignment
	err := row.Scan(
		&a.AssignmentID,
		&a.NoteID,
		&a.UserID,
		&a.AssignedAt,
		&a.IsRead,
		&a.ReadDate,
		&a.RecipientPriority,
		&a.RecipientStatus,
		&a.FinishedDate,
	)
	return a, err
}
