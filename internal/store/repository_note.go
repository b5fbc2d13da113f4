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

// noteRepository is the SQL-backed implementation of [NoteRepository].
// It executes all note CRUD operations against the "notes" table.
//
// Lookups deliberately include soft-deleted rows: deleted notes remain
// addressable for audit and history, and the service layer decides what a
// deleted note discloses to whom.
type noteRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewNoteRepository constructs a [NoteRepository] backed by the provided
// database connection and logger.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	logger.Debug().Msg("creating note repository")
	return &noteRepository{
		db:     db,
		logger: logger,
	}
}

// CreateNote persists a new note and returns it with server-assigned fields
// (NoteID, CreatedAt).
func (r *noteRepository) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createNote, note.Content, note.CreatorID, note.Important)

	created, err := scanNote(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Note{}, ErrMissingReference
		}

		log.Err(err).Str("func", "*noteRepository.CreateNote").Int64("creator_id", note.CreatorID).Msg("error creating note")
		return models.Note{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindNoteByID retrieves the note with the given id, including soft-deleted
// rows, or [ErrNoteNotFound] when no such row exists.
func (r *noteRepository) FindNoteByID(ctx context.Context, noteID int64) (models.Note, error) {
	log := logger.FromContext(ctx)

	note, err := scanNote(r.db.QueryRowContext(ctx, findNoteByID, noteID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, ErrNoteNotFound
		}

		log.Err(err).Str("func", "*noteRepository.FindNoteByID").Int64("note_id", noteID).Msg("error: scanning error")
		return models.Note{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return note, nil
}

// UpdateNote applies a partial update (content and/or importance) and stamps
// update_date. Returns [ErrNoteNotFound] when the note does not exist.
func (r *noteRepository) UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateNoteQuery(update, time.Now())
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.UpdateNote").Int64("note_id", update.NoteID).Msg("failed to build update query")
		return models.Note{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, ErrNoteNotFound
		}

		log.Err(err).Str("func", "*noteRepository.UpdateNote").Int64("note_id", update.NoteID).Msg("error executing update")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return note, nil
}

// SoftDeleteNote stamps delete_date and records deletedBy as the user who
// performed the deletion. The WHERE clause skips already-deleted rows, so a
// second delete surfaces as [ErrNoteAlreadyDeleted] rather than silently
// overwriting the original deleter.
func (r *noteRepository) SoftDeleteNote(ctx context.Context, noteID, deletedBy int64) (models.Note, error) {
	log := logger.FromContext(ctx)

	note, err := scanNote(r.db.QueryRowContext(ctx, softDeleteNote, noteID, time.Now(), deletedBy))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// row exists but is already deleted, or does not exist at all
			if _, findErr := r.FindNoteByID(ctx, noteID); findErr == nil {
				return models.Note{}, ErrNoteAlreadyDeleted
			}
			return models.Note{}, ErrNoteNotFound
		}

		log.Err(err).Str("func", "*noteRepository.SoftDeleteNote").Int64("note_id", noteID).Int64("deleted_by", deletedBy).Msg("error executing soft delete")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return note, nil
}

// StampReadDate sets the note's read_date to readAt if it is still null.
// Idempotent: once stamped, further calls match no rows and succeed.
func (r *noteRepository) StampReadDate(ctx context.Context, noteID int64, readAt time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, stampNoteReadDate, noteID, readAt); err != nil {
		log.Err(err).Str("func", "*noteRepository.StampReadDate").Int64("note_id", noteID).Msg("error stamping read date")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// FindOrphanNotesByCreator returns the creator's non-deleted notes that
// have no assignment rows, oldest first.
func (r *noteRepository) FindOrphanNotesByCreator(ctx context.Context, creatorID int64) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findOrphanNotesByCreator, creatorID)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.FindOrphanNotesByCreator").Int64("creator_id", creatorID).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, 10)
	for rows.Next() {
		var note models.Note
		if scanErr := rows.Scan(&note.NoteID, &note.Content, &note.CreatorID, &note.Important, &note.CreatedAt, &note.UpdateDate, &note.ReadDate, &note.DeleteDate, &note.DeletedBy); scanErr != nil {
			log.Err(scanErr).Str("func", "*noteRepository.FindOrphanNotesByCreator").Msg("failed to scan note row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*noteRepository.FindOrphanNotesByCreator").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.NoteID,
		&note.Content,
		&note.CreatorID,
		&note.Important,
		&note.CreatedAt,
		&note.UpdateDate,
		&note.ReadDate,
		&note.DeleteDate,
		&note.DeletedBy,
	)
	return note, err
}
