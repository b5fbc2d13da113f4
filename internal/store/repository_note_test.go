package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/models"
)

func newTestNoteRepo(t *testing.T) (*noteRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	wrapped, mock, db := newTestDB(t)
	repo := &noteRepository{
		db:     wrapped,
		logger: logger.Nop(),
	}
	return repo, mock, db
}

func noteRows(id, creatorID int64, deleteDate *time.Time, deletedBy *int64) *sqlmock.Rows {
	return sqlmock.
		NewRows(noteColumns).
		AddRow(id, "Buy milk", creatorID, false, time.Now(), nil, nil, deleteDate, deletedBy)
}

func TestCreateNote_Success(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO notes").
		WithArgs("Buy milk", int64(1), false).
		WillReturnRows(noteRows(10, 1, nil, nil))

	created, err := repo.CreateNote(context.Background(), models.Note{Content: "Buy milk", CreatorID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.NoteID != 10 {
		t.Errorf("expected NoteID=10, got %d", created.NoteID)
	}
	if created.IsDeleted() {
		t.Error("fresh note must not be deleted")
	}
}

func TestSoftDeleteNote_RecordsDeleter(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	deleterID := int64(2) // a recipient, not the creator

	mock.ExpectQuery("UPDATE notes").
		WithArgs(int64(10), sqlmock.AnyArg(), deleterID).
		WillReturnRows(noteRows(10, 1, &now, &deleterID))

	deleted, err := repo.SoftDeleteNote(context.Background(), 10, deleterID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted.IsDeleted() {
		t.Error("expected note to be marked deleted")
	}
	if deleted.DeletedBy == nil || *deleted.DeletedBy != deleterID {
		t.Errorf("expected DeletedBy=%d, got %v", deleterID, deleted.DeletedBy)
	}
	if *deleted.DeletedBy == deleted.CreatorID {
		t.Error("deleter must be recorded as the actual caller, not the creator")
	}
}

func TestSoftDeleteNote_AlreadyDeleted(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	now := time.Now()
	creatorID := int64(1)

	// conditional update matches nothing, re-check finds the deleted row
	mock.ExpectQuery("UPDATE notes").
		WithArgs(int64(10), sqlmock.AnyArg(), int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT (.+) FROM notes").
		WithArgs(int64(10)).
		WillReturnRows(noteRows(10, 1, &now, &creatorID))

	_, err := repo.SoftDeleteNote(context.Background(), 10, 2)
	if !errors.Is(err, ErrNoteAlreadyDeleted) {
		t.Fatalf("expected ErrNoteAlreadyDeleted, got %v", err)
	}
}

func TestSoftDeleteNote_NotFound(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	mock.ExpectQuery("UPDATE notes").
		WithArgs(int64(404), sqlmock.AnyArg(), int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT (.+) FROM notes").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SoftDeleteNote(context.Background(), 404, 2)
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestStampReadDate_Idempotent(t *testing.T) {
	repo, mock, db := newTestNoteRepo(t)
	defer db.Close()

	readAt := time.Now()

	mock.ExpectExec("UPDATE notes").
		WithArgs(int64(10), readAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE notes").
		WithArgs(int64(10), readAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.StampReadDate(context.Background(), 10, readAt); err != nil {
		t.Fatalf("unexpected error on first stamp: %v", err)
	}
	if err := repo.StampReadDate(context.Background(), 10, readAt); err != nil {
		t.Fatalf("unexpected error on repeat stamp: %v", err)
	}
}
