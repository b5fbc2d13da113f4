package store

import (
	"context"
	"fmt"

	"github.com/tmercier/noteshare/internal/config"
	"github.com/tmercier/noteshare/internal/logger"
)

// Storages bundles every repository behind its interface so the service
// layer depends on one injected value.
type Storages struct {
	UserRepository       UserRepository
	NoteRepository       NoteRepository
	AssignmentRepository AssignmentRepository
	ContactRepository    ContactRepository
	ActionLogRepository  ActionLogRepository
}

// NewStorages opens the database selected by cfg.Driver, runs pending
// migrations and wires every repository onto the shared connection.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case "sqlite3":
		db, err = NewConnectSQLite(ctx, cfg, log)
	default:
		db, err = NewConnectPostgres(ctx, cfg, log)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		NoteRepository:       NewNoteRepository(db, log),
		AssignmentRepository: NewAssignmentRepository(db, log),
		ContactRepository:    NewContactRepository(db, log),
		ActionLogRepository:  NewActionLogRepository(db, log),
	}, nil
}
