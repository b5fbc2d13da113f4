package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmercier/noteshare/internal/config"
	"github.com/tmercier/noteshare/internal/logger"
)

// NewConnectSQLite opens a SQLite database at the path given in cfg.DSN and
// returns it wrapped in a [*DB] with the "sqlite3" dialect. Intended for
// local development and integration tests; production deployments use
// [NewConnectPostgres].
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", cfg.DSN+"?_foreign_keys=on")
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// sqlite allows one writer at a time
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	return &DB{
		DB:      conn,
		dialect: "sqlite3",
		logger:  log,
	}, nil
}
