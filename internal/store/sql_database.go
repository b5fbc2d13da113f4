package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/migrations"
)

// DB wraps the raw connection together with the dialect name so that
// migrations and error classification work for both supported drivers.
type DB struct {
	*sql.DB
	dialect string
	logger  *logger.Logger
}

// Migrate applies all embedded migrations against this connection.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// isUniqueViolation reports whether err is a driver-level unique constraint
// violation, for either the pgx or the sqlite3 backend.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

// isForeignKeyViolation reports whether err is a driver-level foreign key
// violation, for either the pgx or the sqlite3 backend.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.ForeignKeyViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	return false
}
