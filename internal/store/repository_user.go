package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - unique constraint violation on username or email → [ErrUsernameOrEmailTaken].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.Email, user.PasswordHash, user.Role)

	var created models.User
	if err := row.Scan(&created.UserID, &created.Username, &created.Email, &created.PasswordHash, &created.Role, &created.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUsernameOrEmailTaken
		}

		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindUserByID retrieves the user record with the given id, or
// [ErrUserNotFound] when no such row exists.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.scanUser(ctx, r.db.QueryRowContext(ctx, findUserByID, userID), "FindUserByID")
}

// FindUserByUsername retrieves the user record with the given username, or
// [ErrUserNotFound] when no such row exists.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.scanUser(ctx, r.db.QueryRowContext(ctx, findUserByUsername, username), "FindUserByUsername")
}

// FindUsersByIDs retrieves every user whose id is in userIDs. Missing ids
// are silently absent from the result; callers that need per-id resolution
// should index the returned slice by UserID.
func (r *userRepository) FindUsersByIDs(ctx context.Context, userIDs []int64) ([]models.User, error) {
	log := logger.FromContext(ctx)

	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := buildFindUsersByIDsQuery(userIDs)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUsersByIDs").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUsersByIDs").Int("ids count", len(userIDs)).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, len(userIDs))
	for rows.Next() {
		var user models.User
		if scanErr := rows.Scan(&user.UserID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt); scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.FindUsersByIDs").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*userRepository.FindUsersByIDs").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return users, nil
}

func (r *userRepository) scanUser(ctx context.Context, row *sql.Row, caller string) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	if err := row.Scan(&user.UserID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}

		log.Err(err).Str("func", "*userRepository."+caller).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}
