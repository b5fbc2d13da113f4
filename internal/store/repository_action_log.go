package store

import (
	"context"
	"fmt"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/models"
)

// actionLogRepository is the SQL-backed implementation of
// [ActionLogRepository]. The table is append-only: there is no update or
// delete path, and rows keep their acting user nullable so the log outlives
// account removal.
type actionLogRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewActionLogRepository constructs an [ActionLogRepository] backed by the
// provided database connection and logger.
func NewActionLogRepository(db *DB, logger *logger.Logger) ActionLogRepository {
	logger.Debug().Msg("creating action log repository")
	return &actionLogRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes one log entry and returns it with its id and timestamp
// filled in.
func (r *actionLogRepository) Append(ctx context.Context, entry models.ActionLog) (models.ActionLog, error) {
	log := logger.FromContext(ctx)

	payload, err := entry.MarshalPayload()
	if err != nil {
		log.Err(err).Str("func", "*actionLogRepository.Append").Str("action_type", entry.ActionType).Msg("failed to marshal payload")
		return models.ActionLog{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	err = r.db.QueryRowContext(ctx, appendActionLog, entry.UserID, entry.TargetID, entry.ActionType, payload).
		Scan(&entry.LogID, &entry.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.ActionLog{}, ErrMissingReference
		}

		log.Err(err).Str("func", "*actionLogRepository.Append").Str("action_type", entry.ActionType).Msg("error inserting log entry")
		return models.ActionLog{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return entry, nil
}

// FindByActionTypes returns every entry whose action type is in actionTypes,
// ordered oldest first with the insertion id as tiebreaker. Callers fold
// over the stream to reconstruct histories.
func (r *actionLogRepository) FindByActionTypes(ctx context.Context, actionTypes ...string) ([]models.ActionLog, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildActionLogsByTypesQuery(actionTypes)
	if err != nil {
		log.Err(err).Str("func", "*actionLogRepository.FindByActionTypes").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*actionLogRepository.FindByActionTypes").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.ActionLog, 0, 50)
	for rows.Next() {
		var entry models.ActionLog
		var rawPayload []byte
		if scanErr := rows.Scan(&entry.LogID, &entry.UserID, &entry.TargetID, &entry.ActionType, &entry.CreatedAt, &rawPayload); scanErr != nil {
			log.Err(scanErr).Str("func", "*actionLogRepository.FindByActionTypes").Msg("failed to scan log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		if unmarshalErr := entry.UnmarshalPayload(rawPayload); unmarshalErr != nil {
			log.Err(unmarshalErr).Str("func", "*actionLogRepository.FindByActionTypes").Int64("log_id", entry.LogID).Msg("failed to unmarshal payload")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, unmarshalErr)
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*actionLogRepository.FindByActionTypes").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}
