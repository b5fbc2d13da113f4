package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/models"
)

// contactRepository is the SQL-backed implementation of [ContactRepository].
type contactRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewContactRepository constructs a [ContactRepository] backed by the
// provided database connection and logger.
func NewContactRepository(db *DB, logger *logger.Logger) ContactRepository {
	logger.Debug().Msg("creating contact repository")
	return &contactRepository{
		db:     db,
		logger: logger,
	}
}

// CreateContact inserts a one-directional contact row. A duplicate
// (owner, target) pair returns [ErrContactAlreadyExists]; a dangling target
// user returns [ErrMissingReference].
func (r *contactRepository) CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error) {
	log := logger.FromContext(ctx)

	created, err := scanContact(r.db.QueryRowContext(ctx, createContact, contact.OwnerID, contact.ContactUserID, contact.Nickname, contact.Action))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return models.Contact{}, ErrContactAlreadyExists
		case isForeignKeyViolation(err):
			return models.Contact{}, ErrMissingReference
		}

		log.Err(err).
			Str("func", "*contactRepository.CreateContact").
			Int64("user_id", contact.OwnerID).
			Int64("contact_user_id", contact.ContactUserID).
			Msg("error inserting contact")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

// FindContactByID retrieves the contact with the given id, or
// [ErrContactNotFound].
func (r *contactRepository) FindContactByID(ctx context.Context, contactID int64) (models.Contact, error) {
	log := logger.FromContext(ctx)

	contact, err := scanContact(r.db.QueryRowContext(ctx, findContactByID, contactID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, ErrContactNotFound
		}

		log.Err(err).Str("func", "*contactRepository.FindContactByID").Int64("contact_id", contactID).Msg("error: scanning error")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return contact, nil
}

// FindContactsByOwner returns the owner's contacts in creation order.
func (r *contactRepository) FindContactsByOwner(ctx context.Context, ownerID int64) ([]models.Contact, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findContactsByOwner, ownerID)
	if err != nil {
		log.Err(err).Str("func", "*contactRepository.FindContactsByOwner").Int64("user_id", ownerID).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0, 10)
	for rows.Next() {
		contact, scanErr := scanContact(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*contactRepository.FindContactsByOwner").Msg("failed to scan contact row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		contacts = append(contacts, contact)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*contactRepository.FindContactsByOwner").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return contacts, nil
}

// UpdateContact applies a partial update of the contact's nickname and
// free-text action, or returns [ErrContactNotFound].
func (r *contactRepository) UpdateContact(ctx context.Context, update models.ContactUpdate) (models.Contact, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateContactQuery(update)
	if err != nil {
		log.Err(err).Str("func", "*contactRepository.UpdateContact").Int64("contact_id", update.ContactID).Msg("failed to build update query")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, ErrContactNotFound
		}

		log.Err(err).Str("func", "*contactRepository.UpdateContact").Int64("contact_id", update.ContactID).Msg("error executing update")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return updated, nil
}

// DeleteContact removes the contact row and returns its final state, or
// [ErrContactNotFound]. Deleting one direction of a mutual pair breaks the
// mutuality from that moment on.
func (r *contactRepository) DeleteContact(ctx context.Context, contactID int64) (models.Contact, error) {
	log := logger.FromContext(ctx)

	deleted, err := scanContact(r.db.QueryRowContext(ctx, deleteContact, contactID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, ErrContactNotFound
		}

		log.Err(err).Str("func", "*contactRepository.DeleteContact").Int64("contact_id", contactID).Msg("error executing delete")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return deleted, nil
}

// ReciprocalPairExists reports whether both directed contact rows between
// the two users exist right now.
func (r *contactRepository) ReciprocalPairExists(ctx context.Context, userA, userB int64) (bool, error) {
	log := logger.FromContext(ctx)

	var mutual bool
	if err := r.db.QueryRowContext(ctx, reciprocalPairExists, userA, userB).Scan(&mutual); err != nil {
		log.Err(err).
			Str("func", "*contactRepository.ReciprocalPairExists").
			Int64("user_a", userA).
			Int64("user_b", userB).
			Msg("error executing reciprocal pair check")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return mutual, nil
}

func scanContact(row rowScanner) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ContactID,
		&c.OwnerID,
		&c.ContactUserID,
		&c.Nickname,
		&c.Action,
		&c.CreatedAt,
	)
	return c, err
}
