package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/store"
	"github.com/tmercier/noteshare/models"
)

// contactService is the concrete implementation of [ContactService].
//
// Mutuality is always computed from the two directed rows at call time;
// nothing here caches or stores it, so creating or deleting either
// direction takes effect immediately.
type contactService struct {
	contactRepository   store.ContactRepository
	userRepository      store.UserRepository
	actionLogRepository store.ActionLogRepository
	logger              *logger.Logger
}

// NewContactService constructs a [ContactService] over the given
// repositories.
func NewContactService(contactRepository store.ContactRepository, userRepository store.UserRepository, actionLogRepository store.ActionLogRepository, logger *logger.Logger) ContactService {
	return &contactService{
		contactRepository:   contactRepository,
		userRepository:      userRepository,
		actionLogRepository: actionLogRepository,
		logger:              logger,
	}
}

// CreateContact adds a one-directional contact entry owned by ownerID.
// The nickname is required; the target user must exist.
func (s *contactService) CreateContact(ctx context.Context, ownerID int64, contact models.Contact) (models.ContactView, error) {
	log := logger.FromContext(ctx)

	contact.OwnerID = ownerID
	contact.Nickname = strings.TrimSpace(contact.Nickname)
	if contact.Nickname == "" || contact.ContactUserID == 0 {
		log.Error().Int64("user_id", ownerID).Msg("invalid contact data provided")
		return models.ContactView{}, ErrInvalidDataProvided
	}

	if _, err := s.userRepository.FindUserByID(ctx, contact.ContactUserID); err != nil {
		log.Err(err).Int64("contact_user_id", contact.ContactUserID).Msg("contact target lookup failed")
		return models.ContactView{}, fmt.Errorf("contact target lookup failed: %w", err)
	}

	created, err := s.contactRepository.CreateContact(ctx, contact)
	if err != nil {
		log.Err(err).Int64("user_id", ownerID).Int64("contact_user_id", contact.ContactUserID).Msg("contact creation ended with error")
		return models.ContactView{}, fmt.Errorf("contact creation ended with error: %w", err)
	}

	s.appendLog(ctx, ownerID, created.ContactID, models.ActionContactCreated, models.ActionPayload{
		AffectedUserID: created.ContactUserID,
	})

	return s.annotate(ctx, created)
}

// ListContacts returns the owner's address book: a synthetic self entry
// first (always mutual, never stored), then every owned contact row in
// creation order, each annotated with its derived mutuality.
func (s *contactService) ListContacts(ctx context.Context, ownerID int64) ([]models.ContactView, error) {
	log := logger.FromContext(ctx)

	owner, err := s.userRepository.FindUserByID(ctx, ownerID)
	if err != nil {
		log.Err(err).Int64("user_id", ownerID).Msg("owner lookup failed")
		return nil, fmt.Errorf("owner lookup failed: %w", err)
	}

	contacts, err := s.contactRepository.FindContactsByOwner(ctx, ownerID)
	if err != nil {
		log.Err(err).Int64("user_id", ownerID).Msg("contact listing failed")
		return nil, fmt.Errorf("contact listing failed: %w", err)
	}

	views := make([]models.ContactView, 0, len(contacts)+1)
	views = append(views, models.ContactView{
		Contact: models.Contact{
			OwnerID:       owner.UserID,
			ContactUserID: owner.UserID,
			Nickname:      models.SelfContactNickname,
			CreatedAt:     owner.CreatedAt,
		},
		IsMutual: true,
		IsSelf:   true,
	})

	for _, contact := range contacts {
		view, annotateErr := s.annotate(ctx, contact)
		if annotateErr != nil {
			return nil, annotateErr
		}
		views = append(views, view)
	}

	return views, nil
}

// ListAssignableUsers returns the users ownerID may assign notes to: the
// owner itself first (self-assignment needs no reciprocity), then every
// mutual contact in creation order.
func (s *contactService) ListAssignableUsers(ctx context.Context, userID int64) ([]models.UserRef, error) {
	log := logger.FromContext(ctx)

	self, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user lookup failed")
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	contacts, err := s.contactRepository.FindContactsByOwner(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("contact listing failed")
		return nil, fmt.Errorf("contact listing failed: %w", err)
	}

	mutualIDs := make([]int64, 0, len(contacts))
	for _, contact := range contacts {
		mutual, mutualErr := s.contactRepository.ReciprocalPairExists(ctx, userID, contact.ContactUserID)
		if mutualErr != nil {
			return nil, fmt.Errorf("mutuality check failed: %w", mutualErr)
		}
		if mutual {
			mutualIDs = append(mutualIDs, contact.ContactUserID)
		}
	}

	users, err := s.userRepository.FindUsersByIDs(ctx, mutualIDs)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("mutual user lookup failed")
		return nil, fmt.Errorf("mutual user lookup failed: %w", err)
	}
	usersByID := make(map[int64]models.User, len(users))
	for _, user := range users {
		usersByID[user.UserID] = user
	}

	refs := make([]models.UserRef, 0, len(mutualIDs)+1)
	refs = append(refs, models.UserRef{UserID: self.UserID, Username: self.Username})
	for _, id := range mutualIDs {
		if user, ok := usersByID[id]; ok {
			refs = append(refs, models.UserRef{UserID: user.UserID, Username: user.Username})
		}
	}

	return refs, nil
}

// UpdateContact changes the nickname and/or free-text action of an owned
// contact. Owner-only.
func (s *contactService) UpdateContact(ctx context.Context, ownerID int64, update models.ContactUpdate) (models.ContactView, error) {
	log := logger.FromContext(ctx)

	existing, err := s.contactRepository.FindContactByID(ctx, update.ContactID)
	if err != nil {
		log.Err(err).Int64("contact_id", update.ContactID).Msg("contact lookup failed")
		return models.ContactView{}, fmt.Errorf("contact lookup failed: %w", err)
	}
	if existing.OwnerID != ownerID {
		log.Error().Int64("contact_id", update.ContactID).Int64("user_id", ownerID).Msg("contact update by non-owner rejected")
		return models.ContactView{}, ErrForbidden
	}

	if update.Nickname != nil {
		trimmed := strings.TrimSpace(*update.Nickname)
		if trimmed == "" {
			return models.ContactView{}, ErrInvalidDataProvided
		}
		update.Nickname = &trimmed
	}
	if update.Nickname == nil && update.Action == nil {
		return models.ContactView{}, ErrInvalidDataProvided
	}

	updated, err := s.contactRepository.UpdateContact(ctx, update)
	if err != nil {
		log.Err(err).Int64("contact_id", update.ContactID).Msg("contact update ended with error")
		return models.ContactView{}, fmt.Errorf("contact update ended with error: %w", err)
	}

	s.appendLog(ctx, ownerID, updated.ContactID, models.ActionContactUpdated, models.ActionPayload{
		AffectedUserID: updated.ContactUserID,
		NewValue:       updated.Nickname,
	})

	return s.annotate(ctx, updated)
}

// DeleteContact removes an owned contact entry. Owner-only. Removing one
// direction of a mutual pair ends the mutuality immediately.
func (s *contactService) DeleteContact(ctx context.Context, ownerID, contactID int64) (models.ContactView, error) {
	log := logger.FromContext(ctx)

	existing, err := s.contactRepository.FindContactByID(ctx, contactID)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact lookup failed")
		return models.ContactView{}, fmt.Errorf("contact lookup failed: %w", err)
	}
	if existing.OwnerID != ownerID {
		log.Error().Int64("contact_id", contactID).Int64("user_id", ownerID).Msg("contact deletion by non-owner rejected")
		return models.ContactView{}, ErrForbidden
	}

	deleted, err := s.contactRepository.DeleteContact(ctx, contactID)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact deletion ended with error")
		return models.ContactView{}, fmt.Errorf("contact deletion ended with error: %w", err)
	}

	s.appendLog(ctx, ownerID, deleted.ContactID, models.ActionContactDeleted, models.ActionPayload{
		AffectedUserID: deleted.ContactUserID,
	})

	return models.ContactView{Contact: deleted}, nil
}

// IsMutual reports whether ownerID and targetID have each added the other.
func (s *contactService) IsMutual(ctx context.Context, ownerID, targetID int64) (bool, error) {
	return s.contactRepository.ReciprocalPairExists(ctx, ownerID, targetID)
}

// annotate attaches the derived mutuality flag to a stored contact row.
func (s *contactService) annotate(ctx context.Context, contact models.Contact) (models.ContactView, error) {
	mutual, err := s.contactRepository.ReciprocalPairExists(ctx, contact.OwnerID, contact.ContactUserID)
	if err != nil {
		return models.ContactView{}, fmt.Errorf("mutuality check failed: %w", err)
	}

	return models.ContactView{Contact: contact, IsMutual: mutual}, nil
}

// appendLog records an audit entry, logging but not propagating a failure:
// the mutation itself already committed.
func (s *contactService) appendLog(ctx context.Context, actorID, targetID int64, actionType string, payload models.ActionPayload) {
	if _, err := s.actionLogRepository.Append(ctx, models.ActionLog{
		UserID:     &actorID,
		TargetID:   targetID,
		ActionType: actionType,
		Payload:    payload,
	}); err != nil {
		logger.FromContext(ctx).Err(err).Str("action_type", actionType).Int64("target_id", targetID).Msg("failed to append audit log entry")
	}
}
