package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired      = errors.New("token is expired")
	ErrTokenCreationFailed = errors.New("token creation failed")

	ErrInvalidUsername = errors.New("username must be 2 to 80 characters")
	ErrInvalidEmail    = errors.New("invalid email address")

	ErrEmptyContent   = errors.New("note content must not be empty")
	ErrContentTooLong = errors.New("note content exceeds maximum length")

	ErrInvalidStatus = errors.New("unknown recipient status")

	// ErrForbidden covers every authorization failure: acting on a note
	// one is neither creator nor recipient of, recipient-only or
	// creator-only operations invoked by the wrong role, assigning to a
	// non-mutual contact, self-assignment.
	ErrForbidden = errors.New("operation not allowed for this user")
)
