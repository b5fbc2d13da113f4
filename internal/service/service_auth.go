package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmercier/noteshare/internal/config"
	"github.com/tmercier/noteshare/internal/logger"
	"github.com/tmercier/noteshare/internal/store"
	"github.com/tmercier/noteshare/internal/utils"
	"github.com/tmercier/noteshare/models"
)

// authService is the concrete implementation of [AuthService].
// It handles user registration, credential verification, and JWT token
// lifecycle using a UserRepository for persistence and bcrypt for password
// hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// actionLogRepository records the registration audit entry.
	actionLogRepository store.ActionLogRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// bcryptCost is the work factor for password hashing; zero selects
	// the bcrypt default.
	bcryptCost int

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given repositories
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, actionLogRepository store.ActionLogRepository, cfg config.Auth, logger *logger.Logger) AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &authService{
		userRepository:      userRepository,
		actionLogRepository: actionLogRepository,
		tokenSignKey:        cfg.TokenSignKey,
		tokenIssuer:         cfg.TokenIssuer,
		tokenDuration:       cfg.TokenDuration,
		bcryptCost:          cost,
		logger:              logger,
	}
}

// RegisterUser creates a new user account.
//
// The username is trimmed and must be 2 to 80 characters; the email is
// lowercase-normalized and must parse as an address. The password is
// hashed with bcrypt before persistence, and a user_registered audit
// entry is appended on success.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - [ErrInvalidUsername], [ErrInvalidEmail] or [ErrInvalidDataProvided]
//     on validation failure.
//   - A wrapped storage error if the repository call fails (e.g. username
//     or email already taken — see [store.ErrUsernameOrEmailTaken]).
func (a *authService) RegisterUser(ctx context.Context, credentials models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	username := strings.TrimSpace(credentials.Username)
	if n := utf8.RuneCountInString(username); n < 2 || n > 80 {
		log.Error().Str("username", username).Msg("invalid username provided")
		return models.User{}, ErrInvalidUsername
	}

	email, err := normalizeEmail(credentials.Email)
	if err != nil {
		log.Error().Str("email", credentials.Email).Msg("invalid email provided")
		return models.User{}, ErrInvalidEmail
	}

	if credentials.Password == "" {
		log.Error().Str("username", username).Msg("empty password provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), a.bcryptCost)
	if err != nil {
		log.Err(err).Str("username", username).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	})
	if err != nil {
		log.Err(err).Str("username", username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	if _, logErr := a.actionLogRepository.Append(ctx, models.ActionLog{
		UserID:     &registeredUser.UserID,
		TargetID:   registeredUser.UserID,
		ActionType: models.ActionUserRegistered,
	}); logErr != nil {
		log.Err(logErr).Int64("user_id", registeredUser.UserID).Msg("failed to append registration log entry")
	}

	return registeredUser, nil
}

// Login authenticates an existing user.
//
// It looks the account up by username and compares the supplied password
// against the stored bcrypt hash.
//
// Returns the authenticated user record or:
//   - [ErrInvalidDataProvided] if username or password is empty.
//   - A wrapped storage error if the repository lookup fails (e.g. user
//     not found — see [store.ErrUserNotFound]).
//   - [ErrWrongPassword] if the password does not match.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	username := strings.TrimSpace(credentials.Username)
	if username == "" || credentials.Password == "" {
		log.Error().Str("username", username).Msg("invalid credentials provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		log.Err(err).Str("username", username).Msg("user search by username failed")
		return models.User{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(credentials.Password)); err != nil {
		log.Error().
			Int64("id", foundUser.UserID).
			Str("username", foundUser.Username).
			Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return foundUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to [utils.ValidateAndParseJWTToken], verifying the signature
// and the issuer claim. Any validation failure (expired, wrong issuer,
// malformed) is normalised to [ErrTokenIsExpired] so that callers do not
// need to inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpired
	}

	return token, nil
}

// normalizeEmail lowercases and validates an email address.
func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
