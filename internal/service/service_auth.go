package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/crypto"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
)

// authService is the concrete implementation of AuthService.
// It keeps accounts in a UserRepository, issued sessions in a SessionStore
// and hands clients a signed token naming the stored session.
type authService struct {
	users    store.UserRepository
	sessions store.SessionStore
	hasher   crypto.PasswordHasher
	validate validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify session tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected.
	tokenIssuer string

	// sessionTTL controls how long a newly issued session remains valid.
	sessionTTL time.Duration

	now   func() time.Time
	newID func() string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given stores and
// populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(
	users store.UserRepository,
	sessions store.SessionStore,
	hasher crypto.PasswordHasher,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	return &authService{
		users:        users,
		sessions:     sessions,
		hasher:       hasher,
		validate:     validator,
		tokenSignKey: cfg.TokenSignKey,
		tokenIssuer:  cfg.TokenIssuer,
		sessionTTL:   cfg.SessionTTL,
		now:          time.Now,
		newID:        utils.NewUUIDGenerator().Generate,
		logger:       logger,
	}
}

// Register creates a new account and opens a session for it.
//
// Returns:
//   - ErrInvalidDataProvided wrapping the validation error for bad input.
//   - A wrapped store.ErrUsernameTaken or store.ErrEmailTaken on collision.
func (a *authService) Register(ctx context.Context, creds models.RegisterCredentials) (models.Authentication, error) {
	log := logger.FromContext(ctx)

	if err := a.validate.Validate(ctx, creds); err != nil {
		log.Debug().Err(err).Str("username", creds.Username).Msg("invalid register data")
		return models.Authentication{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	hash, err := a.hasher.Hash(creds.Password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.Authentication{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user, err := a.users.CreateUser(ctx, models.User{
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: hash,
	})
	if err != nil {
		log.Err(err).Str("username", creds.Username).Msg("user creation ended with error")
		return models.Authentication{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Str("username", user.Username).Msg("user registered")

	return a.openSession(ctx, user)
}

// Login authenticates an existing account by username or e-mail.
//
// An unknown identifier and a wrong password both yield
// ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, creds models.LoginCredentials) (models.Authentication, error) {
	log := logger.FromContext(ctx)

	if err := a.validate.Validate(ctx, creds); err != nil {
		log.Debug().Err(err).Str("identifier", creds.Identifier).Msg("invalid login data")
		return models.Authentication{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := a.findUser(ctx, creds.Identifier)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Info().Str("identifier", creds.Identifier).Msg("login for unknown identifier")
		return models.Authentication{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("identifier", creds.Identifier).Msg("user search failed")
		return models.Authentication{}, fmt.Errorf("user search failed: %w", err)
	}

	if err = a.hasher.Compare(user.PasswordHash, creds.Password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			log.Info().Int64("user_id", user.UserID).Msg("wrong password")
			return models.Authentication{}, ErrInvalidCredentials
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("password comparison failed")
		return models.Authentication{}, fmt.Errorf("password comparison failed: %w", err)
	}

	return a.openSession(ctx, user)
}

// Resume checks the token signature and that the session it names is still
// stored. Any mismatch is reported as ErrSessionExpired.
func (a *authService) Resume(ctx context.Context, creds models.SessionCredentials) (models.Authentication, error) {
	log := logger.FromContext(ctx)

	if err := a.validate.Validate(ctx, creds); err != nil {
		return models.Authentication{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	token, err := utils.ValidateSessionToken(creds.SessionID, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Info().Err(err).Msg("session token rejected")
		return models.Authentication{}, ErrSessionExpired
	}

	stored, err := a.sessions.GetSession(ctx, token.SessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		log.Info().Str("session_id", token.SessionID).Msg("session is gone")
		return models.Authentication{}, ErrSessionExpired
	}
	if err != nil {
		log.Err(err).Str("session_id", token.SessionID).Msg("session lookup failed")
		return models.Authentication{}, fmt.Errorf("session lookup failed: %w", err)
	}

	if stored.UserID != token.UserID || stored.Expired(a.now()) {
		log.Warn().
			Str("session_id", token.SessionID).
			Int64("token_user_id", token.UserID).
			Int64("stored_user_id", stored.UserID).
			Msg("session does not match token")
		return models.Authentication{}, ErrSessionExpired
	}

	return models.Authentication{
		User:      stored.Identity(),
		SessionID: creds.SessionID,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

func (a *authService) Lookup(ctx context.Context, query models.IdentifierQuery) (*models.Identity, error) {
	log := logger.FromContext(ctx)

	if err := a.validate.Validate(ctx, query); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := a.findUser(ctx, query.Identifier)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("identifier", query.Identifier).Msg("user search failed")
		return nil, fmt.Errorf("user search failed: %w", err)
	}

	identity := user.Identity()
	return &identity, nil
}

func (a *authService) Logout(ctx context.Context, creds models.SessionCredentials) error {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateSessionToken(creds.SessionID, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Debug().Err(err).Msg("logout with unusable token ignored")
		return nil
	}

	if err = a.sessions.DeleteSession(ctx, token.SessionID); err != nil {
		log.Err(err).Str("session_id", token.SessionID).Msg("session revoke failed")
		return fmt.Errorf("session revoke failed: %w", err)
	}

	log.Info().Int64("user_id", token.UserID).Str("session_id", token.SessionID).Msg("session revoked")
	return nil
}

func (a *authService) findUser(ctx context.Context, identifier string) (models.User, error) {
	if models.IsEmailIdentifier(identifier) {
		return a.users.FindUserByEmail(ctx, identifier)
	}
	return a.users.FindUserByUsername(ctx, identifier)
}

// openSession stores a new session for user and signs its token.
func (a *authService) openSession(ctx context.Context, user models.User) (models.Authentication, error) {
	sessionID := a.newID()

	token, err := utils.GenerateSessionToken(a.tokenIssuer, user.UserID, sessionID, a.sessionTTL, a.tokenSignKey)
	if err != nil {
		return models.Authentication{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	err = a.sessions.SaveSession(ctx, models.Session{
		SessionID: sessionID,
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: token.IssuedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", user.UserID).Msg("session save failed")
		return models.Authentication{}, fmt.Errorf("session save failed: %w", err)
	}

	log := logger.FromContext(ctx).Info().Int64("user_id", user.UserID).Str("session_id", sessionID)
	if connID, ok := utils.GetConnIDFromContext(ctx); ok {
		log = log.Str("conn_id", connID)
	}
	log.Msg("session opened")

	return models.Authentication{
		User:      user.Identity(),
		SessionID: token.SignedString,
		ExpiresAt: token.ExpiresAt,
	}, nil
}
