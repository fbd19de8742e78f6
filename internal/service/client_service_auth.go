package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
)

type clientAuthService struct {
	session    ClientSession
	localStore store.LocalSessionStore
	validate   validators.Validator

	now    func() time.Time
	logger *logger.Logger
}

func NewClientAuthService(sess ClientSession, localStore store.LocalSessionStore, validator validators.Validator, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		session:    sess,
		localStore: localStore,
		validate:   validator,
		now:        time.Now,
		logger:     logger,
	}
}

func (a *clientAuthService) Login(ctx context.Context, creds models.LoginCredentials) (*session.PendingOperation, error) {
	if err := a.validate.Validate(ctx, creds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return a.session.Login(ctx, creds)
}

func (a *clientAuthService) Register(ctx context.Context, creds models.RegisterCredentials) (*session.PendingOperation, error) {
	if err := a.validate.Validate(ctx, creds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return a.session.Register(ctx, creds)
}

// ResumeSaved drops a stored token that has already expired instead of
// sending it.
func (a *clientAuthService) ResumeSaved(ctx context.Context) (*session.PendingOperation, error) {
	saved, err := a.localStore.LoadLocalSession(ctx)
	if errors.Is(err, store.ErrLocalSessionNotFound) {
		return nil, ErrNoSavedSession
	}
	if err != nil {
		return nil, fmt.Errorf("error loading saved session: %w", err)
	}

	expiresAt, err := utils.SessionTokenExpiry(saved.SessionID)
	if err != nil || !a.now().Before(expiresAt) {
		a.logger.Info().Str("username", saved.Username).Msg("saved session expired, clearing")
		a.clear(ctx)
		return nil, ErrNoSavedSession
	}

	return a.session.Resume(ctx, saved.SessionID)
}

func (a *clientAuthService) Lookup(ctx context.Context, identifier string) (*session.PendingOperation, error) {
	if err := a.validate.Validate(ctx, models.IdentifierQuery{Identifier: identifier}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return a.session.Lookup(ctx, identifier)
}

// Await saves the token of a successful login, register or resume and
// forgets it when the server rejects a resume. A timed out or cancelled
// resume keeps the token for the next run.
func (a *clientAuthService) Await(ctx context.Context, op *session.PendingOperation) (session.Outcome, error) {
	select {
	case <-op.Done():
	case <-ctx.Done():
		return session.Outcome{}, ctx.Err()
	}

	outcome, _ := op.Outcome()
	if !op.Kind.IsIdentity() {
		return outcome, nil
	}

	switch {
	case outcome.Status == session.OutcomeSucceeded && outcome.User != nil:
		saveErr := a.localStore.SaveLocalSession(ctx, models.LocalSession{
			SessionID: outcome.SessionID,
			Username:  outcome.User.Username,
			SavedAt:   a.now(),
		})
		if saveErr != nil {
			a.logger.Warn().Err(saveErr).Msg("session token not saved")
		}

	case outcome.Status == session.OutcomeFailed && op.Kind == models.OperationResume:
		a.clear(ctx)
	}

	return outcome, nil
}

func (a *clientAuthService) Acknowledge(ctx context.Context) error {
	return a.session.Acknowledge(ctx)
}

// Logout clears the stored token even when the session was not
// authenticated.
func (a *clientAuthService) Logout(ctx context.Context) error {
	err := a.session.Logout(ctx)
	a.clear(ctx)

	if err != nil && !errors.Is(err, session.ErrNotAuthenticated) {
		return fmt.Errorf("error logging out: %w", err)
	}
	return nil
}

func (a *clientAuthService) clear(ctx context.Context) {
	if err := a.localStore.ClearLocalSession(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("saved session not cleared")
	}
}
