package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/models"
)

// localSessionRepository is the SQLite implementation of
// [LocalSessionStore]. The table holds at most one row.
type localSessionRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewLocalSessionRepository constructs a [LocalSessionStore] over db.
func NewLocalSessionRepository(db *DB, logger *logger.Logger) LocalSessionStore {
	return &localSessionRepository{db: db, logger: logger}
}

func (l *localSessionRepository) SaveLocalSession(ctx context.Context, session models.LocalSession) error {
	if _, err := l.db.ExecContext(ctx, saveLocalSession, session.SessionID, session.Username, session.SavedAt.UTC()); err != nil {
		l.logger.Err(err).Str("func", "*localSessionRepository.SaveLocalSession").Msg("error saving local session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (l *localSessionRepository) LoadLocalSession(ctx context.Context) (models.LocalSession, error) {
	var session models.LocalSession

	err := l.db.QueryRowContext(ctx, loadLocalSession).Scan(&session.SessionID, &session.Username, &session.SavedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.LocalSession{}, ErrLocalSessionNotFound
	case err != nil:
		l.logger.Err(err).Str("func", "*localSessionRepository.LoadLocalSession").Msg("error loading local session")
		return models.LocalSession{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return session, nil
}

func (l *localSessionRepository) ClearLocalSession(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, clearLocalSession); err != nil {
		l.logger.Err(err).Str("func", "*localSessionRepository.ClearLocalSession").Msg("error clearing local session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
