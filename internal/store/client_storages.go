package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/migrations"
)

// ClientStorages aggregates the client persistence backends.
type ClientStorages struct {
	LocalSessions LocalSessionStore

	db *DB
}

// NewClientStorages opens the local SQLite database and runs the client
// migrations.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(migrations.ClientSet); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		LocalSessions: NewLocalSessionRepository(db, logger),
		db:            db,
	}, nil
}

// Close closes the local database.
func (c *ClientStorages) Close() error {
	return c.db.Close()
}
