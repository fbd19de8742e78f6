package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/migrations"
	"github.com/redis/go-redis/v9"
)

// Storages aggregates the server persistence backends.
type Storages struct {
	Users    UserRepository
	Chats    ChatRepository
	Sessions SessionStore

	db    *DB
	redis *redis.Client
}

// NewStorages connects the database (running the server migrations) and the
// session store. Sessions go to redis when cfg.Redis.Address is set and to
// memory otherwise.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}
	if err = db.Migrate(migrations.ServerSet); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	s := &Storages{
		Users: NewUserRepository(db, log),
		Chats: NewChatRepository(db, log),
		db:    db,
	}

	if cfg.Redis.Address == "" {
		log.Info().Msg("redis address not set, sessions are kept in memory")
		s.Sessions = NewMemorySessionStore()
		return s, nil
	}

	s.redis, err = NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.Sessions = NewRedisSessionStore(s.redis, log)

	return s, nil
}

// Close releases the database and redis connections.
func (s *Storages) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}

	return errors.Join(errs...)
}
