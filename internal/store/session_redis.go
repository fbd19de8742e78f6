package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/models"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "whispee:session:"
	// sessionIndexKey is a sorted set of session ids scored by expiry.
	sessionIndexKey = "whispee:sessions:expiry"
)

// redisSessionStore keeps every session as a JSON value with a TTL, plus an
// expiry index used by DeleteExpired.
type redisSessionStore struct {
	client *redis.Client
	logger *logger.Logger
	now    func() time.Time
}

// NewRedisClient connects to the redis server described by cfg and pings it.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Info().
		Str("func", "NewRedisClient").
		Str("addr", cfg.Address).
		Int("db", cfg.DB).
		Msg("connected to redis")

	return client, nil
}

// NewRedisSessionStore returns a [SessionStore] backed by client.
func NewRedisSessionStore(client *redis.Client, log *logger.Logger) SessionStore {
	return &redisSessionStore{client: client, logger: log, now: time.Now}
}

func (r *redisSessionStore) SaveSession(ctx context.Context, session models.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", session.SessionID)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.SessionID, payload, ttl)
	pipe.ZAdd(ctx, sessionIndexKey, redis.Z{
		Score:  float64(session.ExpiresAt.Unix()),
		Member: session.SessionID,
	})
	if _, err = pipe.Exec(ctx); err != nil {
		r.logger.Err(err).Str("func", "*redisSessionStore.SaveSession").Msg("redis set failed")
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func (r *redisSessionStore) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	payload, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("get session: %w", err)
	}

	var session models.Session
	if err = json.Unmarshal(payload, &session); err != nil {
		r.logger.Warn().Err(err).Str("func", "*redisSessionStore.GetSession").Msg("corrupt session value")
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if session.Expired(r.now()) {
		return models.Session{}, ErrSessionNotFound
	}

	return session, nil
}

func (r *redisSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+sessionID)
	pipe.ZRem(ctx, sessionIndexKey, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteExpired drops index entries (and any value still around) of
// sessions that expired before now. Redis expires the values on its own.
func (r *redisSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := r.client.ZRangeByScore(ctx, sessionIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list expired sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids))
	members := make([]any, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
		members = append(members, id)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, sessionIndexKey, members...)
	if _, err = pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return len(ids), nil
}
