// SPDX-License-Identifier: MIT

package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xglog "github.com/ManuGH/streamgate/internal/log"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisPrefix namespaces ticket keys shared with the ticket service.
const DefaultRedisPrefix = "ticket:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
	Prefix   string // Key prefix, defaults to DefaultRedisPrefix
}

// RedisStore reads tickets the ticket service published to Redis as JSON.
// Key expiry in Redis is the ticket lifetime.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis ticket store")

	return newRedisStore(client, cfg.Prefix, logger), nil
}

func newRedisStore(client *redis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve implements Store.
func (s *RedisStore) Resolve(ctx context.Context, id string) (*Ticket, error) {
	val, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, missing(id)
	}
	if err != nil {
		logger := lookupLogger(ctx, s.logger, id)
		logger.Warn().Err(err).Msg("redis get failed")
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var t Ticket
	if err := json.Unmarshal(val, &t); err != nil {
		logger := lookupLogger(ctx, s.logger, id)
		logger.Warn().Err(err).Msg("ticket json unmarshal failed")
		return nil, fmt.Errorf("%w: decode: %w", ErrNotFound, err)
	}
	if t.ID == "" {
		t.ID = id
	}
	if t.Expired(s.now()) {
		return nil, expired(id)
	}
	return &t, nil
}

// Put writes a ticket with a key TTL derived from ExpiresAt.
func (s *RedisStore) Put(ctx context.Context, t Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	ttl := ttlUntil(t.ExpiresAt, s.now())
	if ttl < 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+t.ID, data, ttl).Err()
}

// HealthCheck checks if Redis is available.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// lookupLogger carries the request and ticket IDs of ctx, adding id when
// the caller did not set one.
func lookupLogger(ctx context.Context, base zerolog.Logger, id string) zerolog.Logger {
	if xglog.TicketIDFromContext(ctx) == "" {
		ctx = xglog.ContextWithTicketID(ctx, id)
	}
	return xglog.WithContext(ctx, base)
}
