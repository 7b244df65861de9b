// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ManuGH/streamgate/internal/cache"
	"github.com/ManuGH/streamgate/internal/persistence/sqlite"
	"github.com/ManuGH/streamgate/internal/resilience"
	"github.com/rs/zerolog"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Options selects and configures a ticket backend.
type Options struct {
	Backend string
	Redis   RedisConfig
	// Path is the badger directory or sqlite file.
	Path string
	HTTP HTTPConfig
	// CacheTTL enables the in-process cache in front of the backend.
	CacheTTL time.Duration
	// LookupTimeout bounds a single backend lookup; 0 leaves it to the caller.
	LookupTimeout time.Duration
	// BreakerThreshold opens the circuit breaker of a remote backend (redis,
	// http) after that many consecutive faults; 0 disables the breaker.
	BreakerThreshold int
	BreakerReset     time.Duration
	// Seed preloads the memory backend.
	Seed []Ticket
}

// Opened is a ready Store plus the resources backing it.
type Opened struct {
	Store   Store
	closers []io.Closer
	stop    func()
	health  func(context.Context) error
	breaker *resilience.CircuitBreaker
}

// Close releases backend connections and stops the cache janitor.
func (o *Opened) Close() error {
	if o.stop != nil {
		o.stop()
	}
	var firstErr error
	for _, c := range o.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ping reports backend reachability. Backends without a remote dependency
// are always healthy; an open breaker counts as unreachable.
func (o *Opened) Ping(ctx context.Context) error {
	if o.breaker != nil && o.breaker.State() == resilience.StateOpen {
		return resilience.ErrCircuitOpen
	}
	if o.health == nil {
		return nil
	}
	return o.health(ctx)
}

// Open builds the configured backend, wrapped with lookup metrics and, if
// CacheTTL is set, the coalescing cache.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (*Opened, error) {
	out := &Opened{}
	var base Store
	remote := false

	switch opts.Backend {
	case "", BackendMemory:
		opts.Backend = BackendMemory
		base = NewMemoryStore(opts.Seed...)
	case BackendRedis:
		rs, err := NewRedisStore(opts.Redis, logger)
		if err != nil {
			return nil, err
		}
		base = rs
		remote = true
		out.closers = append(out.closers, rs)
		out.health = rs.HealthCheck
	case BackendBadger:
		bs, err := OpenBadgerStore(opts.Path)
		if err != nil {
			return nil, err
		}
		base = bs
		out.closers = append(out.closers, bs)
	case BackendSQLite:
		db, err := sqlite.Open(opts.Path, sqlite.DefaultConfig())
		if err != nil {
			return nil, err
		}
		ss := NewSQLStore(db)
		if err := ss.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		base = ss
		out.closers = append(out.closers, db)
		out.health = func(ctx context.Context) error {
			issues, err := sqlite.QuickCheck(ctx, db)
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				return fmt.Errorf("sqlite integrity: %v", issues)
			}
			return nil
		}
	case BackendHTTP:
		hs, err := NewHTTPStore(opts.HTTP, logger)
		if err != nil {
			return nil, err
		}
		base = hs
		remote = true
	default:
		return nil, fmt.Errorf("unknown ticket backend %q", opts.Backend)
	}

	guarded := WithTimeout(base, opts.LookupTimeout)
	if remote && opts.BreakerThreshold > 0 {
		out.breaker = resilience.NewCircuitBreaker("tickets_"+opts.Backend,
			opts.BreakerThreshold, opts.BreakerReset,
			resilience.WithFailurePredicate(isBackendFault))
		guarded = WithBreaker(guarded, out.breaker)
	}
	store := Store(Instrument(guarded, opts.Backend))
	if opts.CacheTTL > 0 {
		mem := cache.NewMemory[*Ticket](opts.CacheTTL * 4)
		out.stop = mem.Stop
		store = NewCached(store, mem, opts.CacheTTL)
	}
	out.Store = store

	logger.Info().
		Str("backend", opts.Backend).
		Dur("cache_ttl", opts.CacheTTL).
		Dur("lookup_timeout", opts.LookupTimeout).
		Bool("breaker", out.breaker != nil).
		Msg("ticket store ready")
	return out, nil
}
