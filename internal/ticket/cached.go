// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"time"

	"github.com/ManuGH/streamgate/internal/cache"
	"github.com/ManuGH/streamgate/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const cacheName = "ticket"

// Cached fronts a Store with a short TTL cache. Concurrent lookups of the
// same id share one backend call. Misses are never cached, so a ticket
// minted a moment ago is visible on the next request.
type Cached struct {
	next  Store
	ttl   time.Duration
	cache cache.Cache[*Ticket]
	group singleflight.Group
	now   func() time.Time
}

// NewCached wraps next. A non-positive ttl disables caching but keeps
// request coalescing.
func NewCached(next Store, c cache.Cache[*Ticket], ttl time.Duration) *Cached {
	if c == nil || ttl <= 0 {
		c = cache.NoOp[*Ticket]{}
	}
	return &Cached{next: next, ttl: ttl, cache: c, now: time.Now}
}

// Resolve implements Store.
func (c *Cached) Resolve(ctx context.Context, id string) (*Ticket, error) {
	if t, ok := c.cache.Get(id); ok {
		if !t.Expired(c.now()) {
			metrics.RecordCacheEvent(cacheName, "hit")
			return clone(t), nil
		}
		c.cache.Delete(id)
	}
	metrics.RecordCacheEvent(cacheName, "miss")

	// The shared call must not fail for every waiter because the first
	// caller went away. The store chain applies its own lookup timeout.
	v, err, shared := c.group.Do(id, func() (any, error) {
		t, err := c.next.Resolve(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		c.cache.Set(id, clone(t), c.entryTTL(t))
		return t, nil
	})
	if shared {
		metrics.RecordCacheEvent(cacheName, "shared")
	}
	if err != nil {
		return nil, err
	}
	return clone(v.(*Ticket)), nil
}

// entryTTL never lets a cached ticket outlive its own expiry.
func (c *Cached) entryTTL(t *Ticket) time.Duration {
	ttl := c.ttl
	if left := ttlUntil(t.ExpiresAt, c.now()); left > 0 && left < ttl {
		ttl = left
	}
	return ttl
}
