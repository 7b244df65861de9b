// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package content

import (
	"context"
	"time"

	"github.com/ManuGH/streamgate/internal/cache"
	"github.com/ManuGH/streamgate/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Cached memoizes a Lookup for ttl, including "no content" answers.
// Errors are not cached. Concurrent lookups of one id share a listing.
type Cached struct {
	next  Lookup
	ttl   time.Duration
	cache cache.Cache[[]Resource]
	group singleflight.Group
}

// NewCached wraps next with c.
func NewCached(next Lookup, c cache.Cache[[]Resource], ttl time.Duration) *Cached {
	if c == nil || ttl <= 0 {
		c = cache.NoOp[[]Resource]{}
	}
	return &Cached{next: next, ttl: ttl, cache: c}
}

// Name implements Lookup.
func (c *Cached) Name() string { return c.next.Name() }

// Type implements Lookup.
func (c *Cached) Type() DeliveryType { return c.next.Type() }

// Resolve implements Lookup.
func (c *Cached) Resolve(ctx context.Context, id string) ([]Resource, error) {
	key := Clean(id)

	if res, ok := c.cache.Get(key); ok {
		metrics.RecordCacheEvent("content", "hit")
		return cloneResources(res), nil
	}
	metrics.RecordCacheEvent("content", "miss")

	v, err, shared := c.group.Do(key, func() (any, error) {
		res, err := c.next.Resolve(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, res, c.ttl)
		return res, nil
	})
	if shared {
		metrics.RecordCacheEvent("content", "shared")
	}
	if err != nil {
		return nil, err
	}
	return cloneResources(v.([]Resource)), nil
}

func cloneResources(in []Resource) []Resource {
	if in == nil {
		return nil
	}
	out := make([]Resource, len(in))
	for i, r := range in {
		out[i] = Resource{Type: r.Type, URIs: append([]string(nil), r.URIs...)}
	}
	return out
}
