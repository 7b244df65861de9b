// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"time"
)

// WithTimeout bounds every Resolve on next by d. A slow backend then counts
// as a failed lookup instead of stalling the streaming host's callback.
// A non-positive d returns next unchanged.
func WithTimeout(next Store, d time.Duration) Store {
	if d <= 0 {
		return next
	}
	return StoreFunc(func(ctx context.Context, id string) (*Ticket, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Resolve(ctx, id)
	})
}
