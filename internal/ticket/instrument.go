// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/ManuGH/streamgate/internal/metrics"
)

// Instrumented records lookup latency per backend.
type Instrumented struct {
	next    Store
	backend string
	now     func() time.Time
}

// Instrument wraps next so every lookup is observed under backend.
func Instrument(next Store, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend, now: time.Now}
}

// Resolve implements Store.
func (i *Instrumented) Resolve(ctx context.Context, id string) (*Ticket, error) {
	start := i.now()
	t, err := i.next.Resolve(ctx, id)
	metrics.ObserveTicketLookup(i.backend, lookupResult(err), i.now().Sub(start))
	return t, err
}

// lookupResult tells a plain miss from a backend fault. Backend misses
// carry errMiss at any wrapping depth. A bare ErrNotFound, or one wrapped
// once with detail text, also counts as a miss for stores outside this
// package. Faults wrap ErrNotFound together with their cause.
func lookupResult(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, errMiss), err == ErrNotFound, errors.Unwrap(err) == ErrNotFound:
		return "not_found"
	default:
		return "error"
	}
}
