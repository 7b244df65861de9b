// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuGH/streamgate/internal/resilience"
)

// WithBreaker fails lookups fast while cb is open. Only backend faults
// count against the breaker; a missing ticket is a successful lookup.
func WithBreaker(next Store, cb *resilience.CircuitBreaker) Store {
	if cb == nil {
		return next
	}
	return StoreFunc(func(ctx context.Context, id string) (*Ticket, error) {
		var t *Ticket
		err := cb.Execute(func() error {
			var err error
			t, err = next.Resolve(ctx, id)
			return err
		})
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return t, err
	})
}

// isBackendFault reports whether err is worth tripping a breaker for.
func isBackendFault(err error) bool {
	return lookupResult(err) == "error"
}
