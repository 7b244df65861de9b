// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ticket defines playback tickets and the stores that resolve them.
//
// Tickets are minted by an external ticket service. This package only reads
// them; Put methods on concrete backends exist for seeding and tests.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a ticket is absent, expired or the backend
// could not be queried. Callers never need to tell these apart.
var ErrNotFound = errors.New("ticket not found")

// errMiss marks an ErrNotFound where the backend answered and had no usable
// ticket. It survives any amount of further wrapping, so metrics and the
// circuit breaker can tell a miss from a fault.
var errMiss = errors.New("no such ticket")

// missing is the error backends return for an absent ticket.
func missing(id string) error {
	return fmt.Errorf("%w: %w: %s", ErrNotFound, errMiss, id)
}

// expired is the error backends return for a ticket past its deadline.
func expired(id string) error {
	return fmt.Errorf("%w: %w: %s expired", ErrNotFound, errMiss, id)
}

// Ticket is a short-lived grant binding a client identity to content.
type Ticket struct {
	ID string `json:"id"`
	// UserIdentifier is the identity the ticket was issued to, in practice the client IP.
	UserIdentifier string `json:"userIdentifier"`
	// Type is the presentation type the ticket is valid for (e.g. "Stream").
	Type string `json:"type,omitempty"`
	// Resources lists the content the ticket grants. Entries may carry extra
	// URI decoration around the bare content identifier.
	Resources []string `json:"resources,omitempty"`
	// ExpiresAt is enforced by stores only. Zero means no expiry.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the ticket has a deadline that lies before now.
func (t *Ticket) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Resource returns the first granted resource, or "" when there is none.
func (t *Ticket) Resource() string {
	if len(t.Resources) == 0 {
		return ""
	}
	return t.Resources[0]
}

// Store resolves tickets by identifier.
type Store interface {
	// Resolve returns the ticket for id or an error wrapping ErrNotFound.
	Resolve(ctx context.Context, id string) (*Ticket, error)
}

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context, id string) (*Ticket, error)

// Resolve calls f.
func (f StoreFunc) Resolve(ctx context.Context, id string) (*Ticket, error) {
	return f(ctx, id)
}

func clone(t *Ticket) *Ticket {
	if t == nil {
		return nil
	}
	out := *t
	out.Resources = append([]string(nil), t.Resources...)
	return &out
}

func ttlUntil(expiresAt, now time.Time) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}
	return expiresAt.Sub(now)
}
