// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps tickets in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]*Ticket
	now     func() time.Time
}

// NewMemoryStore returns a store seeded with the given tickets.
func NewMemoryStore(seed ...Ticket) *MemoryStore {
	s := &MemoryStore{
		tickets: make(map[string]*Ticket, len(seed)),
		now:     time.Now,
	}
	for i := range seed {
		s.tickets[seed[i].ID] = clone(&seed[i])
	}
	return s
}

// Put stores or replaces a ticket.
func (s *MemoryStore) Put(_ context.Context, t Ticket) error {
	if t.ID == "" {
		return fmt.Errorf("ticket id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID] = clone(&t)
	return nil
}

// Resolve implements Store.
func (s *MemoryStore) Resolve(_ context.Context, id string) (*Ticket, error) {
	s.mu.RLock()
	t, ok := s.tickets[id]
	s.mu.RUnlock()

	if !ok || t.Expired(s.now()) {
		return nil, missing(id)
	}
	return clone(t), nil
}
