// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore is an embedded local ticket cache, typically filled by a sync
// job from the ticket service. Entries carry a Badger TTL matching ExpiresAt.
//
// key = "ticket:<id>" (JSON)
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadgerStore opens (or creates) a Badger database at path.
// An empty path opens an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger ticket store: %w", err)
	}
	return &BadgerStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error { return s.db.Close() }

func badgerKey(id string) []byte { return []byte("ticket:" + id) }

// Put stores a ticket. Already expired tickets are ignored.
func (s *BadgerStore) Put(_ context.Context, t Ticket) error {
	buf, err := json.Marshal(t)
	if err != nil {
		return err
	}
	ttl := ttlUntil(t.ExpiresAt, s.now())
	if ttl < 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(badgerKey(t.ID), buf)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Resolve implements Store.
func (s *BadgerStore) Resolve(_ context.Context, id string) (*Ticket, error) {
	var out Ticket
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, missing(id)
		}
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if out.Expired(s.now()) {
		return nil, expired(id)
	}
	return &out, nil
}
