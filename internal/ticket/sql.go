// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS tickets (
	id              TEXT PRIMARY KEY,
	user_identifier TEXT NOT NULL,
	type            TEXT NOT NULL DEFAULT '',
	resources       TEXT NOT NULL DEFAULT '[]',
	expires_at      INTEGER NOT NULL DEFAULT 0
);`

// SQLStore reads tickets from a SQL table, typically a SQLite replica
// opened through internal/persistence/sqlite.
//
// expires_at holds unix milliseconds; 0 means no expiry.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore wraps an open database. The caller owns db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// EnsureSchema creates the tickets table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlSchema); err != nil {
		return fmt.Errorf("create tickets table: %w", err)
	}
	return nil
}

// Put inserts or replaces a ticket.
func (s *SQLStore) Put(ctx context.Context, t Ticket) error {
	resources, err := json.Marshal(t.Resources)
	if err != nil {
		return fmt.Errorf("marshal resources: %w", err)
	}
	var expires int64
	if !t.ExpiresAt.IsZero() {
		expires = t.ExpiresAt.UnixMilli()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tickets (id, user_identifier, type, resources, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_identifier = excluded.user_identifier,
			type = excluded.type,
			resources = excluded.resources,
			expires_at = excluded.expires_at`,
		t.ID, t.UserIdentifier, t.Type, string(resources), expires)
	return err
}

// Resolve implements Store.
func (s *SQLStore) Resolve(ctx context.Context, id string) (*Ticket, error) {
	var (
		t         Ticket
		resources string
		expires   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_identifier, type, resources, expires_at FROM tickets WHERE id = ?`, id).
		Scan(&t.ID, &t.UserIdentifier, &t.Type, &resources, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, missing(id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if resources != "" {
		if err := json.Unmarshal([]byte(resources), &t.Resources); err != nil {
			return nil, fmt.Errorf("%w: decode resources: %w", ErrNotFound, err)
		}
	}
	if expires > 0 {
		t.ExpiresAt = time.UnixMilli(expires).UTC()
	}
	if t.Expired(s.now()) {
		return nil, expired(id)
	}
	return &t, nil
}
