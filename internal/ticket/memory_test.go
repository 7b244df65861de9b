// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTicket() Ticket {
	return Ticket{
		ID:             "abc",
		UserIdentifier: "10.0.0.5",
		Type:           "Stream",
		Resources:      []string{"flv:0ef8f946-4e90-4c9d-843a-a03504d2ee6c"},
	}
}

func TestTicket_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tk := sampleTicket()
	assert.False(t, tk.Expired(now), "zero ExpiresAt never expires")

	tk.ExpiresAt = now.Add(time.Second)
	assert.False(t, tk.Expired(now))
	tk.ExpiresAt = now
	assert.True(t, tk.Expired(now))
}

func TestTicket_Resource(t *testing.T) {
	tk := sampleTicket()
	assert.Equal(t, "flv:0ef8f946-4e90-4c9d-843a-a03504d2ee6c", tk.Resource())
	tk.Resources = nil
	assert.Empty(t, tk.Resource())
}

func TestMemoryStore_Resolve(t *testing.T) {
	s := NewMemoryStore(sampleTicket())

	got, err := s.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	if diff := cmp.Diff(sampleTicket(), *got); diff != "" {
		t.Errorf("ticket mismatch (-want +got):\n%s", diff)
	}

	_, err = s.Resolve(context.Background(), "zzz")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore(sampleTicket())

	got, err := s.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	got.Resources[0] = "tampered"

	again, err := s.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleTicket().Resources, again.Resources)
}

func TestMemoryStore_ExpiredIsNotFound(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tk := sampleTicket()
	tk.ExpiresAt = now.Add(time.Minute)

	s := NewMemoryStore(tk)
	s.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err := s.Resolve(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_PutRejectsEmptyID(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Put(context.Background(), Ticket{}))
}

func TestStoreFunc(t *testing.T) {
	var s Store = StoreFunc(func(_ context.Context, id string) (*Ticket, error) {
		return &Ticket{ID: id}, nil
	})
	got, err := s.Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)
}
