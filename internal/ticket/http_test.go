// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTicketService(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/v1/tickets/abc":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(sampleTicket())
		case "/v1/tickets/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPStore_Resolve(t *testing.T) {
	var calls atomic.Int32
	srv := newTicketService(t, &calls)

	s, err := NewHTTPStore(HTTPConfig{BaseURL: srv.URL + "/v1/", Token: "s3cret"}, zerolog.Nop())
	require.NoError(t, err)

	got, err := s.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleTicket().UserIdentifier, got.UserIdentifier)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPStore_Errors(t *testing.T) {
	var calls atomic.Int32
	srv := newTicketService(t, &calls)

	s, err := NewHTTPStore(HTTPConfig{BaseURL: srv.URL + "/v1", Token: "s3cret"}, zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		id     string
		result string
	}{
		{id: "missing", result: "not_found"},
		{id: "broken", result: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := s.Resolve(context.Background(), tt.id)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, tt.result, lookupResult(err))
		})
	}
}

func TestHTTPStore_RejectsPathTraversingIDs(t *testing.T) {
	var calls atomic.Int32
	srv := newTicketService(t, &calls)

	s, err := NewHTTPStore(HTTPConfig{BaseURL: srv.URL + "/v1", Token: "s3cret"}, zerolog.Nop())
	require.NoError(t, err)

	for _, id := range []string{"", ".", "..", "../abc", "x/../../admin", `a\b`} {
		_, err := s.Resolve(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, "id %q", id)
		assert.Equal(t, "not_found", lookupResult(err), "id %q", id)
	}
	assert.Zero(t, calls.Load(), "no request may leave tickets/{id}")
}

func TestHTTPStore_Unreachable(t *testing.T) {
	s, err := NewHTTPStore(HTTPConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.Resolve(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStore_RateLimitHonoursContext(t *testing.T) {
	var calls atomic.Int32
	srv := newTicketService(t, &calls)

	s, err := NewHTTPStore(HTTPConfig{BaseURL: srv.URL + "/v1", Token: "s3cret", RPS: 0.001, Burst: 1}, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.Resolve(context.Background(), "abc")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.Resolve(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load(), "limited lookup must not reach the service")
}

func TestNewHTTPStore_InvalidURL(t *testing.T) {
	_, err := NewHTTPStore(HTTPConfig{BaseURL: "not a url"}, zerolog.Nop())
	assert.Error(t, err)
}
