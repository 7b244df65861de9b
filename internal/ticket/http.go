// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// maxTicketBody bounds the ticket service response we are willing to decode.
const maxTicketBody = 64 << 10

// HTTPConfig configures the remote ticket service client.
type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RPS limits outgoing lookups; 0 disables limiting.
	RPS   float64
	Burst int
}

// HTTPStore queries the ticket service directly: GET {base}/tickets/{id}.
type HTTPStore struct {
	base    *url.URL
	token   string
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
	now     func() time.Time
}

// NewHTTPStore builds a client for the ticket service. The transport is
// instrumented so lookups show up as child spans of the playback request.
func NewHTTPStore(cfg HTTPConfig, logger zerolog.Logger) (*HTTPStore, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ticket service url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	s := &HTTPStore{
		base:  base,
		token: cfg.Token,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
		now:    time.Now,
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return s, nil
}

// Resolve implements Store.
func (s *HTTPStore) Resolve(ctx context.Context, id string) (*Ticket, error) {
	if !pathSegment(id) {
		return nil, missing(id)
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit: %w", ErrNotFound, err)
		}
	}

	u := s.base.JoinPath("tickets", id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger := lookupLogger(ctx, s.logger, id)
		logger.Warn().Err(err).Msg("ticket service request failed")
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, missing(id)
	case resp.StatusCode != http.StatusOK:
		logger := lookupLogger(ctx, s.logger, id)
		logger.Warn().Int("status", resp.StatusCode).Msg("ticket service returned unexpected status")
		return nil, fmt.Errorf("%w: %w", ErrNotFound, fmt.Errorf("ticket service status %d", resp.StatusCode))
	}

	var t Ticket
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTicketBody)).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrNotFound, err)
	}
	if t.ID == "" {
		t.ID = id
	}
	if t.Expired(s.now()) {
		return nil, expired(id)
	}
	return &t, nil
}

// pathSegment reports whether id stays a single element under tickets/.
// JoinPath cleans dot segments, so ".." would otherwise address the base.
func pathSegment(id string) bool {
	switch id {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(id, "/\\")
}
