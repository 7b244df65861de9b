// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package query extracts the playback ticket and the requested stream name
// from the query string a streaming client connected with.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// TicketParam is the query key carrying the ticket identifier.
const TicketParam = "ticket"

// ErrMalformedQuery is returned when the query cannot be tokenized into
// key/value pairs or carries no usable ticket parameter.
var ErrMalformedQuery = errors.New("malformed query string")

// Params is the parsed form of a client query string.
type Params struct {
	// TicketID is the opaque ticket identifier, never empty on success.
	TicketID string
	// StreamName is the optional stream name appended to the ticket value
	// as "ticket=<id>/<stream>". Empty when absent.
	StreamName string
	// Values holds every decoded pair. Later duplicates win.
	Values map[string]string
}

// Parse tokenizes raw as "k=v&k=v". Anything up to and including the first
// '?' is treated as a URL prefix and skipped.
func Parse(raw string) (Params, error) {
	q := strings.TrimSpace(raw)
	if i := strings.IndexByte(q, '?'); i >= 0 {
		q = q[i+1:]
	}
	if q == "" {
		return Params{}, fmt.Errorf("%w: empty query", ErrMalformedQuery)
	}

	values := make(map[string]string)
	for _, token := range strings.Split(q, "&") {
		if token == "" {
			continue
		}
		k, v, ok := strings.Cut(token, "=")
		if !ok {
			return Params{}, fmt.Errorf("%w: token %q has no value", ErrMalformedQuery, token)
		}
		key, err := url.QueryUnescape(k)
		if err != nil || key == "" {
			return Params{}, fmt.Errorf("%w: invalid key in %q", ErrMalformedQuery, token)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return Params{}, fmt.Errorf("%w: invalid value for %q", ErrMalformedQuery, key)
		}
		values[key] = val
	}

	ticketValue, ok := values[TicketParam]
	if !ok {
		return Params{}, fmt.Errorf("%w: missing %s parameter", ErrMalformedQuery, TicketParam)
	}

	id, stream, _ := strings.Cut(ticketValue, "/")
	id = strings.TrimSpace(id)
	if id == "" {
		return Params{}, fmt.Errorf("%w: empty %s parameter", ErrMalformedQuery, TicketParam)
	}

	return Params{
		TicketID:   id,
		StreamName: stream,
		Values:     values,
	}, nil
}

// ExtractTicketID returns only the ticket identifier from raw.
func ExtractTicketID(raw string) (string, error) {
	p, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return p.TicketID, nil
}
