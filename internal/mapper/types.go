// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package mapper

import (
	"fmt"

	"github.com/ManuGH/streamgate/internal/content"
)

// Outcome classifies a playback request.
type Outcome string

const (
	OutcomeAllowed        Outcome = "ALLOWED"
	OutcomeDenied         Outcome = "DENIED"
	OutcomeNoClient       Outcome = "NO_CLIENT"
	OutcomeMalformedQuery Outcome = "MALFORMED_QUERY"
	OutcomeUnresolved     Outcome = "UNRESOLVED"
)

// Reasons produced by the mapper itself. Authorization reasons come from
// the authz package.
const (
	ReasonNoClient            = "no_client"
	ReasonMalformedQuery      = "malformed_query"
	ReasonTicketNotFound      = "ticket_not_found"
	ReasonResourceNotResolved = "resource_not_resolved"
	ReasonResolverError       = "resolver_error"
)

// ContentSource selects where the content identifier comes from once a
// ticket has been accepted.
type ContentSource string

const (
	// SourceTicket uses the ticket's first resource.
	SourceTicket ContentSource = "ticket"
	// SourceStream uses the requested stream name.
	SourceStream ContentSource = "stream"
)

// ParseContentSource validates a configured content source. Empty selects SourceTicket.
func ParseContentSource(s string) (ContentSource, error) {
	switch ContentSource(s) {
	case "", SourceTicket:
		return SourceTicket, nil
	case SourceStream:
		return SourceStream, nil
	default:
		return "", fmt.Errorf("unknown content source %q (want ticket or stream)", s)
	}
}

// Request is one playback callback from the streaming host.
type Request struct {
	// Query is the raw query string, optionally prefixed by the stream URL.
	Query string
	// ClientIdentity is the client IP as seen by the host.
	ClientIdentity string
	// HasClient is false for server-internal streams with no remote peer.
	HasClient bool
	// Name is the requested stream name, e.g. "flv:<id>.flv".
	Name string
	Ext  string
	// PresentationType optionally narrows the type check for this request.
	// It never replaces the configured type.
	PresentationType string
}

// Result is the file the host should play, or the fallback.
type Result struct {
	Outcome   Outcome `json:"outcome"`
	Reason    string  `json:"reason"`
	TicketID  string  `json:"ticketId,omitempty"`
	ContentID string  `json:"contentId,omitempty"`
	// Path is empty only for OutcomeNoClient.
	Path string `json:"path"`
	// Rebind asks the host to rename the stream to RebindName so the client
	// sees the fallback video under its own name.
	Rebind     bool   `json:"rebind"`
	RebindName string `json:"rebindName,omitempty"`
}

// Allowed reports whether the request resolved to real content.
func (r Result) Allowed() bool { return r.Outcome == OutcomeAllowed }

// Config is the static mapper policy.
type Config struct {
	// InvalidTicketVideo is played whenever a request is rejected.
	InvalidTicketVideo string
	// PresentationType is the ticket type required by default; empty disables the check.
	PresentationType string
	BindResources    bool
	ContentSource    ContentSource
	// DeliveryType selects the registry resolver; defaults to streaming.
	DeliveryType content.DeliveryType
}
