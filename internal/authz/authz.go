// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package authz decides whether a ticket allows a client to play a stream.
//
// Decide is pure: the same input always yields the same Decision, and no
// check performs I/O.
package authz

import (
	"strings"

	"github.com/ManuGH/streamgate/internal/content"
	"github.com/ManuGH/streamgate/internal/ticket"
)

// Reason explains a Decision.
type Reason string

const (
	ReasonGranted            Reason = "granted"
	ReasonTicketMissing      Reason = "ticket_missing"
	ReasonClientMismatch     Reason = "client_mismatch"
	ReasonTypeMismatch       Reason = "type_mismatch"
	ReasonResourceNotGranted Reason = "resource_not_granted"
)

// Decision is the result of one authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Input is everything Decide looks at.
type Input struct {
	Ticket         *ticket.Ticket
	ClientIdentity string
	HasClient      bool
	// RequestedName is the raw stream name; it is cleaned before matching.
	RequestedName string
	// RequestedType narrows the check for this call: when set, the ticket
	// must carry it in addition to Engine.RequiredType. It never relaxes
	// the configured type.
	RequestedType string
}

// Engine holds the static policy.
type Engine struct {
	// RequiredType is the presentation type tickets must carry. Empty
	// disables the check.
	RequiredType string
	// BindResources requires the requested content to be among the
	// ticket's resources.
	BindResources bool
}

func deny(r Reason) Decision { return Decision{Reason: r} }

// Decide runs the checks in order and stops at the first failure.
func (e Engine) Decide(in Input) Decision {
	t := in.Ticket
	if t == nil {
		return deny(ReasonTicketMissing)
	}

	// Exact string compare: "::ffff:10.0.0.5" and "10.0.0.5" differ.
	if !in.HasClient || in.ClientIdentity == "" || in.ClientIdentity != t.UserIdentifier {
		return deny(ReasonClientMismatch)
	}

	if e.RequiredType != "" && t.Type != e.RequiredType {
		return deny(ReasonTypeMismatch)
	}
	if in.RequestedType != "" && t.Type != in.RequestedType {
		return deny(ReasonTypeMismatch)
	}

	if e.BindResources && !Grants(t, in.RequestedName) {
		return deny(ReasonResourceNotGranted)
	}

	return Decision{Allowed: true, Reason: ReasonGranted}
}

// Grants reports whether any ticket resource contains the cleaned name.
//
// Containment rather than equality lets resources carry URI decoration
// around the identifier, at the cost of also accepting any identifier that
// is a substring of a granted one.
func Grants(t *ticket.Ticket, name string) bool {
	id := content.Clean(name)
	if t == nil || id == "" {
		return false
	}
	for _, r := range t.Resources {
		if strings.Contains(r, id) {
			return true
		}
	}
	return false
}
