// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package authz

import (
	"testing"

	"github.com/ManuGH/streamgate/internal/ticket"
	"github.com/stretchr/testify/assert"
)

const programID = "0ef8f946-4e90-4c9d-843a-a03504d2ee6c"

func streamTicket() *ticket.Ticket {
	return &ticket.Ticket{
		ID:             "abc",
		UserIdentifier: "10.0.0.5",
		Type:           "Stream",
		Resources:      []string{"doms_radioTVCollection:uuid:" + programID},
	}
}

func TestEngine_Decide(t *testing.T) {
	engine := Engine{RequiredType: "Stream", BindResources: true}
	name := "flv:" + programID + ".flv"

	tests := []struct {
		name   string
		in     Input
		engine Engine
		want   Decision
	}{
		{
			name:   "granted",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name},
			want:   Decision{Allowed: true, Reason: ReasonGranted},
		},
		{
			name:   "no ticket",
			engine: engine,
			in:     Input{ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name},
			want:   Decision{Reason: ReasonTicketMissing},
		},
		{
			name:   "wrong client",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.9", HasClient: true, RequestedName: name},
			want:   Decision{Reason: ReasonClientMismatch},
		},
		{
			name:   "no client",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", RequestedName: name},
			want:   Decision{Reason: ReasonClientMismatch},
		},
		{
			name:   "empty identity",
			engine: engine,
			in:     Input{Ticket: &ticket.Ticket{Type: "Stream"}, HasClient: true, RequestedName: name},
			want:   Decision{Reason: ReasonClientMismatch},
		},
		{
			name:   "ipv4 mapped address is not normalized",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "::ffff:10.0.0.5", HasClient: true, RequestedName: name},
			want:   Decision{Reason: ReasonClientMismatch},
		},
		{
			name:   "wrong type",
			engine: engine,
			in: Input{Ticket: &ticket.Ticket{UserIdentifier: "10.0.0.5", Type: "Download", Resources: streamTicket().Resources},
				ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name},
			want: Decision{Reason: ReasonTypeMismatch},
		},
		{
			name:   "requested type cannot replace configured type",
			engine: engine,
			in: Input{Ticket: &ticket.Ticket{UserIdentifier: "10.0.0.5", Type: "Download", Resources: streamTicket().Resources},
				ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name, RequestedType: "Download"},
			want: Decision{Reason: ReasonTypeMismatch},
		},
		{
			name:   "requested type matching configured type",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name, RequestedType: "Stream"},
			want:   Decision{Allowed: true, Reason: ReasonGranted},
		},
		{
			name:   "requested type narrows configured type",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name, RequestedType: "Download"},
			want:   Decision{Reason: ReasonTypeMismatch},
		},
		{
			name:   "requested type without configured type",
			engine: Engine{BindResources: true},
			in: Input{Ticket: &ticket.Ticket{UserIdentifier: "10.0.0.5", Type: "Thumbnails", Resources: streamTicket().Resources},
				ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name, RequestedType: "Stream"},
			want: Decision{Reason: ReasonTypeMismatch},
		},
		{
			name:   "type check disabled",
			engine: Engine{BindResources: true},
			in: Input{Ticket: &ticket.Ticket{UserIdentifier: "10.0.0.5", Type: "Thumbnails", Resources: streamTicket().Resources},
				ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: name},
			want: Decision{Allowed: true, Reason: ReasonGranted},
		},
		{
			name:   "resource not granted",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: "flv:853a0b31-c944-44a5-8e42-bc9b5bc697be.flv"},
			want:   Decision{Reason: ReasonResourceNotGranted},
		},
		{
			name:   "resource check disabled",
			engine: Engine{RequiredType: "Stream"},
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: "flv:other.flv"},
			want:   Decision{Allowed: true, Reason: ReasonGranted},
		},
		{
			name:   "empty name never matches",
			engine: engine,
			in:     Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: "flv:.flv"},
			want:   Decision{Reason: ReasonResourceNotGranted},
		},
		{
			name:   "client checked before type",
			engine: engine,
			in:     Input{Ticket: &ticket.Ticket{UserIdentifier: "1.1.1.1", Type: "Download"}, ClientIdentity: "10.0.0.5", HasClient: true},
			want:   Decision{Reason: ReasonClientMismatch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.engine.Decide(tt.in))
		})
	}
}

func TestEngine_Deterministic(t *testing.T) {
	engine := Engine{RequiredType: "Stream", BindResources: true}
	in := Input{Ticket: streamTicket(), ClientIdentity: "10.0.0.5", HasClient: true, RequestedName: programID}

	first := engine.Decide(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, engine.Decide(in))
	}
}

// Substring containment over-authorizes: a prefix of a granted identifier
// is accepted too.
func TestGrants_SubstringContainment(t *testing.T) {
	tk := streamTicket()

	assert.True(t, Grants(tk, "flv:"+programID+".flv"))
	assert.True(t, Grants(tk, "0ef8"), "prefix of a granted id is accepted")
	assert.True(t, Grants(tk, "uuid"), "resource decoration is matched too")
	assert.False(t, Grants(tk, "853a0b31"))
	assert.False(t, Grants(nil, programID))
	assert.False(t, Grants(tk, ""))
}
