// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Playback decision fields
	FieldTicketID   = "ticket_id"
	FieldClient     = "client"
	FieldStreamName = "stream_name"
	FieldContentID  = "content_id"
	FieldOutcome    = "outcome"
	FieldReason     = "reason"
	FieldResolver   = "resolver"
	FieldBackend    = "backend"

	// Path / URL fields
	FieldPath      = "path"
	FieldFinalPath = "final_path"
)
