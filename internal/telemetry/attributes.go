// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// Playback attributes
	PlaybackStreamKey    = "playback.stream"
	PlaybackTypeKey      = "playback.presentation_type"
	PlaybackOutcomeKey   = "playback.outcome"
	PlaybackReasonKey    = "playback.reason"
	PlaybackRebindKey    = "playback.rebind"
	TicketIDKey          = "ticket.id"
	ContentIDKey         = "content.id"
	ContentResolverKey   = "content.resolver"
	ContentSourceModeKey = "content.source"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// PlaybackAttributes describes an incoming playback request. Empty values
// are omitted.
func PlaybackAttributes(stream, presentationType, ticketID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if stream != "" {
		attrs = append(attrs, attribute.String(PlaybackStreamKey, stream))
	}
	if presentationType != "" {
		attrs = append(attrs, attribute.String(PlaybackTypeKey, presentationType))
	}
	if ticketID != "" {
		attrs = append(attrs, attribute.String(TicketIDKey, ticketID))
	}
	return attrs
}

// DecisionAttributes describes the outcome of a playback request.
func DecisionAttributes(outcome, reason, contentID string, rebind bool) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(PlaybackOutcomeKey, outcome),
		attribute.String(PlaybackReasonKey, reason),
		attribute.Bool(PlaybackRebindKey, rebind),
	}
	if contentID != "" {
		attrs = append(attrs, attribute.String(ContentIDKey, contentID))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(err error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
		attribute.String("error.message", err.Error()),
	}
}
