// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics exposes the Prometheus instruments of the playback gate.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamgate_playback_decisions_total",
		Help: "Total number of playback file decisions by outcome and reason",
	}, []string{"outcome", "reason"})
)

// RecordDecision records one playback decision.
func RecordDecision(outcome, reason string) {
	decisionTotal.WithLabelValues(
		normalizeOutcomeLabel(outcome),
		normalizeReasonLabel(reason),
	).Inc()
}

func normalizeOutcomeLabel(outcome string) string {
	switch v := strings.ToUpper(strings.TrimSpace(outcome)); v {
	case "ALLOWED", "DENIED", "NO_CLIENT", "MALFORMED_QUERY", "UNRESOLVED":
		return v
	default:
		return "unknown"
	}
}

func normalizeReasonLabel(reason string) string {
	switch v := strings.ToLower(strings.TrimSpace(reason)); v {
	case "granted", "ticket_missing", "ticket_not_found", "client_mismatch",
		"type_mismatch", "resource_not_granted", "resource_not_resolved",
		"malformed_query", "no_client":
		return v
	default:
		return "unknown"
	}
}
