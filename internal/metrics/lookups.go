// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketLookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamgate_ticket_lookup_duration_seconds",
		Help:    "Ticket store lookup latency by backend and result",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"backend", "result"})

	contentLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamgate_content_lookups_total",
		Help: "Content resolver lookups by resolver name and result",
	}, []string{"resolver", "result"})

	cacheEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamgate_cache_events_total",
		Help: "Lookup cache events (hit, miss, shared) per cache",
	}, []string{"cache", "event"})
)

// ObserveTicketLookup records the latency of one ticket store lookup.
// result is one of "found", "not_found" or "error".
func ObserveTicketLookup(backend, result string, d time.Duration) {
	ticketLookupDuration.WithLabelValues(
		normalizeBackendLabel(backend),
		normalizeLookupResult(result),
	).Observe(d.Seconds())
}

// RecordContentLookup counts one content resolver lookup.
func RecordContentLookup(resolver, result string) {
	name := strings.TrimSpace(resolver)
	if name == "" {
		name = "default"
	}
	contentLookupsTotal.WithLabelValues(name, normalizeLookupResult(result)).Inc()
}

// RecordCacheEvent counts a cache hit, miss or singleflight-shared lookup.
func RecordCacheEvent(cache, event string) {
	switch event {
	case "hit", "miss", "shared":
	default:
		event = "unknown"
	}
	cacheEventsTotal.WithLabelValues(cache, event).Inc()
}

func normalizeBackendLabel(backend string) string {
	switch v := strings.ToLower(strings.TrimSpace(backend)); v {
	case "memory", "redis", "badger", "sqlite", "http", "cache":
		return v
	default:
		return "unknown"
	}
}

func normalizeLookupResult(result string) string {
	switch v := strings.ToLower(strings.TrimSpace(result)); v {
	case "found", "not_found", "error":
		return v
	default:
		return "unknown"
	}
}
