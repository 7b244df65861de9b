// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counterVec.WithLabelValues(labels...).Write(metric))
	return metric.GetCounter().GetValue()
}

func getHistogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	metric := &dto.Metric{}
	observer := vec.WithLabelValues(labels...)
	require.NoError(t, observer.(prometheus.Metric).Write(metric))
	return metric.GetHistogram().GetSampleCount()
}

func TestRecordDecision_IncrementsCounter(t *testing.T) {
	initial := getCounterVecValue(t, decisionTotal, "DENIED", "client_mismatch")

	RecordDecision("DENIED", "client_mismatch")

	assert.Equal(t, initial+1, getCounterVecValue(t, decisionTotal, "DENIED", "client_mismatch"))
}

func TestRecordDecision_NormalizesLabels(t *testing.T) {
	initial := getCounterVecValue(t, decisionTotal, "unknown", "unknown")

	RecordDecision("maybe", "cosmic rays")

	assert.Equal(t, initial+1, getCounterVecValue(t, decisionTotal, "unknown", "unknown"))
}

func TestObserveTicketLookup(t *testing.T) {
	initial := getHistogramCount(t, ticketLookupDuration, "redis", "found")

	ObserveTicketLookup("Redis", "found", 3*time.Millisecond)

	assert.Equal(t, initial+1, getHistogramCount(t, ticketLookupDuration, "redis", "found"))
}

func TestRecordContentLookup_DefaultName(t *testing.T) {
	initial := getCounterVecValue(t, contentLookupsTotal, "default", "not_found")

	RecordContentLookup(" ", "not_found")

	assert.Equal(t, initial+1, getCounterVecValue(t, contentLookupsTotal, "default", "not_found"))
}

func TestRecordCacheEvent_UnknownEvent(t *testing.T) {
	initial := getCounterVecValue(t, cacheEventsTotal, "ticket", "unknown")

	RecordCacheEvent("ticket", "evicted")

	assert.Equal(t, initial+1, getCounterVecValue(t, cacheEventsTotal, "ticket", "unknown"))
}

func TestSetCircuitBreakerState_OneHot(t *testing.T) {
	SetCircuitBreakerState("tickets_test", "open")

	gauge := func(state string) float64 {
		m := &dto.Metric{}
		require.NoError(t, circuitBreakerState.WithLabelValues("tickets_test", state).Write(m))
		return m.GetGauge().GetValue()
	}
	assert.Equal(t, 1.0, gauge("open"))
	assert.Equal(t, 0.0, gauge("closed"))
	assert.Equal(t, 0.0, gauge("half-open"))
}

func TestRecordCircuitBreakerTrip(t *testing.T) {
	initial := getCounterVecValue(t, circuitBreakerTripsTotal, "tickets_test", "threshold_exceeded")
	RecordCircuitBreakerTrip("tickets_test", "threshold_exceeded")
	assert.Equal(t, initial+1, getCounterVecValue(t, circuitBreakerTripsTotal, "tickets_test", "threshold_exceeded"))
}
