// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/ManuGH/streamgate/internal/content"
	"github.com/ManuGH/streamgate/internal/mapper"
	"github.com/ManuGH/streamgate/internal/ticket"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverConfig_ContentConfig(t *testing.T) {
	r := validTestConfig().Resolvers[0]
	r.Type = "Stream"

	got := r.ContentConfig()
	assert.Equal(t, content.DeliveryStreaming, got.Type)
	require.NoError(t, got.Validate())
}

func TestTicketConfig_StoreOptions(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tc := TicketConfig{
		Backend:  "redis",
		CacheTTL: time.Second,
		Redis:    RedisConfig{Addr: "r:6379", DB: 3, Prefix: "t:"},
		Seed:     []SeedTicket{{ID: "a", UserIdentifier: "1.1.1.1", Resources: []string{"x"}, ExpiresAt: exp}},
	}

	got := tc.StoreOptions()
	want := ticket.Options{
		Backend:  "redis",
		CacheTTL: time.Second,
		Redis:    ticket.RedisConfig{Addr: "r:6379", DB: 3, Prefix: "t:"},
		Seed:     []ticket.Ticket{{ID: "a", UserIdentifier: "1.1.1.1", Resources: []string{"x"}, ExpiresAt: exp}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StoreOptions mismatch (-want +got):\n%s", diff)
	}
}

func TestAppConfig_MapperConfig(t *testing.T) {
	cfg := validTestConfig()
	cfg.PresentationType = "Stream"
	cfg.BindResources = true
	cfg.ContentSource = "stream"

	got := cfg.MapperConfig()
	assert.Equal(t, mapper.SourceStream, got.ContentSource)
	assert.Equal(t, content.DeliveryStreaming, got.DeliveryType)
	assert.Equal(t, "/srv/invalid.flv", got.InvalidTicketVideo)
	assert.True(t, got.BindResources)
}

func TestAppConfig_TracingConfig(t *testing.T) {
	cfg := validTestConfig()
	cfg.Version = "v9"
	cfg.Telemetry = TelemetryConfig{Enabled: true, Exporter: "http", Endpoint: "c:4318", SamplingRate: 0.5}

	got := cfg.TracingConfig("streamgate")
	assert.Equal(t, "streamgate", got.ServiceName)
	assert.Equal(t, "v9", got.ServiceVersion)
	assert.Equal(t, "http", got.ExporterType)
	assert.InDelta(t, 0.5, got.SamplingRate, 1e-9)
}
