// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"testing"

	"github.com/ManuGH/streamgate/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, Validate(validTestConfig()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"bad listen", func(c *AppConfig) { c.Listen = "8088" }, "listen"},
		{"missing invalid video", func(c *AppConfig) { c.InvalidTicketVideo = "" }, "invalid_ticket_video"},
		{"bad content source", func(c *AppConfig) { c.ContentSource = "query" }, "content_source"},
		{"bad delivery type", func(c *AppConfig) { c.DeliveryType = "vod" }, "delivery_type"},
		{"no resolvers", func(c *AppConfig) { c.Resolvers = nil }, "resolvers"},
		{"relative root", func(c *AppConfig) { c.Resolvers[0].Root = "media" }, "resolvers[0].root"},
		{"negative depth", func(c *AppConfig) { c.Resolvers[0].ShardDepth = -1 }, "resolvers[0].shard_depth"},
		{"zero width", func(c *AppConfig) { c.Resolvers[0].ShardWidth = 0 }, "resolvers[0].shard_width"},
		{"pattern without placeholder", func(c *AppConfig) { c.Resolvers[0].FilenamePattern = `x\.flv` }, "resolvers[0].filename_pattern"},
		{"pattern does not compile", func(c *AppConfig) { c.Resolvers[0].FilenamePattern = `%s(` }, "resolvers[0].filename_pattern"},
		{"template without placeholder", func(c *AppConfig) { c.Resolvers[0].URITemplate = "file:///srv" }, "resolvers[0].uri_template"},
		{"bad resolver type", func(c *AppConfig) { c.Resolvers[0].Type = "live" }, "resolvers[0].type"},
		{"delivery type not served", func(c *AppConfig) { c.DeliveryType = "download" }, "delivery_type"},
		{"duplicate resolver", func(c *AppConfig) { c.Resolvers = append(c.Resolvers, c.Resolvers[0]) }, "resolvers[1].name"},
		{"unknown backend", func(c *AppConfig) { c.Tickets.Backend = "etcd" }, "tickets.backend"},
		{"negative cache ttl", func(c *AppConfig) { c.Tickets.CacheTTL = -1 }, "tickets.cache_ttl"},
		{"zero lookup timeout", func(c *AppConfig) { c.Tickets.LookupTimeout = 0 }, "tickets.lookup_timeout"},
		{"negative breaker threshold", func(c *AppConfig) { c.Tickets.BreakerThreshold = -1 }, "tickets.breaker_threshold"},
		{"redis without addr", func(c *AppConfig) { c.Tickets.Backend = "redis" }, "tickets.redis.addr"},
		{"sqlite without path", func(c *AppConfig) { c.Tickets.Backend = "sqlite" }, "tickets.path"},
		{"http bad url", func(c *AppConfig) {
			c.Tickets.Backend = "http"
			c.Tickets.HTTP.BaseURL = "ftp://tickets"
		}, "tickets.http.base_url"},
		{"seed without id", func(c *AppConfig) { c.Tickets.Seed = []SeedTicket{{UserIdentifier: "1.2.3.4"}} }, "tickets.seed[0].id"},
		{"bad trusted proxy", func(c *AppConfig) { c.Server.TrustedProxies = []string{"10.0.0.1"} }, "server.trusted_proxies[0]"},
		{"rate limit zero requests", func(c *AppConfig) { c.RateLimit.Requests = 0 }, "rate_limit.requests"},
		{"rate limit zero window", func(c *AppConfig) { c.RateLimit.Window = 0 }, "rate_limit.window"},
		{"telemetry without endpoint", func(c *AppConfig) { c.Telemetry.Enabled = true }, "telemetry.endpoint"},
		{"telemetry bad sampling", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = "collector:4317"
			c.Telemetry.SamplingRate = 1.5
		}, "telemetry.sampling_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr validate.ValidationError
			require.True(t, errors.As(err, &verr))
			fields := make([]string, 0, len(verr.Errors()))
			for _, e := range verr.Errors() {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_DisabledSectionsSkipped(t *testing.T) {
	cfg := validTestConfig()
	cfg.RateLimit = RateLimitConfig{Enabled: false}
	cfg.Telemetry = TelemetryConfig{Enabled: false, SamplingRate: 7}
	assert.NoError(t, Validate(cfg))
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := validTestConfig()
	cfg.Listen = "nope"
	cfg.InvalidTicketVideo = ""

	var verr validate.ValidationError
	require.ErrorAs(t, Validate(cfg), &verr)
	assert.Len(t, verr.Errors(), 2)
}
