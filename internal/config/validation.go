// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"net"

	"github.com/ManuGH/streamgate/internal/content"
	"github.com/ManuGH/streamgate/internal/validate"
)

var (
	ticketBackends  = []string{"memory", "redis", "badger", "sqlite", "http"}
	contentSources  = []string{"ticket", "stream"}
	otelExporters   = []string{"grpc", "http"}
	logLevelChoices = []string{"debug", "info", "warn", "error"}
)

// Validate reports every problem with cfg at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("log_level", cfg.LogLevel, logLevelChoices)
	v.HostPort("listen", cfg.Listen)
	v.NotEmpty("invalid_ticket_video", cfg.InvalidTicketVideo)
	v.OneOf("content_source", cfg.ContentSource, contentSources)
	deliveryType, err := content.ParseDeliveryType(cfg.DeliveryType)
	if err != nil {
		v.AddError("delivery_type", err.Error(), cfg.DeliveryType)
	}

	if len(cfg.Resolvers) == 0 {
		v.AddError("resolvers", "at least one content resolver is required", nil)
	}
	seen := make(map[string]bool, len(cfg.Resolvers))
	served := false
	for i, r := range cfg.Resolvers {
		field := fmt.Sprintf("resolvers[%d]", i)
		if seen[r.Name] {
			v.AddError(field+".name", fmt.Sprintf("duplicate resolver name %q", r.Name), r.Name)
		}
		seen[r.Name] = true

		v.AbsolutePath(field+".root", r.Root)
		v.NonNegative(field+".shard_depth", r.ShardDepth)
		v.Positive(field+".shard_width", r.ShardWidth)
		v.Contains(field+".filename_pattern", r.FilenamePattern, content.Placeholder)
		v.Regexp(field+".filename_pattern", r.FilenamePattern, content.Placeholder)
		v.Contains(field+".uri_template", r.URITemplate, content.Placeholder)
		if t, err := content.ParseDeliveryType(r.Type); err != nil {
			v.AddError(field+".type", err.Error(), r.Type)
		} else if t == deliveryType {
			served = true
		}
	}
	if len(cfg.Resolvers) > 0 && deliveryType != "" && !served {
		v.AddError("delivery_type", fmt.Sprintf("no resolver serves delivery type %q", deliveryType), cfg.DeliveryType)
	}

	validateTickets(v, cfg.Tickets)

	for i, cidr := range cfg.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			v.AddError(fmt.Sprintf("server.trusted_proxies[%d]", i), "invalid CIDR", cidr)
		}
	}

	if cfg.RateLimit.Enabled {
		v.Positive("rate_limit.requests", cfg.RateLimit.Requests)
		if cfg.RateLimit.Window <= 0 {
			v.AddError("rate_limit.window", "window must be positive", cfg.RateLimit.Window)
		}
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, otelExporters)
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Fraction("telemetry.sampling_rate", cfg.Telemetry.SamplingRate)
	}

	return v.Err()
}

func validateTickets(v *validate.Validator, t TicketConfig) {
	v.OneOf("tickets.backend", t.Backend, ticketBackends)
	if t.CacheTTL < 0 {
		v.AddError("tickets.cache_ttl", "cache ttl cannot be negative", t.CacheTTL)
	}
	if t.LookupTimeout <= 0 {
		v.AddError("tickets.lookup_timeout", "lookup timeout must be positive", t.LookupTimeout)
	}
	v.NonNegative("tickets.breaker_threshold", t.BreakerThreshold)
	if t.BreakerReset < 0 {
		v.AddError("tickets.breaker_reset", "breaker reset cannot be negative", t.BreakerReset)
	}

	switch t.Backend {
	case "redis":
		v.HostPort("tickets.redis.addr", t.Redis.Addr)
		v.NonNegative("tickets.redis.db", t.Redis.DB)
	case "sqlite":
		v.NotEmpty("tickets.path", t.Path)
	case "http":
		v.URL("tickets.http.base_url", t.HTTP.BaseURL, []string{"http", "https"})
		if t.HTTP.RPS < 0 {
			v.AddError("tickets.http.rps", "rps cannot be negative", t.HTTP.RPS)
		}
	}

	for i, s := range t.Seed {
		v.NotEmpty(fmt.Sprintf("tickets.seed[%d].id", i), s.ID)
	}
}
