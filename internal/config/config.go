// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads streamgate configuration with precedence
// ENV > file > defaults and keeps it current while the daemon runs.
package config

import (
	"time"
)

// AppConfig is the complete, validated runtime configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	LogLevel string `yaml:"log_level"`
	Listen   string `yaml:"listen"`

	// InvalidTicketVideo is played for every rejected playback request.
	InvalidTicketVideo string `yaml:"invalid_ticket_video"`
	PresentationType   string `yaml:"presentation_type,omitempty"`
	BindResources      bool   `yaml:"bind_resources"`
	ContentSource      string `yaml:"content_source"`
	DeliveryType       string `yaml:"delivery_type"`

	Resolvers       []ResolverConfig `yaml:"resolvers"`
	ContentCacheTTL time.Duration    `yaml:"content_cache_ttl"`

	Tickets   TicketConfig    `yaml:"tickets"`
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ResolverConfig describes one sharded content tree.
type ResolverConfig struct {
	Name            string `yaml:"name"`
	Root            string `yaml:"root"`
	Subdirectory    string `yaml:"subdirectory,omitempty"`
	ShardDepth      int    `yaml:"shard_depth"`
	ShardWidth      int    `yaml:"shard_width"`
	FilenamePattern string `yaml:"filename_pattern"`
	URITemplate     string `yaml:"uri_template"`
	Type            string `yaml:"type"`
}

// TicketConfig selects the ticket store backend.
type TicketConfig struct {
	// Backend is one of memory, redis, badger, sqlite or http.
	Backend       string        `yaml:"backend"`
	Path          string        `yaml:"path,omitempty"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	// BreakerThreshold consecutive faults open the breaker in front of a
	// remote backend; 0 disables it.
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerReset     time.Duration `yaml:"breaker_reset"`
	Redis            RedisConfig   `yaml:"redis"`
	HTTP             HTTPConfig    `yaml:"http"`
	Seed             []SeedTicket  `yaml:"seed,omitempty"`
}

// RedisConfig configures the shared ticket cache.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// HTTPConfig configures the remote ticket service client.
type HTTPConfig struct {
	BaseURL string        `yaml:"base_url,omitempty"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
	RPS     float64       `yaml:"rps"`
	Burst   int           `yaml:"burst"`
}

// SeedTicket preloads the memory backend, mainly for local testing.
type SeedTicket struct {
	ID             string    `yaml:"id"`
	UserIdentifier string    `yaml:"user_identifier"`
	Type           string    `yaml:"type,omitempty"`
	Resources      []string  `yaml:"resources,omitempty"`
	ExpiresAt      time.Time `yaml:"expires_at,omitempty"`
}

// ServerConfig holds HTTP server timeouts.
type ServerConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// TrustedProxies lists CIDRs whose forwarding headers name the client.
	TrustedProxies []string `yaml:"trusted_proxies,omitempty"`
}

// RateLimitConfig limits callback requests per client IP.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Environment  string  `yaml:"environment,omitempty"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint,omitempty"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// Default resolver settings, matching the classic four-level single
// character layout.
const (
	DefaultShardDepth      = 4
	DefaultShardWidth      = 1
	DefaultFilenamePattern = `%s\.flv`
)

// Defaults returns the configuration used before file and ENV are applied.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:      "info",
		Listen:        ":8088",
		ContentSource: "ticket",
		DeliveryType:  "streaming",
		Tickets: TicketConfig{
			Backend:          "memory",
			LookupTimeout:    2 * time.Second,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
			HTTP: HTTPConfig{
				Timeout: 3 * time.Second,
			},
		},
		Server: ServerConfig{
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   time.Second,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			SamplingRate: 1.0,
		},
	}
}

// Redacted returns a copy with secrets masked, suitable for logs and dumps.
func (c AppConfig) Redacted() AppConfig {
	out := c
	out.Resolvers = append([]ResolverConfig(nil), c.Resolvers...)
	out.Server.TrustedProxies = append([]string(nil), c.Server.TrustedProxies...)
	out.Tickets.Seed = nil
	if out.Tickets.Redis.Password != "" {
		out.Tickets.Redis.Password = redactedValue
	}
	if out.Tickets.HTTP.Token != "" {
		out.Tickets.HTTP.Token = redactedValue
	}
	return out
}

const redactedValue = "***"
