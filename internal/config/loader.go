// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnknownConfigField marks a strict YAML decode failure caused by a key
// streamgate does not know, typically a typo.
var ErrUnknownConfigField = errors.New("unknown config field")

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // keys read during the last Load
}

// NewLoader creates a new configuration loader. An empty configPath loads
// from defaults and ENV only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the configuration file path, if any.
func (l *Loader) Path() string { return l.configPath }

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseString(EnvPrefix+key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseBool(EnvPrefix+key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseInt(EnvPrefix+key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseDuration(EnvPrefix+key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseFloat(EnvPrefix+key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order: defaults -> strict file parse -> ENV -> derived defaults -> Validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	applyResolverDefaults(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg with STRICT parsing.
// Unknown fields are fatal to prevent silent misconfiguration.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

// mergeEnv overrides cfg with STREAMGATE_* variables.
func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.LogLevel = l.envString("LOG_LEVEL", cfg.LogLevel)
	cfg.Listen = l.envString("LISTEN", cfg.Listen)

	cfg.InvalidTicketVideo = l.envString("INVALID_TICKET_VIDEO", cfg.InvalidTicketVideo)
	cfg.PresentationType = l.envString("PRESENTATION_TYPE", cfg.PresentationType)
	cfg.BindResources = l.envBool("BIND_RESOURCES", cfg.BindResources)
	cfg.ContentSource = l.envString("CONTENT_SOURCE", cfg.ContentSource)
	cfg.DeliveryType = l.envString("DELIVERY_TYPE", cfg.DeliveryType)
	cfg.ContentCacheTTL = l.envDuration("CONTENT_CACHE_TTL", cfg.ContentCacheTTL)

	// A single content root from ENV stands in for a resolvers section.
	if root := l.envString("CONTENT_ROOT", ""); root != "" && len(cfg.Resolvers) == 0 {
		cfg.Resolvers = []ResolverConfig{{
			Name:        "default",
			Root:        root,
			URITemplate: "file://" + strings.TrimRight(root, "/") + "/%s",
		}}
	}

	t := &cfg.Tickets
	t.Backend = l.envString("TICKET_BACKEND", t.Backend)
	t.Path = l.envString("TICKET_PATH", t.Path)
	t.CacheTTL = l.envDuration("TICKET_CACHE_TTL", t.CacheTTL)
	t.LookupTimeout = l.envDuration("TICKET_LOOKUP_TIMEOUT", t.LookupTimeout)
	t.BreakerThreshold = l.envInt("TICKET_BREAKER_THRESHOLD", t.BreakerThreshold)
	t.BreakerReset = l.envDuration("TICKET_BREAKER_RESET", t.BreakerReset)
	t.Redis.Addr = l.envString("REDIS_ADDR", t.Redis.Addr)
	t.Redis.Password = l.envString("REDIS_PASSWORD", t.Redis.Password)
	t.Redis.DB = l.envInt("REDIS_DB", t.Redis.DB)
	t.Redis.Prefix = l.envString("REDIS_PREFIX", t.Redis.Prefix)
	t.HTTP.BaseURL = l.envString("TICKET_SERVICE_URL", t.HTTP.BaseURL)
	t.HTTP.Token = l.envString("TICKET_SERVICE_TOKEN", t.HTTP.Token)
	t.HTTP.RPS = l.envFloat("TICKET_SERVICE_RPS", t.HTTP.RPS)

	if proxies := l.envString("TRUSTED_PROXIES", ""); proxies != "" {
		cfg.Server.TrustedProxies = splitList(proxies)
	}

	cfg.RateLimit.Enabled = l.envBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = l.envInt("RATE_LIMIT_REQUESTS", cfg.RateLimit.Requests)

	cfg.Telemetry.Enabled = l.envBool("OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("OTEL_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("OTEL_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("OTEL_SAMPLING_RATE", cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = l.envString("OTEL_ENVIRONMENT", cfg.Telemetry.Environment)
}

// applyResolverDefaults fills unset shard settings. ShardDepth 0 is a valid
// explicit choice only when a width is also given.
func applyResolverDefaults(cfg *AppConfig) {
	for i := range cfg.Resolvers {
		r := &cfg.Resolvers[i]
		if r.ShardWidth == 0 && r.ShardDepth == 0 {
			r.ShardDepth = DefaultShardDepth
		}
		if r.ShardWidth == 0 {
			r.ShardWidth = DefaultShardWidth
		}
		if r.FilenamePattern == "" {
			r.FilenamePattern = DefaultFilenamePattern
		}
		if r.Type == "" {
			r.Type = cfg.DeliveryType
		}
		if r.Name == "" {
			r.Name = fmt.Sprintf("resolver%d", i)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
