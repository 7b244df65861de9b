// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
invalid_ticket_video: /srv/media/static/invalid_ticket.flv
resolvers:
  - name: stream
    root: /srv/media
    uri_template: file:///srv/media/%s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "streamgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoader_FileWithDefaults(t *testing.T) {
	cfg, err := NewLoader(writeConfig(t, minimalYAML), "v1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.Equal(t, ":8088", cfg.Listen)
	assert.Equal(t, "memory", cfg.Tickets.Backend)
	assert.Equal(t, "ticket", cfg.ContentSource)
	require.Len(t, cfg.Resolvers, 1)

	r := cfg.Resolvers[0]
	assert.Equal(t, DefaultShardDepth, r.ShardDepth)
	assert.Equal(t, DefaultShardWidth, r.ShardWidth)
	assert.Equal(t, DefaultFilenamePattern, r.FilenamePattern)
	assert.Equal(t, "streaming", r.Type)
}

func TestLoader_FullFile(t *testing.T) {
	body := `
log_level: debug
listen: 127.0.0.1:9000
invalid_ticket_video: /srv/invalid.flv
presentation_type: Stream
bind_resources: true
content_source: stream
content_cache_ttl: 30s
resolvers:
  - name: stream
    root: /srv/media
    subdirectory: flv
    shard_depth: 2
    shard_width: 2
    filename_pattern: '%s\.(flv|mp4)'
    uri_template: '%s'
    type: Stream
tickets:
  backend: redis
  cache_ttl: 5s
  lookup_timeout: 1s
  redis:
    addr: redis:6379
    db: 2
    prefix: "tk:"
rate_limit:
  enabled: false
`
	cfg, err := NewLoader(writeConfig(t, body), "").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.BindResources)
	assert.Equal(t, 30*time.Second, cfg.ContentCacheTTL)
	assert.Equal(t, 2, cfg.Resolvers[0].ShardDepth)
	assert.Equal(t, "flv", cfg.Resolvers[0].Subdirectory)
	assert.Equal(t, "redis:6379", cfg.Tickets.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Tickets.CacheTTL)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoader_DepthZeroKeptWhenWidthGiven(t *testing.T) {
	body := `
invalid_ticket_video: /srv/invalid.flv
resolvers:
  - root: /srv/flat
    shard_depth: 0
    shard_width: 1
    uri_template: '%s'
`
	cfg, err := NewLoader(writeConfig(t, body), "").Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Resolvers[0].ShardDepth)
	assert.Equal(t, "resolver0", cfg.Resolvers[0].Name)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	t.Setenv("STREAMGATE_INVALID_TICKET_VIDEO", "/env/invalid.flv")
	t.Setenv("STREAMGATE_BIND_RESOURCES", "yes")
	t.Setenv("STREAMGATE_TICKET_CACHE_TTL", "10s")
	t.Setenv("STREAMGATE_REDIS_DB", "not-a-number")
	t.Setenv("STREAMGATE_TRUSTED_PROXIES", "10.0.0.0/8, ,192.168.0.0/16")

	l := NewLoader(writeConfig(t, minimalYAML), "")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "/env/invalid.flv", cfg.InvalidTicketVideo)
	assert.True(t, cfg.BindResources)
	assert.Equal(t, 10*time.Second, cfg.Tickets.CacheTTL)
	assert.Equal(t, 0, cfg.Tickets.Redis.DB, "invalid env value falls back")
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, cfg.Server.TrustedProxies)
	assert.Contains(t, l.ConsumedEnvKeys, "STREAMGATE_INVALID_TICKET_VIDEO")
}

func TestLoader_EnvOnly(t *testing.T) {
	t.Setenv("STREAMGATE_INVALID_TICKET_VIDEO", "/srv/invalid.flv")
	t.Setenv("STREAMGATE_CONTENT_ROOT", "/srv/media/")

	cfg, err := NewLoader("", "").Load()
	require.NoError(t, err)
	require.Len(t, cfg.Resolvers, 1)
	assert.Equal(t, "default", cfg.Resolvers[0].Name)
	assert.Equal(t, "file:///srv/media/%s", cfg.Resolvers[0].URITemplate)
	assert.Equal(t, 4, cfg.Resolvers[0].ShardDepth)
}

func TestLoader_StrictErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		unknown bool
	}{
		{
			name:    "unknown field",
			path:    func(t *testing.T) string { return writeConfig(t, minimalYAML+"bouquet: x\n") },
			unknown: true,
		},
		{
			name: "multiple documents",
			path: func(t *testing.T) string { return writeConfig(t, minimalYAML+"---\nlisten: :1\n") },
		},
		{
			name: "not yaml extension",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "cfg.json")
				require.NoError(t, os.WriteFile(p, []byte("{}"), 0o600))
				return p
			},
		},
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
		},
		{
			name: "fails validation",
			path: func(t *testing.T) string { return writeConfig(t, "listen: :8088\n") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.path(t), "").Load()
			require.Error(t, err)
			assert.Equal(t, tt.unknown, errorsIsUnknown(err))
		})
	}
}

func TestLoader_EmptyFileUsesDefaults(t *testing.T) {
	t.Setenv("STREAMGATE_INVALID_TICKET_VIDEO", "/srv/invalid.flv")
	t.Setenv("STREAMGATE_CONTENT_ROOT", "/srv/media")

	cfg, err := NewLoader(writeConfig(t, ""), "").Load()
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.Listen)
}
