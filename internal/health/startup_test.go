// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/streamgate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startupConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.InvalidTicketVideo = filepath.Join(t.TempDir(), "missing.flv")
	cfg.Resolvers = []config.ResolverConfig{{Name: "stream", Root: filepath.Join(t.TempDir(), "absent")}}
	return cfg
}

func TestPerformStartupChecks_WarningsOnly(t *testing.T) {
	require.NoError(t, PerformStartupChecks(context.Background(), startupConfig(t)))
}

func TestPerformStartupChecks_CreatesStoreDir(t *testing.T) {
	cfg := startupConfig(t)
	cfg.Tickets.Backend = "sqlite"
	cfg.Tickets.Path = filepath.Join(t.TempDir(), "db", "tickets.db")

	require.NoError(t, PerformStartupChecks(context.Background(), cfg))
	info, err := os.Stat(filepath.Dir(cfg.Tickets.Path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPerformStartupChecks_StorePathIsFile(t *testing.T) {
	cfg := startupConfig(t)
	file := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	cfg.Tickets.Backend = "badger"
	cfg.Tickets.Path = file

	assert.Error(t, PerformStartupChecks(context.Background(), cfg))
}

func TestParentDir(t *testing.T) {
	assert.Equal(t, "/var/lib/sg", parentDir("sqlite", "/var/lib/sg/tickets.db"))
	assert.Equal(t, "/var/lib/sg/badger", parentDir("badger", "/var/lib/sg/badger"))
}
