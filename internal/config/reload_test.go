// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_ReloadSwapsConfig(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader, nil)
	ch := make(chan AppConfig, 1)
	h.RegisterListener(ch)

	updated := strings.Replace(minimalYAML, "invalid_ticket.flv", "denied.flv", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	require.NoError(t, h.Reload(context.Background()))

	assert.Equal(t, "/srv/media/static/denied.flv", h.Get().InvalidTicketVideo)
	select {
	case got := <-ch:
		assert.Equal(t, "/srv/media/static/denied.flv", got.InvalidTicketVideo)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolder_FailedReloadKeepsPrevious(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader, nil)
	require.NoError(t, os.WriteFile(path, []byte("nonsense_key: 1\n"), 0o600))

	err = h.Reload(context.Background())
	require.ErrorIs(t, err, ErrUnknownConfigField)
	assert.Equal(t, initial, h.Get())
}

func TestHolder_ListenerFullDoesNotBlock(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader, nil)
	h.RegisterListener(make(chan AppConfig))

	done := make(chan error, 1)
	go func() { done <- h.Reload(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reload blocked on listener")
	}
}

func TestHolder_WatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader, nil)
	h.debounce = 20 * time.Millisecond
	ch := make(chan AppConfig, 4)
	h.RegisterListener(ch)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))
	defer func() {
		cancel()
		h.Stop()
	}()

	updated := strings.Replace(minimalYAML, "invalid_ticket.flv", "watched.flv", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	select {
	case got := <-ch:
		assert.Equal(t, "/srv/media/static/watched.flv", got.InvalidTicketVideo)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload config")
	}
}

func TestHolder_WatcherDisabledWithoutFile(t *testing.T) {
	h := NewHolder(validTestConfig(), NewLoader("", ""), nil)
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}
