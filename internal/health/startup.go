// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/streamgate/internal/config"
	"github.com/ManuGH/streamgate/internal/log"
	"github.com/rs/zerolog"
)

// PerformStartupChecks validates the environment before the server starts.
// Missing content roots and a missing fallback video only warn; a store
// path that cannot be written is fatal.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	switch cfg.Tickets.Backend {
	case "badger", "sqlite":
		if cfg.Tickets.Path != "" {
			if err := checkWritableDir(logger, parentDir(cfg.Tickets.Backend, cfg.Tickets.Path)); err != nil {
				return fmt.Errorf("ticket store path check failed: %w", err)
			}
		}
	}

	for _, r := range cfg.Resolvers {
		res := NewDirChecker(r.Name, r.ContentConfig().Dir()).Check(context.Background())
		if res.Status != StatusHealthy {
			logger.Warn().Str("resolver", r.Name).Str(log.FieldPath, r.Root).Str("error", res.Error).
				Msg("content root not available yet")
			continue
		}
		logger.Info().Str("resolver", r.Name).Str(log.FieldPath, r.Root).Msg("content root is readable")
	}

	if filepath.IsAbs(cfg.InvalidTicketVideo) {
		if res := NewFileChecker("invalid_ticket_video", cfg.InvalidTicketVideo).Check(context.Background()); res.Status != StatusHealthy {
			logger.Warn().Str(log.FieldPath, cfg.InvalidTicketVideo).Str("error", res.Error).
				Msg("fallback video is not readable from this host")
		}
	}

	logger.Info().Msg("all startup checks passed")
	return nil
}

// parentDir returns the directory that must be writable for the backend:
// badger takes a directory, sqlite a database file.
func parentDir(backend, path string) string {
	if backend == "sqlite" {
		return filepath.Dir(path)
	}
	return path
}

func checkWritableDir(logger zerolog.Logger, path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = os.Remove(testFile)

	logger.Info().Str(log.FieldPath, path).Msg("ticket store directory is writable")
	return nil
}
