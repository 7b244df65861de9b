// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ManuGH/streamgate/internal/api"
	"github.com/ManuGH/streamgate/internal/audit"
	"github.com/ManuGH/streamgate/internal/cache"
	"github.com/ManuGH/streamgate/internal/config"
	"github.com/ManuGH/streamgate/internal/content"
	"github.com/ManuGH/streamgate/internal/health"
	xglog "github.com/ManuGH/streamgate/internal/log"
	"github.com/ManuGH/streamgate/internal/mapper"
	"github.com/ManuGH/streamgate/internal/telemetry"
	"github.com/ManuGH/streamgate/internal/ticket"
	"github.com/rs/zerolog"
)

// app owns every long-lived component of the daemon.
type app struct {
	logger  zerolog.Logger
	audit   *audit.Logger
	loader  *config.Loader
	holder  *config.Holder
	tracing *telemetry.Provider
	tickets *ticket.Opened
	server  *api.Server
	httpSrv *http.Server

	mu        sync.Mutex
	cfg       config.AppConfig
	stopCache func()
}

// newApp wires the components in dependency order: telemetry, ticket
// store, content registry, mapper, HTTP server.
func newApp(ctx context.Context, cfg config.AppConfig, loader *config.Loader) (*app, error) {
	a := &app{
		logger: xglog.WithComponent("daemon"),
		audit:  audit.NewLogger(),
		loader: loader,
		cfg:    cfg,
	}

	tp, err := telemetry.NewProvider(ctx, cfg.TracingConfig(serviceName))
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracing = tp

	opened, err := ticket.Open(ctx, cfg.Tickets.StoreOptions(), xglog.WithComponent("tickets"))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("open ticket store: %w", err)
	}
	a.tickets = opened

	m, stopCache, err := buildMapper(cfg, opened.Store, a.audit)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.stopCache = stopCache

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewPingChecker("tickets", opened.Ping))
	for _, r := range cfg.Resolvers {
		hm.RegisterChecker(health.NewDirChecker("content:"+r.Name, r.ContentConfig().Dir()))
	}

	a.server = api.New(apiConfig(cfg), m, hm, a.audit)
	a.httpSrv = &http.Server{
		Addr:              cfg.Listen,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	if loader != nil {
		a.holder = config.NewHolder(cfg, loader, a.audit)
	}
	return a, nil
}

func apiConfig(cfg config.AppConfig) api.Config {
	out := api.Config{TrustedProxies: cfg.Server.TrustedProxies}
	if cfg.Telemetry.Enabled {
		out.TracingService = serviceName
	}
	if cfg.RateLimit.Enabled {
		out.RateLimitRequests = cfg.RateLimit.Requests
		out.RateLimitWindow = cfg.RateLimit.Window
	}
	return out
}

// buildRegistry creates one filesystem resolver per configured tree,
// each behind a result cache when ttl is positive. The returned func
// stops the cache janitors.
func buildRegistry(resolvers []config.ResolverConfig, ttl time.Duration) (*content.Registry, func(), error) {
	var stops []func()
	stopAll := func() {
		for _, s := range stops {
			s()
		}
	}

	lookups := make([]content.Lookup, 0, len(resolvers))
	for _, rc := range resolvers {
		r, err := content.NewFS(rc.ContentConfig())
		if err != nil {
			stopAll()
			return nil, nil, fmt.Errorf("resolver %s: %w", rc.Name, err)
		}
		var l content.Lookup = r
		if ttl > 0 {
			mem := cache.NewMemory[[]content.Resource](ttl * 4)
			stops = append(stops, mem.Stop)
			l = content.NewCached(r, mem, ttl)
		}
		lookups = append(lookups, l)
	}

	reg, err := content.NewRegistry(lookups...)
	if err != nil {
		stopAll()
		return nil, nil, err
	}
	return reg, stopAll, nil
}

func buildMapper(cfg config.AppConfig, store ticket.Store, auditLogger *audit.Logger) (*mapper.Mapper, func(), error) {
	reg, stop, err := buildRegistry(cfg.Resolvers, cfg.ContentCacheTTL)
	if err != nil {
		return nil, nil, err
	}
	m, err := mapper.New(cfg.MapperConfig(), store, reg,
		mapper.WithAudit(auditLogger),
		mapper.WithLogger(xglog.WithComponent("mapper")),
		mapper.WithTracer(telemetry.Tracer(telemetry.InstrumentationName)),
	)
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("build mapper: %w", err)
	}
	return m, stop, nil
}

// applyConfig swaps in a mapper built from cfg. The ticket store, listen
// address and middleware stack are kept; those need a restart.
func (a *app) applyConfig(cfg config.AppConfig) error {
	m, stop, err := buildMapper(cfg, a.tickets.Store, a.audit)
	if err != nil {
		return err
	}
	a.server.SetMapper(m)

	a.mu.Lock()
	oldStop := a.stopCache
	a.stopCache = stop
	a.cfg = cfg
	a.mu.Unlock()

	if oldStop != nil {
		oldStop()
	}
	a.logger.Info().
		Str(xglog.FieldEvent, "mapper.swapped").
		Int("resolvers", len(cfg.Resolvers)).
		Msg("playback policy updated from reloaded configuration")
	return nil
}

// run serves until ctx is cancelled or the listener fails, then shuts
// down gracefully.
func (a *app) run(ctx context.Context) error {
	reloads := make(chan config.AppConfig, 1)
	if a.holder != nil {
		a.holder.RegisterListener(reloads)
		if err := a.holder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str(xglog.FieldEvent, "config.watcher_failed").
				Msg("config hot reload unavailable")
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.httpSrv.Addr).Msg("http server listening")
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err, ok := <-serveErr:
			if ok {
				runErr = fmt.Errorf("http server: %w", err)
			}
			break loop
		case cfg := <-reloads:
			if err := a.applyConfig(cfg); err != nil {
				a.logger.Error().Err(err).Str(xglog.FieldEvent, "mapper.swap_failed").
					Msg("keeping previous playback policy")
			}
		}
	}

	a.mu.Lock()
	timeout := a.cfg.Server.ShutdownTimeout
	a.mu.Unlock()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http server shutdown failed")
	}
	a.close(shutdownCtx)
	return runErr
}

// close releases resources in reverse start order.
func (a *app) close(ctx context.Context) {
	if a.holder != nil {
		a.holder.Stop()
	}
	a.mu.Lock()
	if a.stopCache != nil {
		a.stopCache()
		a.stopCache = nil
	}
	a.mu.Unlock()
	if a.tickets != nil {
		if err := a.tickets.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("closing ticket store")
		}
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("flushing traces")
	}
}
