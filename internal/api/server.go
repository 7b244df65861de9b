// SPDX-License-Identifier: MIT

// Package api exposes the playback gate over HTTP: the streaming host's
// callback hooks, a JSON resolve endpoint and the operational probes.
package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ManuGH/streamgate/internal/api/middleware"
	"github.com/ManuGH/streamgate/internal/audit"
	"github.com/ManuGH/streamgate/internal/health"
	"github.com/ManuGH/streamgate/internal/mapper"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the HTTP surface.
type Config struct {
	// TracingService names spans; empty disables HTTP tracing.
	TracingService string
	// RateLimitRequests per RateLimitWindow per client; 0 disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// TrustedProxies lists CIDRs whose X-Forwarded-For header is honoured.
	TrustedProxies []string
}

// Server routes callback requests to the current mapper. The mapper is
// swapped atomically on config reload; in-flight requests keep the one
// they started with.
type Server struct {
	cfg     Config
	mapper  atomic.Pointer[mapper.Mapper]
	health  *health.Manager
	audit   *audit.Logger
	proxies trustedProxies
	router  chi.Router
}

// New builds the server and its router. m may be nil until SetMapper is called.
func New(cfg Config, m *mapper.Mapper, hm *health.Manager, auditLogger *audit.Logger) *Server {
	if hm == nil {
		hm = health.NewManager("")
	}
	s := &Server{
		cfg:     cfg,
		health:  hm,
		audit:   auditLogger,
		proxies: parseTrustedProxies(cfg.TrustedProxies),
	}
	if m != nil {
		s.mapper.Store(m)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// SetMapper replaces the mapper used for new requests.
func (s *Server) SetMapper(m *mapper.Mapper) { s.mapper.Store(m) }

// Mapper returns the mapper currently serving requests.
func (s *Server) Mapper() *mapper.Mapper { return s.mapper.Load() }

func (s *Server) routes() chi.Router {
	stack := middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
	}
	r := middleware.NewRouter(stack)

	// Probes stay outside the rate limit so orchestration never gets 429s.
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimitRequests > 0 {
			r.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestLimit: s.cfg.RateLimitRequests,
				WindowSize:   s.cfg.RateLimitWindow,
				KeyFunc: func(r *http.Request) (string, error) {
					return s.proxies.clientIP(r), nil
				},
				OnLimit: func(r *http.Request) {
					s.audit.RateLimitExceeded(s.proxies.clientIP(r), r.URL.Path, s.cfg.RateLimitRequests)
				},
			}))
		}
		r.Post("/hooks/on_play", s.handleOnPlay)
		r.Post("/hooks/on_publish", s.handleOnPublish)
		r.Get("/api/v1/resolve", s.handleResolve)
	})
	return r
}
