// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package mapper turns a streaming host's playback callback into the file to
// play. Every rejected request plays the configured invalid-ticket video;
// only requests without a client pass through untouched.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ManuGH/streamgate/internal/audit"
	"github.com/ManuGH/streamgate/internal/authz"
	"github.com/ManuGH/streamgate/internal/content"
	xglog "github.com/ManuGH/streamgate/internal/log"
	"github.com/ManuGH/streamgate/internal/metrics"
	"github.com/ManuGH/streamgate/internal/query"
	"github.com/ManuGH/streamgate/internal/telemetry"
	"github.com/ManuGH/streamgate/internal/ticket"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FileMapper maps write (publish/record) requests. It is never ticket-gated.
type FileMapper interface {
	MapWriteFile(ctx context.Context, name, ext string) string
}

// PassthroughFileMapper returns the requested name unchanged.
type PassthroughFileMapper struct{}

// MapWriteFile implements FileMapper.
func (PassthroughFileMapper) MapWriteFile(_ context.Context, name, _ string) string { return name }

// Mapper is immutable after New and safe for concurrent use.
type Mapper struct {
	cfg      Config
	store    ticket.Store
	lookup   content.Lookup
	engine   authz.Engine
	writer   FileMapper
	audit    *audit.Logger
	logger   *zerolog.Logger
	tracer   trace.Tracer
	rebindAs string
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Mapper) { m.logger = &l }
}

// WithAudit sends every decision to the audit log.
func WithAudit(a *audit.Logger) Option {
	return func(m *Mapper) { m.audit = a }
}

// WithFileMapper sets the write path delegate.
func WithFileMapper(f FileMapper) Option {
	return func(m *Mapper) {
		if f != nil {
			m.writer = f
		}
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(m *Mapper) { m.tracer = t }
}

// New validates cfg and binds the resolver for cfg.DeliveryType.
func New(cfg Config, store ticket.Store, registry *content.Registry, opts ...Option) (*Mapper, error) {
	if strings.TrimSpace(cfg.InvalidTicketVideo) == "" {
		return nil, errors.New("mapper: invalid ticket video must be configured")
	}
	if store == nil {
		return nil, errors.New("mapper: ticket store is required")
	}
	source, err := ParseContentSource(string(cfg.ContentSource))
	if err != nil {
		return nil, fmt.Errorf("mapper: %w", err)
	}
	cfg.ContentSource = source
	if cfg.DeliveryType == "" {
		cfg.DeliveryType = content.DeliveryStreaming
	}
	lookup, ok := registry.ForType(cfg.DeliveryType)
	if !ok {
		return nil, fmt.Errorf("mapper: no content resolver for delivery type %q", cfg.DeliveryType)
	}

	m := &Mapper{
		cfg:    cfg,
		store:  store,
		lookup: lookup,
		engine: authz.Engine{
			RequiredType:  cfg.PresentationType,
			BindResources: cfg.BindResources,
		},
		writer:   PassthroughFileMapper{},
		tracer:   telemetry.Tracer(telemetry.InstrumentationName),
		rebindAs: filepath.Base(cfg.InvalidTicketVideo),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Config returns the policy the mapper was built with.
func (m *Mapper) Config() Config { return m.cfg }

func (m *Mapper) log(ctx context.Context) zerolog.Logger {
	if m.logger != nil {
		return xglog.WithContext(ctx, *m.logger)
	}
	return xglog.WithComponentFromContext(ctx, "mapper")
}

// ResolveStreamFile decides what file to play for req.
func (m *Mapper) ResolveStreamFile(ctx context.Context, req Request) Result {
	ctx, span := m.tracer.Start(ctx, "playback.resolve",
		trace.WithAttributes(telemetry.PlaybackAttributes(req.Name, req.PresentationType, "")...))
	defer span.End()

	res, err := m.resolve(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(telemetry.DecisionAttributes(string(res.Outcome), res.Reason, res.ContentID, res.Rebind)...)
	if res.TicketID != "" {
		span.SetAttributes(telemetry.PlaybackAttributes("", "", res.TicketID)...)
	}

	m.record(ctx, req, res, err)
	return res
}

func (m *Mapper) resolve(ctx context.Context, req Request) (Result, error) {
	if !req.HasClient {
		return Result{Outcome: OutcomeNoClient, Reason: ReasonNoClient}, nil
	}

	params, err := query.Parse(req.Query)
	if err != nil {
		return m.fallback(OutcomeMalformedQuery, ReasonMalformedQuery, ""), nil
	}

	t, err := m.store.Resolve(xglog.ContextWithTicketID(ctx, params.TicketID), params.TicketID)
	if err != nil || t == nil {
		return m.fallback(OutcomeDenied, ReasonTicketNotFound, params.TicketID), nil
	}

	name := req.Name
	if name == "" {
		name = params.StreamName
	}

	decision := m.engine.Decide(authz.Input{
		Ticket:         t,
		ClientIdentity: req.ClientIdentity,
		HasClient:      req.HasClient,
		RequestedName:  name,
		RequestedType:  req.PresentationType,
	})
	if !decision.Allowed {
		return m.fallback(OutcomeDenied, string(decision.Reason), params.TicketID), nil
	}

	contentID := t.Resource()
	if m.cfg.ContentSource == SourceStream {
		contentID = name
	}
	contentID = content.Clean(contentID)

	resources, err := m.lookup.Resolve(ctx, contentID)
	if err != nil {
		res := m.fallback(OutcomeUnresolved, ReasonResolverError, params.TicketID)
		res.ContentID = contentID
		return res, err
	}
	for _, r := range resources {
		if r.Type != m.lookup.Type() || len(r.URIs) == 0 {
			continue
		}
		return Result{
			Outcome:   OutcomeAllowed,
			Reason:    string(decision.Reason),
			TicketID:  params.TicketID,
			ContentID: contentID,
			Path:      FilePath(r.URIs[0]),
		}, nil
	}

	res := m.fallback(OutcomeUnresolved, ReasonResourceNotResolved, params.TicketID)
	res.ContentID = contentID
	return res, nil
}

func (m *Mapper) fallback(outcome Outcome, reason, ticketID string) Result {
	return Result{
		Outcome:    outcome,
		Reason:     reason,
		TicketID:   ticketID,
		Path:       m.cfg.InvalidTicketVideo,
		Rebind:     true,
		RebindName: m.rebindAs,
	}
}

func (m *Mapper) record(ctx context.Context, req Request, res Result, err error) {
	metrics.RecordDecision(string(res.Outcome), res.Reason)

	logger := m.log(ctx)
	var ev *zerolog.Event
	switch {
	case err != nil:
		ev = logger.Error().Err(err)
	case res.Outcome == OutcomeAllowed || res.Outcome == OutcomeNoClient:
		ev = logger.Info()
	default:
		ev = logger.Warn()
	}
	ev.Str(xglog.FieldEvent, "playback.decision").
		Str(xglog.FieldOutcome, string(res.Outcome)).
		Str(xglog.FieldReason, res.Reason).
		Str(xglog.FieldClient, req.ClientIdentity).
		Str(xglog.FieldStreamName, req.Name).
		Str(xglog.FieldTicketID, res.TicketID).
		Str(xglog.FieldContentID, res.ContentID).
		Str(xglog.FieldResolver, m.lookup.Name()).
		Str(xglog.FieldFinalPath, res.Path).
		Msg("playback request resolved")

	if res.Outcome == OutcomeNoClient {
		return
	}
	m.audit.Playback(ctx, req.ClientIdentity, req.Name, string(res.Outcome), res.Reason, map[string]string{
		xglog.FieldTicketID:  res.TicketID,
		xglog.FieldContentID: res.ContentID,
	})
}

// ResolveWriteFile maps a publish or record request. Writes are not ticket-gated.
func (m *Mapper) ResolveWriteFile(ctx context.Context, name, ext string) string {
	return m.writer.MapWriteFile(ctx, name, ext)
}

// FilePath turns a resource URI into a path: the URI path for file URIs,
// the raw string otherwise.
func FilePath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || !strings.EqualFold(u.Scheme, "file") {
		return uri
	}
	if u.Path == "" {
		return u.Opaque
	}
	return u.Path
}
