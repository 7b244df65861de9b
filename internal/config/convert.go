// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"github.com/ManuGH/streamgate/internal/content"
	"github.com/ManuGH/streamgate/internal/mapper"
	"github.com/ManuGH/streamgate/internal/telemetry"
	"github.com/ManuGH/streamgate/internal/ticket"
)

// ContentConfig converts r for content.New. Type must already be validated.
func (r ResolverConfig) ContentConfig() content.Config {
	t, _ := content.ParseDeliveryType(r.Type)
	return content.Config{
		Name:            r.Name,
		Root:            r.Root,
		Subdirectory:    r.Subdirectory,
		ShardDepth:      r.ShardDepth,
		ShardWidth:      r.ShardWidth,
		FilenamePattern: r.FilenamePattern,
		URITemplate:     r.URITemplate,
		Type:            t,
	}
}

// StoreOptions converts t for ticket.Open.
func (t TicketConfig) StoreOptions() ticket.Options {
	seed := make([]ticket.Ticket, 0, len(t.Seed))
	for _, s := range t.Seed {
		seed = append(seed, ticket.Ticket{
			ID:             s.ID,
			UserIdentifier: s.UserIdentifier,
			Type:           s.Type,
			Resources:      append([]string(nil), s.Resources...),
			ExpiresAt:      s.ExpiresAt,
		})
	}
	return ticket.Options{
		Backend: t.Backend,
		Path:    t.Path,
		Redis: ticket.RedisConfig{
			Addr:     t.Redis.Addr,
			Password: t.Redis.Password,
			DB:       t.Redis.DB,
			Prefix:   t.Redis.Prefix,
		},
		HTTP: ticket.HTTPConfig{
			BaseURL: t.HTTP.BaseURL,
			Token:   t.HTTP.Token,
			Timeout: t.HTTP.Timeout,
			RPS:     t.HTTP.RPS,
			Burst:   t.HTTP.Burst,
		},
		CacheTTL:         t.CacheTTL,
		LookupTimeout:    t.LookupTimeout,
		BreakerThreshold: t.BreakerThreshold,
		BreakerReset:     t.BreakerReset,
		Seed:             seed,
	}
}

// MapperConfig extracts the playback policy.
func (c AppConfig) MapperConfig() mapper.Config {
	dt, _ := content.ParseDeliveryType(c.DeliveryType)
	return mapper.Config{
		InvalidTicketVideo: c.InvalidTicketVideo,
		PresentationType:   c.PresentationType,
		BindResources:      c.BindResources,
		ContentSource:      mapper.ContentSource(c.ContentSource),
		DeliveryType:       dt,
	}
}

// TracingConfig converts the tracing section.
func (c AppConfig) TracingConfig(service string) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		ServiceName:    service,
		ServiceVersion: c.Version,
		Environment:    c.Telemetry.Environment,
		ExporterType:   c.Telemetry.Exporter,
		Endpoint:       c.Telemetry.Endpoint,
		SamplingRate:   c.Telemetry.SamplingRate,
	}
}
