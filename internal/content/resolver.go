// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package content maps content identifiers onto files in sharded directory
// trees, e.g. "0ef8f946-..." with depth 4 and width 1 lives in "0/e/f/8/".
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ManuGH/streamgate/internal/metrics"
)

// Resource is one way to deliver a piece of content. Only URIs[0] is used
// by current callers.
type Resource struct {
	Type DeliveryType `json:"type"`
	URIs []string     `json:"uris"`
}

// Lookup is implemented by Resolver and by wrappers around it.
type Lookup interface {
	Name() string
	Type() DeliveryType
	// Resolve returns the resources for id. An empty result with a nil
	// error means the content does not exist.
	Resolve(ctx context.Context, id string) ([]Resource, error)
}

// Resolver looks up identifiers in one sharded tree. It is immutable and
// safe for concurrent use.
type Resolver struct {
	cfg     Config
	storage Storage
}

// New validates cfg and builds a resolver reading from storage.
func New(cfg Config, storage Storage) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, fmt.Errorf("%w: %s: storage is required", ErrInvalidConfig, cfg.Name)
	}
	cfg.Type, _ = ParseDeliveryType(string(cfg.Type))
	return &Resolver{cfg: cfg, storage: storage}, nil
}

// NewFS builds a resolver over the local directory cfg.Dir().
func NewFS(cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := NewFSStorage(cfg.Dir())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, cfg.Name, err)
	}
	return New(cfg, st)
}

// Name implements Lookup.
func (r *Resolver) Name() string { return r.cfg.Name }

// Type implements Lookup.
func (r *Resolver) Type() DeliveryType { return r.cfg.Type }

// Config returns a copy of the resolver settings.
func (r *Resolver) Config() Config { return r.cfg }

// Resolve implements Lookup. The shard directory is listed once and the
// first entry, in lexical order, matching the filename pattern wins.
func (r *Resolver) Resolve(ctx context.Context, id string) ([]Resource, error) {
	clean := Clean(id)
	if clean == "" {
		metrics.RecordContentLookup(r.cfg.Name, "not_found")
		return nil, nil
	}

	re, err := leafPattern(r.cfg.FilenamePattern, clean)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", r.cfg.Name, err)
	}

	shard := ShardPath(clean, r.cfg.ShardDepth, r.cfg.ShardWidth)
	names, err := r.storage.List(ctx, shard)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.RecordContentLookup(r.cfg.Name, "not_found")
			return nil, nil
		}
		metrics.RecordContentLookup(r.cfg.Name, "error")
		return nil, fmt.Errorf("content %s: list %q: %w", r.cfg.Name, shard, err)
	}

	for _, name := range names {
		if !re.MatchString(name) {
			continue
		}
		rel := name
		if shard != "" {
			rel = shard + "/" + name
		}
		metrics.RecordContentLookup(r.cfg.Name, "found")
		return []Resource{{
			Type: r.cfg.Type,
			URIs: []string{strings.ReplaceAll(r.cfg.URITemplate, Placeholder, rel)},
		}}, nil
	}

	metrics.RecordContentLookup(r.cfg.Name, "not_found")
	return nil, nil
}
