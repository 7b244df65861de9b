// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "errors"

func errorsIsUnknown(err error) bool { return errors.Is(err, ErrUnknownConfigField) }

func validTestConfig() AppConfig {
	cfg := Defaults()
	cfg.InvalidTicketVideo = "/srv/invalid.flv"
	cfg.Resolvers = []ResolverConfig{{
		Name:            "stream",
		Root:            "/srv/media",
		ShardDepth:      4,
		ShardWidth:      1,
		FilenamePattern: DefaultFilenamePattern,
		URITemplate:     "file:///srv/media/%s",
		Type:            "streaming",
	}}
	return cfg
}
