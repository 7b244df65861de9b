// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidConfig is returned by New for unusable resolver settings.
var ErrInvalidConfig = errors.New("invalid content resolver config")

// Placeholder is substituted in FilenamePattern and URITemplate.
const Placeholder = "%s"

// DeliveryType is the closed set of ways a resolved resource can be served.
type DeliveryType string

const (
	DeliveryStreaming DeliveryType = "streaming"
	DeliveryDownload  DeliveryType = "download"
	DeliveryThumbnail DeliveryType = "thumbnail"
)

// ParseDeliveryType accepts the canonical names plus the legacy
// presentation-type spellings used by older ticket services.
func ParseDeliveryType(s string) (DeliveryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "streaming", "stream":
		return DeliveryStreaming, nil
	case "download":
		return DeliveryDownload, nil
	case "thumbnail", "thumbnails":
		return DeliveryThumbnail, nil
	default:
		return "", fmt.Errorf("%w: unknown delivery type %q", ErrInvalidConfig, s)
	}
}

func (t DeliveryType) String() string { return string(t) }

// Config describes one directory-sharded content tree.
type Config struct {
	Name string
	Root string
	// Subdirectory is joined onto Root; optional.
	Subdirectory    string
	ShardDepth      int
	ShardWidth      int
	FilenamePattern string
	URITemplate     string
	Type            DeliveryType
}

// Dir is the directory the shard tree starts at.
func (c Config) Dir() string {
	if c.Subdirectory == "" {
		return c.Root
	}
	return strings.TrimRight(c.Root, "/") + "/" + strings.Trim(c.Subdirectory, "/")
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	case c.ShardDepth < 0:
		return fmt.Errorf("%w: %s: shard depth must be >= 0, got %d", ErrInvalidConfig, c.Name, c.ShardDepth)
	case c.ShardWidth < 1:
		return fmt.Errorf("%w: %s: shard width must be >= 1, got %d", ErrInvalidConfig, c.Name, c.ShardWidth)
	case !strings.Contains(c.FilenamePattern, Placeholder):
		return fmt.Errorf("%w: %s: filename pattern must contain %s", ErrInvalidConfig, c.Name, Placeholder)
	case !strings.Contains(c.URITemplate, Placeholder):
		return fmt.Errorf("%w: %s: uri template must contain %s", ErrInvalidConfig, c.Name, Placeholder)
	}
	if _, err := ParseDeliveryType(string(c.Type)); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	if _, err := leafPattern(c.FilenamePattern, "probe"); err != nil {
		return fmt.Errorf("%w: %s: filename pattern: %v", ErrInvalidConfig, c.Name, err)
	}
	return nil
}

// leafPattern compiles pattern for one identifier. The match is anchored so
// the whole file name has to match.
func leafPattern(pattern, id string) (*regexp.Regexp, error) {
	expr := strings.ReplaceAll(pattern, Placeholder, regexp.QuoteMeta(id))
	return regexp.Compile("^(?:" + expr + ")$")
}
