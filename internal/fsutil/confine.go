// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fsutil keeps content lookups inside their configured roots.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot is returned when a path leaves its root lexically or via symlinks.
var ErrEscapesRoot = errors.New("path escapes root")

// RealRoot resolves root to an absolute, symlink-free path. A missing root
// is returned as its absolute form so callers can report "no content"
// instead of failing.
func RealRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root path: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return real, nil
}

// ConfineRelPath joins relTarget onto realRoot (as returned by RealRoot) and
// verifies the result, with symlinks resolved, stays underneath it.
// The target MUST be relative and use forward slashes.
func ConfineRelPath(realRoot, relTarget string) (string, error) {
	if strings.Contains(relTarget, "\\") {
		return "", fmt.Errorf("path contains backslash: %s", relTarget)
	}
	cleanRel := filepath.Clean(filepath.FromSlash(relTarget))
	if filepath.IsAbs(cleanRel) {
		return "", fmt.Errorf("target path must be relative: %s", relTarget)
	}
	if isOutside(cleanRel) {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, relTarget)
	}

	full := filepath.Join(realRoot, cleanRel)
	resolved, err := filepath.EvalSymlinks(full)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		// Nothing on disk to follow; the lexical check above is sufficient.
		return full, nil
	default:
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(realRoot, resolved)
	if err != nil || isOutside(rel) {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, resolved)
	}
	return resolved, nil
}

func isOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// IsRegularFile reports an error unless path exists and is a regular file.
func IsRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return nil
}
