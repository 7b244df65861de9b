// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ManuGH/streamgate/internal/fsutil"
)

// Storage lists a read-only content tree.
type Storage interface {
	// List returns the sorted names of the non-directory entries in dir,
	// relative to the storage root ("" is the root itself). A missing
	// directory yields an error wrapping fs.ErrNotExist.
	List(ctx context.Context, dir string) ([]string, error)
}

// FSStorage lists a local directory tree. Lookups never leave the root,
// not even through symlinks.
type FSStorage struct {
	root string
}

// NewFSStorage resolves root once. A root that does not exist yet is
// accepted; lookups then report no content until it appears.
func NewFSStorage(root string) (*FSStorage, error) {
	real, err := fsutil.RealRoot(root)
	if err != nil {
		return nil, err
	}
	return &FSStorage{root: real}, nil
}

// Root returns the resolved root directory.
func (s *FSStorage) Root() string { return s.root }

// List implements Storage.
func (s *FSStorage) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	full, err := fsutil.ConfineRelPath(s.root, dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// MemoryStorage is an in-memory tree for fixtures and tests.
type MemoryStorage struct {
	mu   sync.RWMutex
	dirs map[string][]string
}

// NewMemoryStorage returns a tree containing the given slash-separated file paths.
func NewMemoryStorage(files ...string) *MemoryStorage {
	s := &MemoryStorage{dirs: make(map[string][]string)}
	for _, f := range files {
		s.Add(f)
	}
	return s
}

// Add inserts a file and all of its parent directories.
func (s *MemoryStorage) Add(file string) {
	file = strings.Trim(path.Clean("/"+file), "/")
	dir, name := path.Split(file)
	dir = strings.TrimSuffix(dir, "/")

	s.mu.Lock()
	defer s.mu.Unlock()
	for d := dir; ; d = parent(d) {
		if _, ok := s.dirs[d]; !ok {
			s.dirs[d] = nil
		}
		if d == "" {
			break
		}
	}
	names := s.dirs[dir]
	i := sort.SearchStrings(names, name)
	if i < len(names) && names[i] == name {
		return
	}
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = name
	s.dirs[dir] = names
}

// List implements Storage.
func (s *MemoryStorage) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names, ok := s.dirs[strings.Trim(dir, "/")]
	if !ok {
		return nil, fmt.Errorf("list %q: %w", dir, fs.ErrNotExist)
	}
	return append([]string(nil), names...), nil
}

func parent(dir string) string {
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		return dir[:i]
	}
	return ""
}
