// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package content

import (
	"strings"
	"unicode/utf8"
)

// Clean reduces a stream name such as "flv:0ef8....flv" to the bare content
// identifier: everything from the first '.' is dropped, then everything up to
// and including the last ':'. Clean is idempotent.
func Clean(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// ShardPath returns the relative shard directory for id: the first
// depth*width characters split into depth segments of width characters.
//
// When id is shorter than depth*width, only the whole segments that fit are
// used. An id shorter than width therefore lives at the root ("").
func ShardPath(id string, depth, width int) string {
	if depth <= 0 || width <= 0 {
		return ""
	}
	if n := utf8.RuneCountInString(id) / width; n < depth {
		depth = n
	}
	if depth == 0 {
		return ""
	}

	runes := []rune(id)
	var b strings.Builder
	b.Grow(len(id) + depth - 1)
	for i := 0; i < depth; i++ {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(string(runes[i*width : (i+1)*width]))
	}
	return b.String()
}
