// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

const programID = "0ef8f946-4e90-4c9d-843a-a03504d2ee6c"

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "flv:" + programID + ".flv", want: programID},
		{in: programID, want: programID},
		{in: programID + ".flv", want: programID},
		{in: "mp4:sub:" + programID + ".mp4", want: programID},
		{in: "flv:" + programID, want: programID},
		{in: "a.b.c", want: "a"},
		{in: "x:y.z:w", want: "y"},
		{in: "", want: ""},
		{in: "flv:", want: ""},
		{in: ".flv", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"flv:" + programID + ".flv",
		"x:y.z:w",
		"a:b:c",
		"...",
		"::",
		"plain",
		"mp4:a.b:c.d",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "Clean(Clean(%q))", in)
	}
}

func TestShardPath(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		depth, width int
		want         string
	}{
		{name: "depth 4 width 1", id: programID, depth: 4, width: 1, want: "0/e/f/8"},
		{name: "depth 2 width 2", id: programID, depth: 2, width: 2, want: "0e/f8"},
		{name: "depth 0", id: programID, depth: 0, width: 1, want: ""},
		{name: "short id truncates depth", id: "abc", depth: 4, width: 1, want: "a/b/c"},
		{name: "partial segment dropped", id: "abcde", depth: 3, width: 2, want: "ab/cd"},
		{name: "shorter than width", id: "a", depth: 2, width: 2, want: ""},
		{name: "empty id", id: "", depth: 4, width: 1, want: ""},
		{name: "multibyte", id: "øåæ12345", depth: 4, width: 1, want: "ø/å/æ/1"},
		{name: "multibyte width 2", id: "øåæ12345", depth: 2, width: 2, want: "øå/æ1"},
		{name: "multibyte short", id: "øå", depth: 4, width: 1, want: "ø/å"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShardPath(tt.id, tt.depth, tt.width)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

// Concatenating the shard segments yields the id prefix of depth*width chars.
func TestShardPath_PrefixProperty(t *testing.T) {
	ids := []string{programID, "853a0b31-c944-44a5-8e42-bc9b5bc697be", "abcdefghij"}
	for _, id := range ids {
		for depth := 0; depth <= 5; depth++ {
			for width := 1; width <= 3; width++ {
				got := ShardPath(id, depth, width)
				if depth*width > len(id) {
					continue
				}
				segs := strings.Split(got, "/")
				if depth == 0 {
					assert.Empty(t, got)
					continue
				}
				assert.Len(t, segs, depth)
				for _, s := range segs {
					assert.Len(t, s, width)
				}
				assert.Equal(t, id[:depth*width], strings.Join(segs, ""))
			}
		}
	}
}
