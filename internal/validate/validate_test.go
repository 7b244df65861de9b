// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name  string
		check func(v *Validator)
		ok    bool
	}{
		{"url ok", func(v *Validator) { v.URL("u", "https://tickets.local", []string{"http", "https"}) }, true},
		{"url empty", func(v *Validator) { v.URL("u", "", nil) }, false},
		{"url no host", func(v *Validator) { v.URL("u", "http://", nil) }, false},
		{"url scheme", func(v *Validator) { v.URL("u", "ftp://tickets.local", []string{"http"}) }, false},
		{"port ok", func(v *Validator) { v.Port("p", 8088) }, true},
		{"port zero", func(v *Validator) { v.Port("p", 0) }, false},
		{"port high", func(v *Validator) { v.Port("p", 70000) }, false},
		{"not empty", func(v *Validator) { v.NotEmpty("s", "x") }, true},
		{"whitespace", func(v *Validator) { v.NotEmpty("s", "  ") }, false},
		{"one of", func(v *Validator) { v.OneOf("b", "redis", []string{"memory", "redis"}) }, true},
		{"not one of", func(v *Validator) { v.OneOf("b", "etcd", []string{"memory", "redis"}) }, false},
		{"positive", func(v *Validator) { v.Positive("n", 1) }, true},
		{"not positive", func(v *Validator) { v.Positive("n", 0) }, false},
		{"non-negative", func(v *Validator) { v.NonNegative("n", 0) }, true},
		{"negative", func(v *Validator) { v.NonNegative("n", -1) }, false},
		{"hostport", func(v *Validator) { v.HostPort("l", ":8088") }, true},
		{"hostport ip", func(v *Validator) { v.HostPort("l", "127.0.0.1:6379") }, true},
		{"hostport missing port", func(v *Validator) { v.HostPort("l", "localhost") }, false},
		{"hostport bad port", func(v *Validator) { v.HostPort("l", ":http") }, false},
		{"abs path", func(v *Validator) { v.AbsolutePath("r", "/srv/media") }, true},
		{"relative path", func(v *Validator) { v.AbsolutePath("r", "media") }, false},
		{"empty path", func(v *Validator) { v.AbsolutePath("r", "") }, false},
		{"regexp", func(v *Validator) { v.Regexp("f", `%s\.flv`, "%s") }, true},
		{"regexp broken", func(v *Validator) { v.Regexp("f", `%s(\.flv`, "%s") }, false},
		{"contains", func(v *Validator) { v.Contains("t", "file:///srv/%s", "%s") }, true},
		{"missing placeholder", func(v *Validator) { v.Contains("t", "file:///srv", "%s") }, false},
		{"fraction", func(v *Validator) { v.Fraction("s", 0.25) }, true},
		{"fraction high", func(v *Validator) { v.Fraction("s", 1.5) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			tt.check(v)
			assert.Equal(t, tt.ok, v.IsValid(), "%v", v.Errors())
		})
	}
}

func TestValidator_AccumulatesErrors(t *testing.T) {
	v := New()
	v.NotEmpty("invalid_ticket_video", "")
	v.Positive("resolvers[0].shard_width", 0)
	require.False(t, v.IsValid())

	err := v.Err()
	require.Error(t, err)

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	fields := []string{ve.Errors()[0].Field, ve.Errors()[1].Field}
	assert.Equal(t, []string{"invalid_ticket_video", "resolvers[0].shard_width"}, fields)
	assert.Contains(t, err.Error(), "; ")
}

func TestValidator_NoErrors(t *testing.T) {
	v := New()
	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())
}

func TestError_Message(t *testing.T) {
	e := Error{Field: "listen", Message: "invalid address"}
	assert.Equal(t, "validation failed for listen: invalid address", e.Error())
}
