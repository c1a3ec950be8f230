// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_CachesTransform(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	n := NewNormalizer(time.Minute, func(s string) string {
		calls.Add(1)
		return strings.ToUpper(s)
	})

	assert.Equal(t, "FRIENDS", n.Normalize("friends"))
	assert.Equal(t, "FRIENDS", n.Normalize("friends"))
	assert.Equal(t, int32(1), calls.Load())

	n.Clear("friends")
	assert.Equal(t, "FRIENDS", n.Normalize("friends"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestNormalizeUnicode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Shōgun", "Shogun"},
		{"Amélie", "Amelie"},
		{"Björk", "Bjork"},
		{"Æon Flux", "AEon Flux"},
		{"Straße", "Strasse"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NormalizeUnicode(tt.input))
		})
	}
}
