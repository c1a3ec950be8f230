// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package stringutils

import (
	"testing"
)

func TestInternNormalized(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
		{"info hash upper", "  C12FE1C06BBA254A9DC9F519B335AA7C1367A88A ", "c12fe1c06bba254a9dc9f519b335aa7c1367a88a"},
		{"already normalized", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InternNormalized(tt.input)
			if got != tt.want {
				t.Errorf("InternNormalized() = %q, want %q", got, tt.want)
			}
		})
	}
}
