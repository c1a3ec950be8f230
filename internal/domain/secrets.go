// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

// RedactedStr replaces secret values in anything shown to a user.
const RedactedStr = "<redacted>"

// RedactString returns RedactedStr for any non-empty value.
func RedactString(s string) string {
	if s == "" {
		return ""
	}
	return RedactedStr
}

// IsRedactedString reports whether s is the redaction placeholder.
func IsRedactedString(s string) bool {
	return s == RedactedStr
}

// Redacted returns a copy of the config with every credential replaced.
func (c Config) Redacted() Config {
	c.APIKey = RedactString(c.APIKey)
	c.PremiumizeAPIKey = RedactString(c.PremiumizeAPIKey)
	c.CORSAllowedOrigins = append([]string(nil), c.CORSAllowedOrigins...)
	return c
}
