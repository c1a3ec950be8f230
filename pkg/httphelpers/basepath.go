// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package httphelpers

import "strings"

// NormalizeBasePath returns "" for the root, otherwise a path with a leading
// slash and no trailing slash.
func NormalizeBasePath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	basePath = strings.Trim(basePath, "/")
	if basePath == "" {
		return ""
	}
	return "/" + basePath
}

// JoinBasePath joins a normalized base path and a suffix.
func JoinBasePath(basePath, suffix string) string {
	base := NormalizeBasePath(basePath)
	suffix = strings.TrimPrefix(suffix, "/")
	if suffix == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + "/" + suffix
}
