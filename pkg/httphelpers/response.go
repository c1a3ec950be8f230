// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package httphelpers

import (
	"io"
	"net/http"
	"strings"
)

// DrainAndClose consumes the remaining response body and closes it to allow connection reuse.
func DrainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// ReadErrorBody reads at most limit bytes of an error response body and
// returns them trimmed. The body is left open.
func ReadErrorBody(resp *http.Response, limit int64) string {
	if resp == nil || resp.Body == nil || limit <= 0 {
		return ""
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, limit))
	return strings.TrimSpace(string(data))
}
