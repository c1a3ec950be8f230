// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package premiumize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const statusSuccess = "success"

// DirectDLResponse is the body of transfer/directdl.
type DirectDLResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Content []ContentItem `json:"content"`
}

// ContentItem is one file of a cached transfer.
type ContentItem struct {
	Path            string `json:"path"`
	Size            Size   `json:"size"`
	Link            string `json:"link"`
	StreamLink      string `json:"stream_link,omitempty"`
	TranscodeStatus string `json:"transcode_status,omitempty"`
}

// Size is a byte count the API sends either as a number or as a numeric string.
type Size int64

func (s *Size) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*s = 0
			return nil
		}
		n, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", str, err)
		}
		*s = Size(n)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid size %s: %w", data, err)
	}
	*s = Size(n)
	return nil
}
