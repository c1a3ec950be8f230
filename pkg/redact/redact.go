// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package redact strips credentials from URLs and errors before they reach logs.
package redact

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Placeholder replaces every redacted value.
const Placeholder = "REDACTED"

var sensitiveParams = map[string]struct{}{
	"apikey":   {},
	"api_key":  {},
	"token":    {},
	"passkey":  {},
	"password": {},
	"secret":   {},
}

var reSensitiveQuery = regexp.MustCompile(`(?i)\b(apikey|api_key|token|passkey|password|secret)=([^&\s"']+)`)

// URLString returns raw with sensitive query values and userinfo passwords replaced.
func URLString(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return reSensitiveQuery.ReplaceAllString(raw, "${1}="+Placeholder)
	}

	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), Placeholder)
		}
	}

	if u.RawQuery != "" {
		q := u.Query()
		changed := false
		for key := range q {
			if _, ok := sensitiveParams[strings.ToLower(key)]; ok {
				q.Set(key, Placeholder)
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}

	return u.String()
}

// String scrubs sensitive query parameters anywhere inside free text.
func String(s string) string {
	return reSensitiveQuery.ReplaceAllString(s, "${1}="+Placeholder)
}

// URLError returns err with the URL of any wrapped *url.Error redacted.
// The *url.Error type survives so callers can keep using errors.As.
func URLError(err error) error {
	if err == nil {
		return nil
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	redacted := &url.Error{
		Op:  urlErr.Op,
		URL: URLString(urlErr.URL),
		Err: urlErr.Err,
	}
	if urlErr == err {
		return redacted
	}

	return &wrappedError{msg: String(err.Error()), inner: redacted}
}

type wrappedError struct {
	msg   string
	inner error
}

func (e *wrappedError) Error() string { return e.msg }

func (e *wrappedError) Unwrap() error { return e.inner }
