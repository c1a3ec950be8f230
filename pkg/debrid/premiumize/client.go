// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package premiumize is a minimal client for the Premiumize cache lookup endpoint.
package premiumize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/streamrank/pkg/httphelpers"
	"github.com/autobrr/streamrank/pkg/redact"
	"github.com/autobrr/streamrank/pkg/streams"
)

const (
	DefaultBaseURL       = "https://www.premiumize.me/api"
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 2
	defaultUserAgent     = "streamrank"

	maxErrorBodyBytes    = 64 * 1024
	maxResponseBodyBytes = 8 * 1024 * 1024
)

// Client talks to the Premiumize API.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	userAgent     string
	retryAttempts uint
	retryDelay    time.Duration
}

// OptFunc configures a Client.
type OptFunc func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) OptFunc {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) OptFunc {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) OptFunc {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetryAttempts sets the total number of attempts per request. Values below 1 mean one attempt.
func WithRetryAttempts(attempts int) OptFunc {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retryAttempts = uint(attempts)
	}
}

// WithRetryDelay sets the base backoff delay between attempts.
func WithRetryDelay(d time.Duration) OptFunc {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// NewClient creates a client bound to apiKey.
func NewClient(apiKey string, opts ...OptFunc) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		apiKey:        strings.TrimSpace(apiKey),
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		userAgent:     defaultUserAgent,
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HasAPIKey reports whether the client can make requests.
func (c *Client) HasAPIKey() bool {
	return c != nil && c.apiKey != ""
}

// DirectDL asks the provider for the cached files of src, a magnet link.
func (c *Client) DirectDL(ctx context.Context, src string) ([]streams.CachedFile, error) {
	if !c.HasAPIKey() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("premiumize: source is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var files []streams.CachedFile
	err := retry.Do(
		func() error {
			result, err := c.directDL(ctx, src)
			if err != nil {
				return err
			}
			files = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Uint("attempt", n+1).
				Err(redact.URLError(err)).
				Msg("premiumize: retrying directdl")
		}),
	)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (c *Client) directDL(ctx context.Context, src string) ([]streams.CachedFile, error) {
	endpoint, err := url.JoinPath(c.baseURL, "transfer", "directdl")
	if err != nil {
		return nil, fmt.Errorf("premiumize: build endpoint: %w", err)
	}

	form := url.Values{}
	form.Set("src", src)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("premiumize: build request: %w", redact.URLError(err))
	}

	query := req.URL.Query()
	query.Set("apikey", c.apiKey)
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("premiumize: request failed: %w", redact.URLError(err))
	}
	defer httphelpers.DrainAndClose(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    redact.String(httphelpers.ReadErrorBody(resp, maxErrorBodyBytes)),
		}
	}

	var payload DirectDLResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodyBytes)).Decode(&payload); err != nil {
		return nil, &decodeError{err: err}
	}

	if !strings.EqualFold(payload.Status, statusSuccess) {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
	}
	if len(payload.Content) == 0 {
		return nil, ErrNotCached
	}

	files := make([]streams.CachedFile, 0, len(payload.Content))
	for _, item := range payload.Content {
		if item.Link == "" {
			continue
		}
		files = append(files, streams.CachedFile{
			Path: item.Path,
			Size: int64(item.Size),
			Link: item.Link,
		})
	}
	if len(files) == 0 {
		return nil, ErrNotCached
	}

	return files, nil
}
