// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package premiumize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/streamrank/pkg/streams"
)

const testMagnet = "magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=Show.S01E01"

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...OptFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	opts = append([]OptFunc{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRetryDelay(0)}, opts...)
	return NewClient("SECRETKEY", opts...), &calls
}

func TestDirectDL_Success(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transfer/directdl", r.URL.Path)
		assert.Equal(t, "SECRETKEY", r.URL.Query().Get("apikey"))
		assert.Equal(t, "streamrank-test", r.Header.Get("User-Agent"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, testMagnet, r.PostForm.Get("src"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","content":[
			{"path":"Show/Show.S01E01.mkv","size":524288000,"link":"https://cdn.example/e01"},
			{"path":"Show/Show.S01E02.mkv","size":"734003200","link":"https://cdn.example/e02"},
			{"path":"Show/readme.txt","size":12,"link":""}
		]}`))
	}, WithUserAgent("streamrank-test"))

	files, err := client.DirectDL(t.Context(), testMagnet)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []streams.CachedFile{
		{Path: "Show/Show.S01E01.mkv", Size: 524288000, Link: "https://cdn.example/e01"},
		{Path: "Show/Show.S01E02.mkv", Size: 734003200, Link: "https://cdn.example/e02"},
	}, files)
}

func TestDirectDL_KeepsBaseURLQuery(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/transfer/directdl", r.URL.Path)
		assert.Equal(t, "eu", r.URL.Query().Get("region"))
		assert.Equal(t, "SECRETKEY", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","content":[{"path":"movie.mkv","size":10,"link":"https://cdn.example/movie"}]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient("SECRETKEY", WithBaseURL(srv.URL+"/api?region=eu"), WithHTTPClient(srv.Client()), WithRetryDelay(0))

	files, err := client.DirectDL(t.Context(), testMagnet)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDirectDL_NotCached(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","content":[]}`))
	})

	_, err := client.DirectDL(t.Context(), testMagnet)
	require.ErrorIs(t, err, ErrNotCached)
	assert.Equal(t, int32(1), calls.Load(), "not cached is definitive")
}

func TestDirectDL_ErrorStatusInBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(DirectDLResponse{Status: "error", Message: "customer_id and pin param missing or not logged in"})
	})

	_, err := client.DirectDL(t.Context(), testMagnet)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "not logged in")
}

func TestDirectDL_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) == 1 {
			http.Error(w, "temporarily unavailable", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","content":[{"path":"a.mkv","size":1,"link":"https://cdn.example/a"}]}`))
	})

	files, err := client.DirectDL(t.Context(), testMagnet)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDirectDL_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad apikey=SECRETKEY", http.StatusUnauthorized)
	}, WithRetryAttempts(4))

	_, err := client.DirectDL(t.Context(), testMagnet)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.NotContains(t, err.Error(), "SECRETKEY")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDirectDL_GivesUpAfterAttempts(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithRetryAttempts(3))

	_, err := client.DirectDL(t.Context(), testMagnet)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDirectDL_TransportErrorIsRedacted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient("SECRETKEY", WithBaseURL(baseURL), WithRetryAttempts(1))

	_, err := client.DirectDL(t.Context(), testMagnet)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRETKEY")
}

func TestDirectDL_MissingAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient("  ")
	assert.False(t, client.HasAPIKey())

	_, err := client.DirectDL(t.Context(), testMagnet)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestDirectDL_CanceledContext(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","content":[]}`))
	})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.DirectDL(ctx, testMagnet)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotCached))
}

func TestSize_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{`123`, 123, false},
		{`"456"`, 456, false},
		{`" 789 "`, 789, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`1.5e3`, 1500, false},
		{`"abc"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			var s Size
			err := json.Unmarshal([]byte(tt.in), &s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(ErrNotCached))
	assert.False(t, IsRetryable(&APIError{StatusCode: http.StatusForbidden}))
	assert.True(t, IsRetryable(&APIError{StatusCode: http.StatusServiceUnavailable}))
	assert.True(t, IsRetryable(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
	assert.False(t, IsRetryable(&decodeError{err: errors.New("unexpected EOF")}))
}
