// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// CompressionAlgorithm is a negotiated Content-Encoding.
type CompressionAlgorithm int

const (
	AlgorithmNone CompressionAlgorithm = iota
	AlgorithmGzip
	AlgorithmBrotli
	AlgorithmZstd
	AlgorithmDeflate
)

func (a CompressionAlgorithm) encoding() string {
	switch a {
	case AlgorithmGzip:
		return "gzip"
	case AlgorithmBrotli:
		return "br"
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmDeflate:
		return "deflate"
	default:
		return ""
	}
}

func (a CompressionAlgorithm) newWriter(w io.Writer, level int) (io.WriteCloser, error) {
	switch a {
	case AlgorithmZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	case AlgorithmBrotli:
		return brotli.NewWriterLevel(w, level), nil
	case AlgorithmGzip:
		return gzip.NewWriterLevel(w, level)
	case AlgorithmDeflate:
		return flate.NewWriter(w, level)
	default:
		return nil, errors.New("no compression")
	}
}

var compressibleTypes = []string{
	"text/",
	"application/json",
	"application/xml",
	"application/javascript",
	"application/openmetrics-text",
}

// compressionWriter holds back the first minSize bytes so small or
// incompressible responses go out untouched.
type compressionWriter struct {
	http.ResponseWriter
	algorithm CompressionAlgorithm
	level     int
	minSize   int

	status  int
	buf     bytes.Buffer
	encoder io.WriteCloser
	decided bool
}

func (w *compressionWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *compressionWriter) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if w.decided {
		if w.encoder != nil {
			return w.encoder.Write(data)
		}
		return w.ResponseWriter.Write(data)
	}

	w.buf.Write(data)
	if w.buf.Len() < w.minSize {
		return len(data), nil
	}

	if err := w.decide(true); err != nil {
		return 0, err
	}
	return len(data), nil
}

// decide picks compressed or identity output and flushes the held back bytes.
func (w *compressionWriter) decide(allowCompression bool) error {
	w.decided = true
	if w.status == 0 {
		w.status = http.StatusOK
	}

	header := w.Header()
	if allowCompression && w.shouldCompress() {
		encoder, err := w.algorithm.newWriter(w.ResponseWriter, w.level)
		if err == nil {
			header.Set("Content-Encoding", w.algorithm.encoding())
			header.Del("Content-Length")
			w.encoder = encoder
		}
	}

	w.ResponseWriter.WriteHeader(w.status)
	if w.buf.Len() == 0 {
		return nil
	}

	var err error
	if w.encoder != nil {
		_, err = w.encoder.Write(w.buf.Bytes())
	} else {
		_, err = w.ResponseWriter.Write(w.buf.Bytes())
	}
	w.buf.Reset()
	return err
}

func (w *compressionWriter) shouldCompress() bool {
	if w.Header().Get("Content-Encoding") != "" {
		return false
	}
	if w.status < http.StatusOK || w.status == http.StatusNoContent || w.status == http.StatusNotModified {
		return false
	}

	contentType := w.Header().Get("Content-Type")
	for _, prefix := range compressibleTypes {
		if strings.Contains(contentType, prefix) {
			return true
		}
	}
	return false
}

// Flush sends held back bytes uncompressed when the threshold was not reached.
func (w *compressionWriter) Flush() {
	if !w.decided {
		_ = w.decide(w.buf.Len() >= w.minSize)
	}
	if flusher, ok := w.encoder.(interface{ Flush() error }); ok {
		_ = flusher.Flush()
	}
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *compressionWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (w *compressionWriter) close() error {
	if !w.decided {
		if err := w.decide(false); err != nil {
			return err
		}
	}
	if w.encoder != nil {
		return w.encoder.Close()
	}
	return nil
}

// negotiateAlgorithm picks the best encoding the client accepts.
// Preference: zstd, brotli, gzip, deflate, each only when allowed.
func negotiateAlgorithm(acceptEncoding string, preferZstd, preferBrotli bool) CompressionAlgorithm {
	encodings := parseAcceptEncoding(acceptEncoding)

	if preferZstd && encodings["zstd"] > 0 {
		return AlgorithmZstd
	}
	if preferBrotli && encodings["br"] > 0 {
		return AlgorithmBrotli
	}
	if encodings["gzip"] > 0 {
		return AlgorithmGzip
	}
	if encodings["deflate"] > 0 {
		return AlgorithmDeflate
	}
	return AlgorithmNone
}

// parseAcceptEncoding returns the q value of every listed encoding.
// A wildcard grants every encoding not listed explicitly.
func parseAcceptEncoding(acceptEncoding string) map[string]float64 {
	encodings := make(map[string]float64)
	wildcard := -1.0

	for part := range strings.SplitSeq(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		q := 1.0
		for param := range strings.SplitSeq(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(key) != "q" {
				continue
			}
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && parsed >= 0 && parsed <= 1 {
				q = parsed
			}
		}

		if name == "*" {
			wildcard = q
			continue
		}
		encodings[name] = q
	}

	if wildcard >= 0 {
		for _, name := range []string{"zstd", "br", "gzip", "deflate"} {
			if _, listed := encodings[name]; !listed {
				encodings[name] = wildcard
			}
		}
	}

	return encodings
}

// SelectiveCompress compresses compressible responses of at least minSize
// bytes with the best encoding the client accepts.
func SelectiveCompress(minSize, level int, preferZstd, preferBrotli bool) func(http.Handler) http.Handler {
	level = min(max(level, 1), 9)
	if minSize < 0 {
		minSize = 1024
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			algorithm := negotiateAlgorithm(r.Header.Get("Accept-Encoding"), preferZstd, preferBrotli)
			if algorithm == AlgorithmNone || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Accept-Encoding")

			cw := &compressionWriter{
				ResponseWriter: w,
				algorithm:      algorithm,
				level:          level,
				minSize:        minSize,
			}

			next.ServeHTTP(cw, r)
			_ = cw.close()
		})
	}
}
