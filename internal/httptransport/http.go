// Package httptransport provides an http.RoundTripper that logs catalog traffic.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// LoggedTransport adds request logging with slog.
//
// Responses with status code below 400 are logged with INFO level.
// Responses with status code of 400 or higher are logged with WARNING level.
// Transport errors are logged with ERROR level.
// When DEBUG logging is enabled, request and response headers are logged too.
type LoggedTransport struct {
	// Base performs the request. Nil uses http.DefaultTransport.
	Base http.RoundTripper
	// Logger receives the records. Nil uses slog.Default().
	Logger *slog.Logger
}

func (t LoggedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := t.logger()
	isDebug := logger.Enabled(req.Context(), slog.LevelDebug)
	if isDebug {
		logger.Debug("HTTP request", "method", req.Method, "url", req.URL, "header", req.Header.Clone())
	}

	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("HTTP request failed", "method", req.Method, "url", req.URL, "duration", elapsed, "error", err)
		return resp, err
	}

	if isDebug {
		logger.Debug("HTTP response headers", "url", req.URL, "header", resp.Header)
	}
	level := slog.LevelInfo
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	logger.Log(
		context.Background(),
		level,
		"HTTP response",
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode,
		"duration", elapsed,
	)
	return resp, nil
}

func (t LoggedTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t LoggedTransport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}
