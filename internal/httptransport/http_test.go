package httptransport_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/rickview/internal/httptransport"
)

func newClient(level slog.Level) (*http.Client, *httpmock.MockTransport, *bytes.Buffer) {
	var buf bytes.Buffer
	mock := httpmock.NewMockTransport()
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
	return &http.Client{Transport: httptransport.LoggedTransport{Base: mock, Logger: logger}}, mock, &buf
}

func TestLoggedTransport(t *testing.T) {
	const url = "https://rickandmortyapi.com/api/character/1"

	t.Run("logs 200 at info", func(t *testing.T) {
		client, mock, buf := newClient(slog.LevelInfo)
		mock.RegisterResponder(http.MethodGet, url, httpmock.NewStringResponder(http.StatusOK, "{}"))

		r, err := client.Get(url)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		assert.Contains(t, buf.String(), "level=INFO msg=\"HTTP response\" method=GET url="+url+" status=200")
		assert.NotContains(t, buf.String(), "HTTP request")
	})
	t.Run("logs 404 at warn", func(t *testing.T) {
		client, mock, buf := newClient(slog.LevelInfo)
		mock.RegisterResponder(http.MethodGet, url, httpmock.NewStringResponder(http.StatusNotFound, `{"error":"Character not found"}`))

		r, err := client.Get(url)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
		assert.Contains(t, buf.String(), "level=WARN msg=\"HTTP response\"")
		assert.Contains(t, buf.String(), "status=404")
	})
	t.Run("logs transport errors", func(t *testing.T) {
		client, mock, buf := newClient(slog.LevelInfo)
		mock.RegisterResponder(http.MethodGet, url, httpmock.NewErrorResponder(errors.New("connection refused")))

		_, err := client.Get(url)
		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR msg=\"HTTP request failed\"")
		assert.Contains(t, buf.String(), "connection refused")
	})
	t.Run("logs headers when debugging", func(t *testing.T) {
		client, mock, buf := newClient(slog.LevelDebug)
		mock.RegisterResponder(http.MethodGet, url, httpmock.NewStringResponder(http.StatusOK, "{}"))

		_, err := client.Get(url)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "msg=\"HTTP request\"")
		assert.Contains(t, buf.String(), "msg=\"HTTP response headers\"")
	})
}
