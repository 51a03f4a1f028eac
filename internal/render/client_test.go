package render

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderReturnsSolutionHTML(t *testing.T) {
	t.Parallel()

	var captured renderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"solution":{"response":"<html><body>rendered</body></html>"}}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL}, zap.NewNop())

	html, err := client.Render(context.Background(), "https://www.mercari.com/search/?keyword=bag", 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, "<html><body>rendered</body></html>", html)

	require.Equal(t, "request.get", captured.Cmd)
	require.Equal(t, "https://www.mercari.com/search/?keyword=bag", captured.URL)
	require.Equal(t, int64(10000), captured.MaxTimeout)
}

func TestRenderNonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL}, zap.NewNop())

	_, err := client.Render(context.Background(), "https://example.com", time.Second)
	require.Error(t, err)

	var renderErr *Error
	require.True(t, errors.As(err, &renderErr))
	require.Equal(t, http.StatusBadGateway, renderErr.StatusCode)
	require.Equal(t, "https://example.com", renderErr.URL)
}

func TestRenderMalformedEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte("not json"))
		require.NoError(t, err)
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL}, zap.NewNop())

	_, err := client.Render(context.Background(), "https://example.com", time.Second)
	var renderErr *Error
	require.True(t, errors.As(err, &renderErr))
}

func TestRenderProxyUnreachable(t *testing.T) {
	t.Parallel()

	client := New(Config{Endpoint: "http://127.0.0.1:1"}, zap.NewNop())

	_, err := client.Render(context.Background(), "https://example.com", time.Second)
	var renderErr *Error
	require.True(t, errors.As(err, &renderErr))
}

func TestRenderContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Render(ctx, "https://example.com", time.Second)
	require.Error(t, err)
}
