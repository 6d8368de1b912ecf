package translate

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedalabs/sedabot/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoogleClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.TranslateConfig{
		Endpoint: srv.URL,
		Timeout:  2 * time.Second,
	}
	return NewGoogleClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGoogleClient_Translate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gtx", r.URL.Query().Get("client"))
		assert.Equal(t, "auto", r.URL.Query().Get("sl"))
		assert.Equal(t, "en", r.URL.Query().Get("tl"))
		assert.Equal(t, "سلام", r.URL.Query().Get("q"))

		_, _ = w.Write([]byte(`[[["Hello","سلام",null,null,10]],null,"fa"]`))
	})

	out, err := client.Translate(context.Background(), "سلام", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
}

func TestGoogleClient_ConcatenatesSegments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[["Hello ","",null],["world","",null]],null,"fa"]`))
	})

	out, err := client.Translate(context.Background(), "x", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", out)
}

func TestGoogleClient_Non200IsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Translate(context.Background(), "x", "en")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGoogleClient_GarbageResponseIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>captcha</html>`))
	})

	_, err := client.Translate(context.Background(), "x", "en")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGoogleClient_NetworkFailureIsUnavailable(t *testing.T) {
	cfg := config.TranslateConfig{
		Endpoint: "http://127.0.0.1:1",
		Timeout:  200 * time.Millisecond,
	}
	client := NewGoogleClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Translate(context.Background(), "x", "en")
	assert.ErrorIs(t, err, ErrUnavailable)
}
