package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:     "htmlstream",
		Writer:   &out,
		Commands: []*cli.Command{newCommand()},
	}
	err := app.Run(context.Background(), append([]string{"htmlstream", "client"}, args...))

	return out.String(), err
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:40117", "/about", "http://localhost:40117/about"},
		{"localhost:40117", "/health", "http://localhost:40117/health"},
		{"http://example.com/app/", "about", "http://example.com/app/about"},
	}

	for _, tt := range tests {
		got, err := resolve(tt.base, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<p>%s</p>", r.URL.Path)
	}))
	defer srv.Close()

	out, err := run(t, "--client-url", srv.URL, "get", "/about")
	require.NoError(t, err)
	assert.Equal(t, "<p>/about</p>", out)
}

func TestGet_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := run(t, "--client-url", srv.URL, "get", "/missing")
	assert.ErrorContains(t, err, "404")
}

func TestHealth_Retries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	out, err := run(t, "--client-url", srv.URL, "--client-retries", "2", "health")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHealth_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := run(t, "--client-url", srv.URL, "--client-retries", "0", "health")
	require.ErrorIs(t, err, ErrUnhealthy)
	assert.Equal(t, int32(1), calls.Load())
}
