package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	cfg := &config.Config{OAuth: config.OAuthConfig{RedirectHost: "127.0.0.1", RedirectPort: 0}}
	return NewServer(cfg, auth.NewService(cfg))
}

func TestServer_Receive(t *testing.T) {
	srv := newTestServer()
	ln, err := srv.Listen()
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	type result struct {
		fragment string
		err      error
	}
	done := make(chan result, 1)
	go func() {
		fragment, err := srv.Receive(context.Background(), ln)
		done <- result{fragment, err}
	}()

	resp, err := http.Get(base + "/discover")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(base+"/fragment", "application/json", strings.NewReader(`{"fragment":"session_id=abc123"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "session_id=abc123", r.fragment)
	case <-time.After(5 * time.Second):
		t.Fatal("receiver did not return the fragment")
	}
}

func TestServer_ReceiveCancelled(t *testing.T) {
	srv := newTestServer()
	ln, err := srv.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = srv.Receive(ctx, ln)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServer_Addr(t *testing.T) {
	cfg := &config.Config{OAuth: config.OAuthConfig{RedirectHost: "localhost", RedirectPort: 8765}}
	srv := NewServer(cfg, auth.NewService(cfg))
	assert.Equal(t, "localhost:8765", srv.Addr())
}
