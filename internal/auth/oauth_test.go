package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/brizzai/unhinged/internal/config"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(&config.Config{
		OAuth: config.OAuthConfig{RedirectHost: "127.0.0.1", RedirectPort: 8765},
	})
}

func TestAuthorizeURL(t *testing.T) {
	svc := newTestService()
	assert.Equal(t, "http://127.0.0.1:8765/discover", svc.RedirectURL())

	got := svc.AuthorizeURL()
	assert.Equal(t, "https://auth.emergentagent.com/?redirect=http%3A%2F%2F127.0.0.1%3A8765%2Fdiscover", got)

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, svc.RedirectURL(), parsed.Query().Get("redirect"))
}

func TestService_Deliver(t *testing.T) {
	svc := newTestService()

	assert.True(t, svc.Deliver("session_id=one"))
	assert.False(t, svc.Deliver("session_id=two"), "only the first return is kept")
	assert.Equal(t, "session_id=one", <-svc.Fragments())
}

func TestService_Routes(t *testing.T) {
	svc := newTestService()
	router := mux.NewRouter()
	svc.RegisterRoutes(router)
	handler := svc.WrapWithMiddleware(router)

	serve := func(method, path, body, remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("bridge page", func(t *testing.T) {
		rec := serve(http.MethodGet, "/discover", "", "127.0.0.1:50000")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), `"/fragment"`)
		assert.Contains(t, rec.Body.String(), "window.location.hash")
	})

	t.Run("remote callers are rejected", func(t *testing.T) {
		rec := serve(http.MethodGet, "/discover", "", "203.0.113.7:50000")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("empty fragment", func(t *testing.T) {
		rec := serve(http.MethodPost, "/fragment", `{"fragment":""}`, "[::1]:50000")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(http.MethodPost, "/fragment", `{`, "127.0.0.1:50000")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fragment delivered once", func(t *testing.T) {
		rec := serve(http.MethodPost, "/fragment", `{"fragment":"#session_id=abc"}`, "127.0.0.1:50000")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())

		rec = serve(http.MethodPost, "/fragment", `{"fragment":"session_id=def"}`, "127.0.0.1:50000")
		assert.Equal(t, http.StatusConflict, rec.Code)

		assert.Equal(t, "session_id=abc", <-svc.Fragments())
	})
}
