package requester_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/brizzai/unhinged/internal/config"
	"github.com/brizzai/unhinged/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthManager struct {
	applyAuthFunc func(*http.Request, string) error
}

func (m *mockAuthManager) ApplyAuth(req *http.Request, token string) error {
	return m.applyAuthFunc(req, token)
}

func TestHTTPRequestBuilder_BuildRequest(t *testing.T) {
	endpoint := &config.EndpointConfig{
		BaseURL: "http://api.example.com/",
		Headers: map[string]string{"X-Client": "unhinged"},
	}
	passthrough := &mockAuthManager{applyAuthFunc: func(*http.Request, string) error { return nil }}

	tests := []struct {
		name         string
		route        *requester.RouteConfig
		params       requester.Params
		token        string
		authManager  requester.AuthManager
		wantErr      bool
		checkRequest func(t *testing.T, req *requester.Request)
	}{
		{
			name:   "GET with query and token",
			route:  &requester.RouteConfig{Method: http.MethodGet, Path: "/discover"},
			params: requester.Params{Query: map[string]string{"limit": "10"}},
			token:  "tok",
			authManager: &mockAuthManager{
				applyAuthFunc: func(req *http.Request, token string) error {
					req.Header.Set("Authorization", "Bearer "+token)
					return nil
				},
			},
			checkRequest: func(t *testing.T, req *requester.Request) {
				assert.Equal(t, "http://api.example.com/api/discover?limit=10", req.HttpRequest.URL.String())
				assert.Equal(t, http.MethodGet, req.HttpRequest.Method)
				assert.Equal(t, "unhinged", req.HttpRequest.Header.Get("X-Client"))
				assert.Equal(t, "Bearer tok", req.HttpRequest.Header.Get("Authorization"))
				assert.NotEmpty(t, req.HttpRequest.Header.Get(requester.RequestIDHeader))
				assert.Nil(t, req.Body)
			},
		},
		{
			name:  "POST with path parameter and body",
			route: &requester.RouteConfig{Method: http.MethodPost, Path: "/matches/{match_id}/messages"},
			params: requester.Params{
				Path: map[string]string{"match_id": "match_1"},
				Body: map[string]string{"content": "hi"},
			},
			authManager: passthrough,
			checkRequest: func(t *testing.T, req *requester.Request) {
				assert.Equal(t, "http://api.example.com/api/matches/match_1/messages", req.URL)
				assert.Equal(t, "application/json", req.HttpRequest.Header.Get("Content-Type"))

				raw, err := io.ReadAll(req.HttpRequest.Body)
				require.NoError(t, err)
				var body map[string]string
				require.NoError(t, json.Unmarshal(raw, &body))
				assert.Equal(t, "hi", body["content"])
			},
		},
		{
			name:  "Call headers override route headers",
			route: &requester.RouteConfig{Method: http.MethodPost, Path: "/auth/session", Headers: map[string]string{"X-Session-ID": "route"}},
			params: requester.Params{
				Headers: map[string]string{"X-Session-ID": "abc123"},
				Body:    struct{}{},
			},
			authManager: passthrough,
			checkRequest: func(t *testing.T, req *requester.Request) {
				assert.Equal(t, "abc123", req.HttpRequest.Header.Get("X-Session-ID"))
				raw, err := io.ReadAll(req.HttpRequest.Body)
				require.NoError(t, err)
				assert.JSONEq(t, `{}`, string(raw))
			},
		},
		{
			name:        "Unresolved placeholder",
			route:       &requester.RouteConfig{Method: http.MethodGet, Path: "/matches/{match_id}/messages"},
			authManager: passthrough,
			wantErr:     true,
		},
		{
			name:        "Nil route",
			route:       nil,
			authManager: passthrough,
			wantErr:     true,
		},
		{
			name:  "Auth failure",
			route: &requester.RouteConfig{Method: http.MethodGet, Path: "/auth/me"},
			authManager: &mockAuthManager{
				applyAuthFunc: func(*http.Request, string) error { return errors.New("boom") },
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := requester.NewHTTPRequestBuilder(endpoint, tt.authManager)

			req, err := builder.BuildRequest(context.Background(), tt.route, tt.params, tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.checkRequest(t, req)
		})
	}
}
