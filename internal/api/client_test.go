package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brizzai/unhinged/internal/api"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	r := requester.NewHTTPRequester(requester.HTTPRequesterParams{
		Config: &config.Config{
			Endpoint: config.EndpointConfig{BaseURL: server.URL, Timeout: 5 * time.Second},
		},
		AuthManager: requester.NewBearerAuthManager(),
	})
	return api.NewClient(r)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("Failed to encode response: %v", err)
	}
}

func TestClient_Me(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"user_id":          "user_1",
			"name":             "Sam",
			"profile_complete": true,
			"politics":         "chaotic neutral",
		})
	})
	client := newTestClient(t, mux)

	user, err := client.Me(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user_1", user.UserID)
	assert.True(t, user.ProfileComplete)
	assert.JSONEq(t, `"chaotic neutral"`, string(user.Extra["politics"]))

	_, err = client.Me(context.Background(), "bad")
	var apiErr *requester.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_ExchangeSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.Header.Get(api.SessionIDHeader))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, body)

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"session_token": "session_xyz",
			"user":          map[string]interface{}{"user_id": "user_1", "profile_complete": false},
		})
	})
	client := newTestClient(t, mux)

	resp, err := client.ExchangeSession(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "session_xyz", resp.SessionToken)
	require.NotNil(t, resp.User)
	assert.False(t, resp.User.ProfileComplete)
}

func TestClient_RegisterAndLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var reg models.Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		if reg.Email == "taken@example.com" {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"access_token": "jwt", "token_type": "bearer",
			"user": map[string]interface{}{"user_id": "user_2", "name": reg.Name},
		})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]interface{}{"access_token": "", "user": nil})
	})
	client := newTestClient(t, mux)

	resp, err := client.Register(context.Background(), models.Registration{Name: "Kit", Email: "kit@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AccessToken)
	assert.Equal(t, "Kit", resp.User.Name)

	_, err = client.Register(context.Background(), models.Registration{Name: "Kit", Email: "taken@example.com", Password: "secret1"})
	var apiErr *requester.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Email already registered", apiErr.Detail)

	_, err = client.Login(context.Background(), models.Credentials{Email: "kit@example.com", Password: "x"})
	assert.Error(t, err)
}

func TestClient_SwipeAndMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/swipe", func(w http.ResponseWriter, r *http.Request) {
		var req models.SwipeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.SwipeLike, req.Action)
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"success": true, "match_created": true,
			"match": map[string]interface{}{"match_id": "match_1", "matched_user": map[string]interface{}{"user_id": req.TargetUserID}},
		})
	})
	mux.HandleFunc("GET /api/matches/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "match_1", r.PathValue("id"))
		writeJSON(t, w, http.StatusOK, []map[string]interface{}{
			{"message_id": "m1", "match_id": "match_1", "sender_id": "user_1", "content": "hi", "created_at": "2024-05-01T10:00:00.123456+00:00"},
		})
	})
	mux.HandleFunc("POST /api/matches/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		var body models.MessageCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"message_id": "m2", "match_id": r.PathValue("id"), "sender_id": "user_1", "content": body.Content, "created_at": "2024-05-01T10:01:00+00:00",
		})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	result, err := client.Swipe(ctx, "tok", "user_9", models.SwipeLike)
	require.NoError(t, err)
	assert.True(t, result.MatchCreated)
	assert.Equal(t, "match_1", result.Match.MatchID)

	messages, err := client.Messages(ctx, "tok", "match_1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].FromSelf("user_1"))
	assert.False(t, messages[0].FromSelf("user_2"))

	sent, err := client.SendMessage(ctx, "tok", "match_1", "red flag: I clap when the plane lands")
	require.NoError(t, err)
	assert.Equal(t, "m2", sent.MessageID)

	_, err = client.Messages(ctx, "", "match_1")
	assert.ErrorIs(t, err, api.ErrMissingToken)
}

func TestClient_Suggestions(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/red-flags/suggestions", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"red_flags":          []string{"I reply to texts 3 days later"},
			"negative_qualities": []string{"Cries at commercials"},
		})
	})
	mux.HandleFunc("GET /api/prompts/suggestions", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"prompts": []map[string]string{{"id": "hot_take", "question": "My hottest take is..."}},
		})
	})
	client := newTestClient(t, mux)

	s, err := client.Suggestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []string{"I reply to texts 3 days later"}, s.RedFlags)
	assert.Equal(t, []string{"Cries at commercials"}, s.NegativeQualities)
	assert.Equal(t, "hot_take", s.Prompts[0].ID)
}

func TestClient_AccountAndAI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/me/disable", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"detail": "nope"})
	})
	mux.HandleFunc("POST /api/ai/roast", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"roast": "You own multiple swords."})
	})
	mux.HandleFunc("POST /api/ai/analyze-compatibility/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"analysis": "87% chaos", "target_user": "Robin"})
	})
	mux.HandleFunc("POST /api/ai/icebreaker/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"icebreaker": "Swords?"})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, client.DisableAccount(ctx, "tok"))
	assert.Error(t, client.DeleteAccount(ctx, "tok"))

	roast, err := client.Roast(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "You own multiple swords.", roast)

	compat, err := client.AnalyzeCompatibility(ctx, "tok", "user_9")
	require.NoError(t, err)
	assert.Equal(t, "Robin", compat.TargetUser)

	ice, err := client.Icebreaker(ctx, "tok", "user_9")
	require.NoError(t, err)
	assert.Equal(t, "Swords?", ice)
}
