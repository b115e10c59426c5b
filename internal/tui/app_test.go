package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/brizzai/unhinged/internal/api"
	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/brizzai/unhinged/internal/geo"
	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/poller"
	"github.com/brizzai/unhinged/internal/requester"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/brizzai/unhinged/internal/server"
	"github.com/brizzai/unhinged/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTokens keeps the persisted token in memory
type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) Clear() error {
	return m.Save("")
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("Failed to encode response: %v", err)
	}
}

// newTestDeps wires the screens to a fake backend. token seeds the persisted
// session, which starts out loading.
func newTestDeps(t *testing.T, backend http.Handler, token string, start string) *Deps {
	t.Helper()
	if backend == nil {
		backend = http.NotFoundHandler()
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Endpoint: config.EndpointConfig{BaseURL: srv.URL, Timeout: 5 * time.Second},
		OAuth:    config.OAuthConfig{RedirectHost: "127.0.0.1", RedirectPort: 0},
		Chat:     config.ChatConfig{PollInterval: time.Hour},
	}
	client := api.NewClient(requester.NewHTTPRequester(requester.HTTPRequesterParams{
		Config:      cfg,
		AuthManager: requester.NewBearerAuthManager(),
	}))
	store := session.NewStore(&memTokens{token: token}, client, nil)
	t.Cleanup(store.Wait)
	oauth := auth.NewService(cfg)

	return &Deps{
		Client:   client,
		Store:    store,
		Router:   router.New(start),
		Poller:   poller.NewPoller(cfg.Chat.PollInterval, client, store, nil),
		Locator:  geo.NewLocator(cfg, nil),
		OAuth:    oauth,
		Receiver: server.NewServer(cfg, oauth),
	}
}

// signOut resolves the loading session as anonymous
func signOut(t *testing.T, store *session.Store) {
	t.Helper()
	require.NoError(t, store.Resolve(store.Snapshot().Epoch, nil, nil))
}

// collect runs cmd and every command batched inside it
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppModel_WaitsWhileLoading(t *testing.T) {
	deps := newTestDeps(t, nil, "tok", router.PathDiscover)

	m := NewAppModel(context.Background(), deps)
	defer m.Close()

	assert.Contains(t, m.View(), "LOADING...")
	assert.Equal(t, router.PathDiscover, m.Location().Path, "no redirect before the session resolves")
}

func TestAppModel_RedirectsAnonymousToLogin(t *testing.T) {
	deps := newTestDeps(t, nil, "", router.PathMatches)
	signOut(t, deps.Store)

	m := NewAppModel(context.Background(), deps)
	defer m.Close()

	assert.Equal(t, router.PathLogin, m.Location().Path)
	assert.Contains(t, m.View(), "Welcome back")

	intent, ok := deps.Router.TakeIntent()
	require.True(t, ok)
	assert.Equal(t, router.PathMatches, intent)
}

func TestAppModel_SessionChangeReroutes(t *testing.T) {
	deps := newTestDeps(t, nil, "", router.PathLogin)
	signOut(t, deps.Store)

	m := NewAppModel(context.Background(), deps)
	defer m.Close()
	require.Equal(t, router.PathLogin, m.Location().Path)

	require.NoError(t, deps.Store.Login("tok", &models.UserProfile{UserID: "user_1"}))
	next, _ := m.Update(sessionMsg{snap: deps.Store.Snapshot()})
	m = next.(AppModel)

	assert.Equal(t, router.PathProfileSetup, m.Location().Path, "an incomplete profile goes to setup")
}

func TestAppModel_Notice(t *testing.T) {
	deps := newTestDeps(t, nil, "", router.PathLanding)
	signOut(t, deps.Store)

	m := NewAppModel(context.Background(), deps)
	defer m.Close()

	next, cmd := m.Update(noticeMsg{kind: noticeError, text: "Swipe failed. The universe intervened."})
	m = next.(AppModel)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Swipe failed")

	// an older timer does not clear a newer notice
	next, _ = m.Update(noticeMsg{kind: noticeSuccess, text: "Profile updated!"})
	m = next.(AppModel)
	next, _ = m.Update(clearNoticeMsg{id: 1})
	m = next.(AppModel)
	assert.Contains(t, m.View(), "Profile updated!")

	next, _ = m.Update(clearNoticeMsg{id: 2})
	m = next.(AppModel)
	assert.NotContains(t, m.View(), "Profile updated!")
}

func TestAppModel_Navigation(t *testing.T) {
	deps := newTestDeps(t, nil, "", router.PathLanding)
	signOut(t, deps.Store)

	m := NewAppModel(context.Background(), deps)
	defer m.Close()

	next, _ := m.Update(navigateMsg{path: router.PathRegister})
	m = next.(AppModel)
	assert.Equal(t, router.PathRegister, m.Location().Path)
	assert.Contains(t, m.View(), "Create your profile")

	next, _ = m.Update(backMsg{})
	m = next.(AppModel)
	assert.Equal(t, router.PathLanding, m.Location().Path)
}

func TestAppModel_CallbackLocation(t *testing.T) {
	deps := newTestDeps(t, nil, "", router.PathDiscover+"#session_id=abc")
	signOut(t, deps.Store)

	m := NewAppModel(context.Background(), deps)
	defer m.Close()

	assert.Contains(t, m.View(), "AUTHENTICATING...")
	assert.Equal(t, router.PathDiscover, m.Location().Path, "the callback is not redirected to login")
}
