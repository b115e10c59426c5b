package router

import (
	"testing"

	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	assert.Equal(t, Location{Path: "/discover", Fragment: "session_id=abc"}, ParseLocation("/discover#session_id=abc"))
	assert.Equal(t, Location{Path: "/", Fragment: "x"}, ParseLocation("#x"))
	assert.Equal(t, "/matches", ParseLocation("/matches").String())
	assert.Equal(t, "/discover#a=b", ParseLocation("/discover#a=b").String())
}

func TestRouter_History(t *testing.T) {
	r := New("/")
	r.Navigate("/login", false)
	r.Navigate("/register", true)
	assert.Equal(t, "/register", r.Current().Path)

	require.True(t, r.Back())
	assert.Equal(t, "/", r.Current().Path, "replace does not add an entry")
	assert.False(t, r.Back())
}

func TestRouter_Intent(t *testing.T) {
	r := New("/")
	_, ok := r.TakeIntent()
	assert.False(t, ok)

	r.SetIntent("/matches")
	intent, ok := r.TakeIntent()
	assert.True(t, ok)
	assert.Equal(t, "/matches", intent)

	_, ok = r.TakeIntent()
	assert.False(t, ok, "the intent is consumed")
}

// The full guard scenario: waiting, bounced to login with the origin kept,
// then bounced away from login once signed in.
func TestRouter_GuardScenario(t *testing.T) {
	r := New("/matches")

	d := r.Resolve(session.Snapshot{Token: "tok", Loading: true})
	assert.Equal(t, ActionWait, d.Action)
	assert.Equal(t, "/matches", r.Current().Path, "no redirect while loading")

	d = r.Resolve(session.Snapshot{})
	assert.Equal(t, ActionRender, d.Action)
	assert.Equal(t, PageLogin, d.Route.Page)
	assert.Equal(t, PathLogin, r.Current().Path)
	assert.False(t, r.Back(), "the redirect replaced the protected entry")

	intent, ok := r.TakeIntent()
	require.True(t, ok)
	assert.Equal(t, "/matches", intent)

	newcomer := session.Snapshot{Token: "tok", User: &models.UserProfile{ProfileComplete: false}}
	d = r.Resolve(newcomer)
	assert.Equal(t, PageProfileSetup, d.Route.Page)
	assert.Equal(t, ActionRender, d.Action)

	onboarded := session.Snapshot{Token: "tok", User: &models.UserProfile{ProfileComplete: true}}
	r.Navigate(PathRegister, false)
	d = r.Resolve(onboarded)
	assert.Equal(t, PageDiscover, d.Route.Page)
	assert.Equal(t, PathDiscover, r.Current().Path)
}

func TestRouter_CallbackFragment(t *testing.T) {
	r := New("/discover#session_id=abc123")

	// the callback screen wins over the guard, even while loading
	d := r.Resolve(session.Snapshot{Loading: true})
	assert.Equal(t, ActionRender, d.Action)
	assert.Equal(t, PageCallback, d.Route.Page)

	r.Navigate("/profile-setup", true)
	d = r.Resolve(session.Snapshot{Token: "tok", User: &models.UserProfile{}})
	assert.Equal(t, PageProfileSetup, d.Route.Page)
}

func TestRouter_UnknownPath(t *testing.T) {
	r := New("/wat")
	d := r.Resolve(session.Snapshot{})
	assert.Equal(t, PageLanding, d.Route.Page)
	assert.Equal(t, "/", r.Current().Path)
}
