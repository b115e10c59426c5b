// Package router keeps the in-memory location of the client and decides,
// through the route guard, which screen a location shows.
package router

import (
	"strings"
	"sync"

	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/session"
)

// maxRedirects bounds guard redirect chains
const maxRedirects = 4

// Location is a path plus an optional fragment, without the '#'
type Location struct {
	Path     string
	Fragment string
}

// ParseLocation splits "path#fragment"
func ParseLocation(raw string) Location {
	path, fragment, _ := strings.Cut(raw, "#")
	if path == "" {
		path = PathLanding
	}
	return Location{Path: path, Fragment: fragment}
}

func (l Location) String() string {
	if l.Fragment == "" {
		return l.Path
	}
	return l.Path + "#" + l.Fragment
}

// Router holds the current location, back history and the navigation intent
type Router struct {
	mu      sync.Mutex
	current Location
	history []Location
	intent  string
}

// New creates a router at start
func New(start string) *Router {
	return &Router{current: ParseLocation(start)}
}

// Current returns the current location
func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate moves to raw, which may carry a fragment. With replace the current
// entry is overwritten instead of pushed onto the history.
func (r *Router) Navigate(raw string, replace bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigateLocked(ParseLocation(raw), replace)
}

func (r *Router) navigateLocked(next Location, replace bool) {
	if !replace {
		r.history = append(r.history, r.current)
	}
	r.current = next
}

// Back returns to the previous location. It reports false at the start of
// the history.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return false
	}
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	return true
}

// SetIntent remembers where the user was headed before a login redirect
func (r *Router) SetIntent(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intent = path
}

// TakeIntent returns and forgets the navigation intent
func (r *Router) TakeIntent() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent := r.intent
	r.intent = ""
	return intent, intent != ""
}

// Resolve runs the guard against the current location, following redirects,
// and returns the decision to act on: render or wait. A location carrying an
// OAuth session id always resolves to the callback screen.
func (r *Router) Resolve(s session.Snapshot) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	if auth.HasSessionID(r.current.Fragment) {
		return Decision{Action: ActionRender, Route: Route{Page: PageCallback, Path: r.current.Path}}
	}

	var d Decision
	for i := 0; i < maxRedirects; i++ {
		d = Decide(s, r.current.Path)
		if d.Action != ActionRedirect {
			return d
		}
		if d.From != "" {
			r.intent = d.From
		}
		r.navigateLocked(Location{Path: d.Target}, d.Replace)
	}
	// a redirect loop lands on the landing page
	r.navigateLocked(Location{Path: PathLanding}, true)
	return Decision{Action: ActionRender, Route: Route{Page: PageLanding, Path: PathLanding}}
}
