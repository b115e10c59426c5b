package router

import "github.com/brizzai/unhinged/internal/session"

// State is the session as the guard sees it
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// StateOf classifies a session snapshot
func StateOf(s session.Snapshot) State {
	switch {
	case s.Loading:
		return StateLoading
	case s.User == nil:
		return StateUnauthenticated
	default:
		return StateAuthenticated
	}
}

// Action is what the caller does with a path
type Action int

const (
	// ActionRender shows the screen for Route
	ActionRender Action = iota
	// ActionWait shows the loading placeholder
	ActionWait
	// ActionRedirect navigates to Target
	ActionRedirect
)

// Decision is the guard's verdict for one path
type Decision struct {
	Action  Action
	Route   Route
	Target  string
	From    string
	Replace bool
}

// Decide applies the route guard to path. It has no side effects.
func Decide(s session.Snapshot, path string) Decision {
	route, ok := Match(path)
	if !ok {
		return Decision{Action: ActionRedirect, Target: PathLanding, Replace: true}
	}

	state := StateOf(s)
	switch {
	case route.Protected():
		switch state {
		case StateLoading:
			return Decision{Action: ActionWait, Route: route}
		case StateUnauthenticated:
			return Decision{Action: ActionRedirect, Route: route, Target: PathLogin, From: route.Path, Replace: true}
		}
	case route.Page == PageLogin || route.Page == PageRegister:
		if state == StateAuthenticated {
			return Decision{Action: ActionRedirect, Route: route, Target: HomeFor(s), Replace: true}
		}
	}
	return Decision{Action: ActionRender, Route: route}
}

// HomeFor is where an authenticated user lands: profile setup until the
// profile is complete, discover afterwards
func HomeFor(s session.Snapshot) string {
	if s.User != nil && !s.User.ProfileComplete {
		return PathProfileSetup
	}
	return PathDiscover
}
