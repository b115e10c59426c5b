package router

import "strings"

const (
	PathLanding      = "/"
	PathLogin        = "/login"
	PathRegister     = "/register"
	PathProfileSetup = "/profile-setup"
	PathDiscover     = "/discover"
	PathMatches      = "/matches"
	PathSettings     = "/settings"

	chatPrefix = "/chat/"
)

// Page identifies a screen
type Page int

const (
	PageLanding Page = iota
	PageLogin
	PageRegister
	PageProfileSetup
	PageDiscover
	PageMatches
	PageChat
	PageSettings
	PageCallback
)

var pageNames = map[Page]string{
	PageLanding:      "landing",
	PageLogin:        "login",
	PageRegister:     "register",
	PageProfileSetup: "profile-setup",
	PageDiscover:     "discover",
	PageMatches:      "matches",
	PageChat:         "chat",
	PageSettings:     "settings",
	PageCallback:     "callback",
}

func (p Page) String() string {
	if name, ok := pageNames[p]; ok {
		return name
	}
	return "unknown"
}

// Route is a matched path
type Route struct {
	Page    Page
	Path    string
	MatchID string
}

// Protected reports whether the route needs an authenticated session
func (r Route) Protected() bool {
	switch r.Page {
	case PageProfileSetup, PageDiscover, PageMatches, PageChat, PageSettings:
		return true
	}
	return false
}

var staticRoutes = map[string]Page{
	PathLanding:      PageLanding,
	PathLogin:        PageLogin,
	PathRegister:     PageRegister,
	PathProfileSetup: PageProfileSetup,
	PathDiscover:     PageDiscover,
	PathMatches:      PageMatches,
	PathSettings:     PageSettings,
}

// Match resolves path to a route. A trailing slash is ignored.
func Match(path string) (Route, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if page, ok := staticRoutes[path]; ok {
		return Route{Page: page, Path: path}, true
	}
	if matchID, ok := strings.CutPrefix(path, chatPrefix); ok && matchID != "" && !strings.Contains(matchID, "/") {
		return Route{Page: PageChat, Path: path, MatchID: matchID}, true
	}
	return Route{}, false
}

// ChatPath is the path of the chat with a match
func ChatPath(matchID string) string {
	return chatPrefix + matchID
}
