package api

import (
	"net/http"

	"github.com/brizzai/unhinged/internal/requester"
)

// SessionIDHeader carries the one-time OAuth exchange token
const SessionIDHeader = "X-Session-ID"

var (
	routeMe              = &requester.RouteConfig{Method: http.MethodGet, Path: "/auth/me"}
	routeRegister        = &requester.RouteConfig{Method: http.MethodPost, Path: "/auth/register"}
	routeLogin           = &requester.RouteConfig{Method: http.MethodPost, Path: "/auth/login"}
	routeLogout          = &requester.RouteConfig{Method: http.MethodPost, Path: "/auth/logout"}
	routeSession         = &requester.RouteConfig{Method: http.MethodPost, Path: "/auth/session"}
	routeDiscover        = &requester.RouteConfig{Method: http.MethodGet, Path: "/discover"}
	routeSwipe           = &requester.RouteConfig{Method: http.MethodPost, Path: "/swipe"}
	routeMatches         = &requester.RouteConfig{Method: http.MethodGet, Path: "/matches"}
	routeMessages        = &requester.RouteConfig{Method: http.MethodGet, Path: "/matches/{match_id}/messages"}
	routeSendMessage     = &requester.RouteConfig{Method: http.MethodPost, Path: "/matches/{match_id}/messages"}
	routeUpdateProfile   = &requester.RouteConfig{Method: http.MethodPut, Path: "/profile"}
	routeDisableAccount  = &requester.RouteConfig{Method: http.MethodPost, Path: "/users/me/disable"}
	routeDeleteAccount   = &requester.RouteConfig{Method: http.MethodDelete, Path: "/users/me"}
	routeIcebreaker      = &requester.RouteConfig{Method: http.MethodPost, Path: "/ai/icebreaker/{user_id}"}
	routeRoast           = &requester.RouteConfig{Method: http.MethodPost, Path: "/ai/roast"}
	routeCompatibility   = &requester.RouteConfig{Method: http.MethodPost, Path: "/ai/analyze-compatibility/{user_id}"}
	routeRedFlagSuggests = &requester.RouteConfig{Method: http.MethodGet, Path: "/red-flags/suggestions"}
	routePromptSuggests  = &requester.RouteConfig{Method: http.MethodGet, Path: "/prompts/suggestions"}
)
