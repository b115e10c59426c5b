package auth

import (
	"net/http"
	"net/url"

	"github.com/brizzai/unhinged/internal/auth/constants"
	"github.com/brizzai/unhinged/internal/auth/handlers"
	"github.com/brizzai/unhinged/internal/auth/middleware"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/gorilla/mux"
	"go.uber.org/fx"
)

// AuthorizeURL builds the provider sign-in URL that returns to redirect
func AuthorizeURL(redirect string) string {
	q := url.Values{}
	q.Set(constants.RedirectQueryParam, redirect)
	return constants.AuthProviderURL + "?" + q.Encode()
}

// Service represents the OAuth return path: the sign-in URL and the
// loopback routes that catch the browser coming back
type Service struct {
	config    *config.OAuthConfig
	handler   *handlers.Handler
	fragments chan string
}

// NewService creates a new OAuth service
func NewService(cfg *config.Config) *Service {
	s := &Service{
		config:    &cfg.OAuth,
		fragments: make(chan string, 1),
	}
	s.handler = handlers.NewHandler(s)
	return s
}

// RedirectURL is the local page the provider sends the browser back to
func (s *Service) RedirectURL() string {
	return s.config.RedirectBase() + constants.RedirectPath
}

// AuthorizeURL is the provider sign-in URL for this receiver
func (s *Service) AuthorizeURL() string {
	return AuthorizeURL(s.RedirectURL())
}

// Deliver hands a received fragment to the waiting client. Only the first
// fragment is kept.
func (s *Service) Deliver(fragment string) bool {
	select {
	case s.fragments <- fragment:
		return true
	default:
		return false
	}
}

// Fragments yields the fragment posted by the bridge page
func (s *Service) Fragments() <-chan string {
	return s.fragments
}

// RegisterRoutes registers the loopback routes
func (s *Service) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(constants.RedirectPath, s.handler.HandleBridge).Methods(http.MethodGet)
	router.HandleFunc(constants.FragmentPath, s.handler.HandleFragment).Methods(http.MethodPost)
}

// WrapWithMiddleware restricts the receiver to local callers and logs requests
func (s *Service) WrapWithMiddleware(handler http.Handler) http.Handler {
	return middleware.LogRequests(middleware.LoopbackOnly(handler))
}

// Module provides the OAuth service
var Module = fx.Module("auth",
	fx.Provide(NewService),
)
