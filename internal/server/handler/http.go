// Package handler assembles the HTTP handler of the loopback receiver.
package handler

import (
	"net/http"

	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/logger"
	"github.com/brizzai/unhinged/internal/utils"
	"github.com/gorilla/mux"
)

// Handler manages HTTP request handling and middleware configuration.
type Handler struct {
	auth *auth.Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(auth *auth.Service) *Handler {
	return &Handler{
		auth: auth,
	}
}

// CreateHTTPHandler registers the OAuth return routes and wraps them with
// the loopback middleware stack.
func (h *Handler) CreateHTTPHandler() http.Handler {
	router := mux.NewRouter()
	h.auth.RegisterRoutes(router)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	logger.Debug("Registered OAuth return routes")
	return h.auth.WrapWithMiddleware(router)
}
