package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/brizzai/unhinged/internal/auth/constants"
	"github.com/brizzai/unhinged/internal/auth/models"
	"github.com/brizzai/unhinged/internal/logger"
	"github.com/brizzai/unhinged/internal/utils"
)

// FragmentSink receives the fragment the browser came back with
type FragmentSink interface {
	Deliver(fragment string) bool
}

// Handler handles the loopback HTTP requests of the OAuth return
type Handler struct {
	sink FragmentSink
}

// NewHandler creates a new Handler instance
func NewHandler(sink FragmentSink) *Handler {
	return &Handler{sink: sink}
}

// bridgePage forwards location.hash, which browsers never send to servers
const bridgePage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Unhinged</title></head>
<body style="background:#0a0a0a;color:#a855f7;font-family:monospace;display:flex;align-items:center;justify-content:center;height:100vh">
<div id="status">AUTHENTICATING...</div>
<script>
fetch(%q, {
  method: "POST",
  headers: {"Content-Type": "application/json"},
  body: JSON.stringify({fragment: window.location.hash.replace(/^#/, "")})
}).then(function (r) {
  document.getElementById("status").textContent = r.ok
    ? "Done. Head back to your terminal."
    : "Something broke. Head back to your terminal.";
}).catch(function () {
  document.getElementById("status").textContent = "Could not reach the terminal.";
});
</script>
</body>
</html>`

// HandleBridge serves the page the provider redirects to
func (h *Handler) HandleBridge(w http.ResponseWriter, r *http.Request) {
	utils.WriteHTML(w, bridgePage, constants.FragmentPath)
}

// HandleFragment accepts the fragment posted by the bridge page
func (h *Handler) HandleFragment(w http.ResponseWriter, r *http.Request) {
	var req models.FragmentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fragment := strings.TrimPrefix(req.Fragment, "#")
	if fragment == "" {
		utils.WriteError(w, http.StatusBadRequest, "Fragment is required")
		return
	}

	if !h.sink.Deliver(fragment) {
		logger.Warn("Ignoring repeated OAuth return")
		utils.WriteError(w, http.StatusConflict, "Sign-in already received")
		return
	}

	logger.Info("Received OAuth return")
	utils.WriteJSON(w, http.StatusAccepted, models.FragmentResponse{Status: "received"})
}
