package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brizzai/unhinged/internal/logger"
	"go.uber.org/zap"
)

// WriteJSON writes data as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// WriteError answers in the backend's {"detail": ...} shape so the same
// decoder reads errors from both sides
func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, map[string]string{"detail": detail})
}

// WriteHTML renders an uncached page from a format string
func WriteHTML(w http.ResponseWriter, page string, args ...interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := fmt.Fprintf(w, page, args...); err != nil {
		logger.Error("Failed to write page", zap.Error(err))
	}
}
