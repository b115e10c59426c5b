package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusConflict, "Sign-in already received")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail": "Sign-in already received"}`, rec.Body.String())
}

func TestWriteHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTML(rec, "<p>%s</p>", "/fragment")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<p>/fragment</p>", rec.Body.String())
}
