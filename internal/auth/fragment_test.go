package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
		wantOK   bool
	}{
		{name: "bare", fragment: "session_id=abc123", want: "abc123", wantOK: true},
		{name: "leading hash", fragment: "#session_id=abc123", want: "abc123", wantOK: true},
		{name: "followed by params", fragment: "#session_id=abc&state=x", want: "abc", wantOK: true},
		{name: "after other params", fragment: "#foo=1&session_id=xyz", want: "xyz", wantOK: true},
		{name: "not decoded", fragment: "session_id=a%2Bb", want: "a%2Bb", wantOK: true},
		{name: "missing", fragment: "#foo=bar", wantOK: false},
		{name: "empty value", fragment: "#session_id=", wantOK: false},
		{name: "empty fragment", fragment: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSessionID(tt.fragment)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasSessionID(t *testing.T) {
	assert.True(t, HasSessionID("#session_id=abc"))
	assert.True(t, HasSessionID("session_id="))
	assert.False(t, HasSessionID("#access_token=abc"))
}
