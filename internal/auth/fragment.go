package auth

import (
	"regexp"
	"strings"

	"github.com/brizzai/unhinged/internal/auth/constants"
)

var sessionIDPattern = regexp.MustCompile(constants.SessionIDParam + `=([^&]+)`)

// ExtractSessionID returns the session id carried in a URL fragment. The
// fragment may be given with or without its leading '#'. Values are taken
// verbatim, without URL decoding.
func ExtractSessionID(fragment string) (string, bool) {
	m := sessionIDPattern.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HasSessionID reports whether a fragment looks like an OAuth return
func HasSessionID(fragment string) bool {
	return strings.Contains(fragment, constants.SessionIDParam+"=")
}
