package requester

import (
	"net/http"

	"golang.org/x/oauth2"
)

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request, token string) error
}

// BearerAuthManager sends the session token as a bearer credential
type BearerAuthManager struct{}

// NewBearerAuthManager creates a new BearerAuthManager
func NewBearerAuthManager() *BearerAuthManager {
	return &BearerAuthManager{}
}

// ApplyAuth adds the Authorization header when a token is present. The token
// is passed per call so a request always carries the value current when it
// was issued.
func (a *BearerAuthManager) ApplyAuth(req *http.Request, token string) error {
	if token == "" {
		return nil
	}
	tok := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	tok.SetAuthHeader(req)
	return nil
}
