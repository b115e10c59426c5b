package constants

const (
	// AuthProviderURL is the hosted sign-in page of the identity provider
	AuthProviderURL = "https://auth.emergentagent.com/"

	// RedirectQueryParam names the return URL on the provider page
	RedirectQueryParam = "redirect"

	// RedirectPath is where the provider sends the browser back to
	RedirectPath = "/discover"

	// FragmentPath receives the URL fragment from the bridge page
	FragmentPath = "/fragment"

	// SessionIDParam is the fragment key of the one-time exchange token
	SessionIDParam = "session_id"
)

// Notices shown after the exchange
const (
	WelcomeNotice    = "Welcome to the chaos!"
	AuthFailedNotice = "Authentication failed. Try again."
)

// Destinations after the exchange
const (
	PathLogin        = "/login"
	PathProfileSetup = "/profile-setup"
	PathDiscover     = "/discover"
)
