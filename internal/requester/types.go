package requester

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RouteConfig describes one backend route. Path may hold {name} placeholders.
type RouteConfig struct {
	Path    string            `json:"path"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
}

// Params carries the per-call values for a route
type Params struct {
	// Path fills the {name} placeholders of RouteConfig.Path
	Path map[string]string
	// Query is appended to the URL for GET requests
	Query map[string]string
	// Headers are set after the configured and route headers
	Headers map[string]string
	// Body is sent as JSON when non-nil
	Body interface{}
}

// Request represents a fully built HTTP request
type Request struct {
	URL         string
	Method      string
	Body        io.Reader
	Headers     map[string]string
	ContentType string
	RequestID   string
	HttpRequest *http.Request // The actual HTTP request
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

// newAPIError extracts the FastAPI style {"detail": ...} message when present
func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && len(body.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(body.Detail, &detail); err == nil {
			apiErr.Detail = detail
		} else {
			// validation errors come back as a list of objects
			apiErr.Detail = string(body.Detail)
		}
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(resp.Body))
	return apiErr
}

// Decode turns a response into out, or into an *APIError for non-2xx answers.
// out may be nil when the body is ignored.
func Decode(resp *Response, out interface{}) error {
	if !resp.OK() {
		return newAPIError(resp)
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
