package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brizzai/unhinged/internal/config"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader correlates client log lines with backend ones
	RequestIDHeader = "X-Request-ID"
)

// HTTPRequestBuilder turns a RouteConfig and Params into an *http.Request
type HTTPRequestBuilder struct {
	serviceCfg *config.EndpointConfig
	authMgr    AuthManager
}

// NewHTTPRequestBuilder creates a new HTTPRequestBuilder
func NewHTTPRequestBuilder(serviceCfg *config.EndpointConfig, authMgr AuthManager) *HTTPRequestBuilder {
	return &HTTPRequestBuilder{
		serviceCfg: serviceCfg,
		authMgr:    authMgr,
	}
}

// BuildRequest builds a request for the route, authenticated with token
func (b *HTTPRequestBuilder) BuildRequest(ctx context.Context, route *RouteConfig, params Params, token string) (*Request, error) {
	if route == nil {
		return nil, fmt.Errorf("route config is nil")
	}

	reqURL, err := b.buildURL(route.Path, params.Path)
	if err != nil {
		return nil, err
	}
	if route.Method == http.MethodGet {
		reqURL = addQueryParams(reqURL, params.Query)
	}

	body, contentType, err := createRequestBody(route.Method, params.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	// Merge headers: configured, then route, then call
	headers := make(map[string]string)
	for k, v := range b.serviceCfg.Headers {
		headers[k] = v
	}
	for k, v := range route.Headers {
		headers[k] = v
	}
	for k, v := range params.Headers {
		headers[k] = v
	}

	httpReq, err := http.NewRequestWithContext(ctx, route.Method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	if err := b.authMgr.ApplyAuth(httpReq, token); err != nil {
		return nil, fmt.Errorf("failed to apply authentication: %w", err)
	}

	return &Request{
		URL:         reqURL,
		Method:      route.Method,
		Body:        body,
		Headers:     headers,
		ContentType: contentType,
		RequestID:   requestID,
		HttpRequest: httpReq,
	}, nil
}

func (b *HTTPRequestBuilder) buildURL(path string, pathParams map[string]string) (string, error) {
	for key, value := range pathParams {
		placeholder := fmt.Sprintf("{%s}", key)
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(value))
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("unresolved path parameter in %q", path)
	}
	return b.serviceCfg.APIURL() + path, nil
}

func addQueryParams(baseURL string, query map[string]string) string {
	if len(query) == 0 {
		return baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	q := u.Query()
	for key, value := range query {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func createRequestBody(method string, payload interface{}) (io.Reader, string, error) {
	switch method {
	case http.MethodGet, http.MethodDelete:
		return nil, "", nil
	}
	if payload == nil {
		return nil, "", nil
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(jsonData), "application/json", nil
}
