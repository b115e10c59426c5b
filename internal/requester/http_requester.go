package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brizzai/unhinged/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPRequester handles both request building and execution
type HTTPRequester struct {
	client  *http.Client
	builder *HTTPRequestBuilder
	limiter *rate.Limiter
	logger  *zap.Logger
}

type HTTPRequesterParams struct {
	fx.In

	Config      *config.Config
	AuthManager AuthManager
	Logger      *zap.Logger
}

// NewHTTPRequester creates a new HTTPRequester from the endpoint config
func NewHTTPRequester(params HTTPRequesterParams) *HTTPRequester {
	endpoint := &params.Config.Endpoint
	timeout := endpoint.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if endpoint.RateLimit > 0 {
		burst := int(endpoint.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(endpoint.RateLimit), burst)
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPRequester{
		client: &http.Client{
			Timeout: timeout,
		},
		builder: NewHTTPRequestBuilder(endpoint, params.AuthManager),
		limiter: limiter,
		logger:  logger,
	}
}

// Do builds and executes a request for route. Non-2xx statuses are not
// errors at this level; see Decode.
func (r *HTTPRequester) Do(ctx context.Context, route *RouteConfig, params Params, token string) (*Response, error) {
	req, err := r.builder.BuildRequest(ctx, route, params, token)
	if err != nil {
		return nil, err
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	resp, err := r.execute(req)
	if err != nil {
		r.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", route.Path),
			zap.String("request_id", req.RequestID),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", route.Path),
		zap.String("request_id", req.RequestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// Call executes the request and decodes the answer into out
func (r *HTTPRequester) Call(ctx context.Context, route *RouteConfig, params Params, token string, out interface{}) error {
	resp, err := r.Do(ctx, route, params, token)
	if err != nil {
		return err
	}
	return Decode(resp, out)
}

// execute performs the actual HTTP request execution
func (r *HTTPRequester) execute(req *Request) (resp *Response, err error) {
	httpResp, err := r.client.Do(req.HttpRequest)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       bodyBytes,
		Headers:    httpResp.Header,
	}, nil
}
