// Package api is the typed client of the Unhinged backend. Every method takes
// the bearer token explicitly so callers decide which session a request
// belongs to.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/requester"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// ErrMissingToken is returned by calls that need a session when none is given
var ErrMissingToken = errors.New("no session token")

// emptyBody serializes to {} for POST routes that take no payload
var emptyBody = struct{}{}

// Client represents an Unhinged API client
type Client struct {
	requester *requester.HTTPRequester
}

// NewClient creates a client on top of the shared requester
func NewClient(r *requester.HTTPRequester) *Client {
	return &Client{requester: r}
}

func requireToken(token string) error {
	if token == "" {
		return ErrMissingToken
	}
	return nil
}

// Me is the identity check. The bearer header is only sent when token is set.
func (c *Client) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := c.requester.Call(ctx, routeMe, requester.Params{}, token, &user); err != nil {
		return nil, fmt.Errorf("identity check: %w", err)
	}
	return &user, nil
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.TokenResponse, error) {
	var resp models.TokenResponse
	if err := c.requester.Call(ctx, routeRegister, requester.Params{Body: reg}, "", &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, errors.New("register: incomplete token response")
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.TokenResponse, error) {
	var resp models.TokenResponse
	if err := c.requester.Call(ctx, routeLogin, requester.Params{Body: creds}, "", &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, errors.New("login: incomplete token response")
	}
	return &resp, nil
}

// Logout tells the backend the session is over; the body is ignored
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.requester.Call(ctx, routeLogout, requester.Params{Body: emptyBody}, token, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ExchangeSession trades the one-time OAuth session id for a session token.
// The id travels in a header, the body is an empty object.
func (c *Client) ExchangeSession(ctx context.Context, sessionID string) (*models.SessionExchange, error) {
	params := requester.Params{
		Headers: map[string]string{SessionIDHeader: sessionID},
		Body:    emptyBody,
	}
	var resp models.SessionExchange
	if err := c.requester.Call(ctx, routeSession, params, "", &resp); err != nil {
		return nil, fmt.Errorf("session exchange: %w", err)
	}
	return &resp, nil
}

func (c *Client) Discover(ctx context.Context, token string) ([]*models.UserProfile, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var profiles []*models.UserProfile
	if err := c.requester.Call(ctx, routeDiscover, requester.Params{}, token, &profiles); err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	return profiles, nil
}

func (c *Client) Swipe(ctx context.Context, token, targetUserID string, action models.SwipeAction) (*models.SwipeResult, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	body := models.SwipeRequest{TargetUserID: targetUserID, Action: action}
	var resp models.SwipeResult
	if err := c.requester.Call(ctx, routeSwipe, requester.Params{Body: body}, token, &resp); err != nil {
		return nil, fmt.Errorf("swipe: %w", err)
	}
	return &resp, nil
}

func (c *Client) Matches(ctx context.Context, token string) ([]*models.Match, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var matches []*models.Match
	if err := c.requester.Call(ctx, routeMatches, requester.Params{}, token, &matches); err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	return matches, nil
}

func (c *Client) Messages(ctx context.Context, token, matchID string) ([]models.Message, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	params := requester.Params{Path: map[string]string{"match_id": matchID}}
	var messages []models.Message
	if err := c.requester.Call(ctx, routeMessages, params, token, &messages); err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, token, matchID, content string) (*models.Message, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	params := requester.Params{
		Path: map[string]string{"match_id": matchID},
		Body: models.MessageCreate{Content: content},
	}
	var msg models.Message
	if err := c.requester.Call(ctx, routeSendMessage, params, token, &msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &msg, nil
}

// UpdateProfile sends payload as is; shaping it is the caller's business
func (c *Client) UpdateProfile(ctx context.Context, token string, payload map[string]interface{}) (*models.UserProfile, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var user models.UserProfile
	if err := c.requester.Call(ctx, routeUpdateProfile, requester.Params{Body: payload}, token, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

func (c *Client) DisableAccount(ctx context.Context, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	if err := c.requester.Call(ctx, routeDisableAccount, requester.Params{Body: emptyBody}, token, nil); err != nil {
		return fmt.Errorf("disable account: %w", err)
	}
	return nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	if err := c.requester.Call(ctx, routeDeleteAccount, requester.Params{}, token, nil); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (c *Client) Icebreaker(ctx context.Context, token, targetUserID string) (string, error) {
	if err := requireToken(token); err != nil {
		return "", err
	}
	params := requester.Params{Path: map[string]string{"user_id": targetUserID}, Body: emptyBody}
	var resp models.Icebreaker
	if err := c.requester.Call(ctx, routeIcebreaker, params, token, &resp); err != nil {
		return "", fmt.Errorf("icebreaker: %w", err)
	}
	return resp.Icebreaker, nil
}

func (c *Client) Roast(ctx context.Context, token string) (string, error) {
	if err := requireToken(token); err != nil {
		return "", err
	}
	var resp models.Roast
	if err := c.requester.Call(ctx, routeRoast, requester.Params{Body: emptyBody}, token, &resp); err != nil {
		return "", fmt.Errorf("roast: %w", err)
	}
	return resp.Roast, nil
}

func (c *Client) AnalyzeCompatibility(ctx context.Context, token, targetUserID string) (*models.Compatibility, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	params := requester.Params{Path: map[string]string{"user_id": targetUserID}, Body: emptyBody}
	var resp models.Compatibility
	if err := c.requester.Call(ctx, routeCompatibility, params, token, &resp); err != nil {
		return nil, fmt.Errorf("analyze compatibility: %w", err)
	}
	return &resp, nil
}

func (c *Client) RedFlagSuggestions(ctx context.Context) (*models.RedFlagSuggestions, error) {
	var resp models.RedFlagSuggestions
	if err := c.requester.Call(ctx, routeRedFlagSuggests, requester.Params{}, "", &resp); err != nil {
		return nil, fmt.Errorf("red flag suggestions: %w", err)
	}
	return &resp, nil
}

func (c *Client) PromptSuggestions(ctx context.Context) (*models.PromptSuggestions, error) {
	var resp models.PromptSuggestions
	if err := c.requester.Call(ctx, routePromptSuggests, requester.Params{}, "", &resp); err != nil {
		return nil, fmt.Errorf("prompt suggestions: %w", err)
	}
	return &resp, nil
}

// Suggestions fetches both suggestion lists concurrently; either failure
// fails the whole call
func (c *Client) Suggestions(ctx context.Context) (*models.Suggestions, error) {
	var flags *models.RedFlagSuggestions
	var prompts *models.PromptSuggestions

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flags, err = c.RedFlagSuggestions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prompts, err = c.PromptSuggestions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.Suggestions{
		RedFlags:          flags.RedFlags,
		NegativeQualities: flags.NegativeQualities,
		Prompts:           prompts.Prompts,
	}, nil
}

// Module provides the API client
var Module = fx.Module("api",
	fx.Provide(NewClient),
)
