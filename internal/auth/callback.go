package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/brizzai/unhinged/internal/auth/constants"
	"github.com/brizzai/unhinged/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrNoSessionID means the fragment carried no session id
	ErrNoSessionID = errors.New("no session id in fragment")
	// ErrIncompleteExchange means the backend answered without a token or user
	ErrIncompleteExchange = errors.New("session exchange returned no token or user")
)

// NoticeLevel classifies the transient message shown after the callback
type NoticeLevel int

const (
	NoticeNone NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Outcome tells the caller where to go once the callback is processed
type Outcome struct {
	Path    string
	Replace bool
	Notice  string
	Level   NoticeLevel
	Err     error
}

// SessionExchanger trades a one-time session id for a session token
type SessionExchanger interface {
	ExchangeSession(ctx context.Context, sessionID string) (*models.SessionExchange, error)
}

// SessionStarter installs a new session
type SessionStarter interface {
	Login(token string, user *models.UserProfile) error
}

// CallbackHandler completes an OAuth return. A handler serves a single mount
// of the callback view: only its first Handle call does any work.
type CallbackHandler struct {
	exchanger SessionExchanger
	sessions  SessionStarter
	logger    *zap.Logger
	latch     Latch
}

// NewCallbackHandler creates a handler for one callback mount
func NewCallbackHandler(exchanger SessionExchanger, sessions SessionStarter, logger *zap.Logger) *CallbackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackHandler{
		exchanger: exchanger,
		sessions:  sessions,
		logger:    logger,
	}
}

// Handle exchanges the session id found in fragment and starts the session.
// The second return value is false when an earlier call already claimed this
// handler, in which case the caller must do nothing.
func (h *CallbackHandler) Handle(ctx context.Context, fragment string) (Outcome, bool) {
	if !h.latch.Acquire() {
		h.logger.Debug("callback already processed")
		return Outcome{}, false
	}
	defer h.latch.Finish()

	sessionID, ok := ExtractSessionID(fragment)
	if !ok {
		return Outcome{Path: constants.PathLogin, Replace: true, Err: ErrNoSessionID}, true
	}

	user, err := h.exchange(ctx, sessionID)
	if err != nil {
		h.logger.Error("OAuth callback failed", zap.Error(err))
		return Outcome{
			Path:    constants.PathLogin,
			Replace: true,
			Notice:  constants.AuthFailedNotice,
			Level:   NoticeError,
			Err:     err,
		}, true
	}

	path := constants.PathDiscover
	if !user.ProfileComplete {
		path = constants.PathProfileSetup
	}
	h.logger.Info("OAuth sign-in complete", zap.String("user_id", user.UserID), zap.String("next", path))
	return Outcome{
		Path:    path,
		Replace: true,
		Notice:  constants.WelcomeNotice,
		Level:   NoticeSuccess,
	}, true
}

func (h *CallbackHandler) exchange(ctx context.Context, sessionID string) (*models.UserProfile, error) {
	resp, err := h.exchanger.ExchangeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if resp.SessionToken == "" || resp.User == nil {
		return nil, ErrIncompleteExchange
	}
	if err := h.sessions.Login(resp.SessionToken, resp.User); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return resp.User, nil
}
