package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brizzai/unhinged/internal/auth/constants"
	"github.com/brizzai/unhinged/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExchanger struct {
	calls atomic.Int32
	ids   chan string
	resp  *models.SessionExchange
	err   error
}

func (f *fakeExchanger) ExchangeSession(_ context.Context, sessionID string) (*models.SessionExchange, error) {
	f.calls.Add(1)
	if f.ids != nil {
		f.ids <- sessionID
	}
	return f.resp, f.err
}

type fakeSessions struct {
	mu    sync.Mutex
	token string
	user  *models.UserProfile
	err   error
}

func (f *fakeSessions) Login(token string, user *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.token = token
	f.user = user
	return nil
}

func TestCallbackHandler_Success(t *testing.T) {
	tests := []struct {
		name            string
		profileComplete bool
		wantPath        string
	}{
		{name: "incomplete profile", profileComplete: false, wantPath: constants.PathProfileSetup},
		{name: "complete profile", profileComplete: true, wantPath: constants.PathDiscover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exchanger := &fakeExchanger{
				ids: make(chan string, 1),
				resp: &models.SessionExchange{
					SessionToken: "session_tok",
					User:         &models.UserProfile{UserID: "user_1", ProfileComplete: tt.profileComplete},
				},
			}
			sessions := &fakeSessions{}
			h := NewCallbackHandler(exchanger, sessions, nil)

			outcome, handled := h.Handle(context.Background(), "#session_id=abc123")
			require.True(t, handled)
			assert.Equal(t, "abc123", <-exchanger.ids)
			assert.Equal(t, Outcome{
				Path:    tt.wantPath,
				Replace: true,
				Notice:  "Welcome to the chaos!",
				Level:   NoticeSuccess,
			}, outcome)
			assert.Equal(t, "session_tok", sessions.token)
			assert.Equal(t, "user_1", sessions.user.UserID)
			assert.True(t, h.latch.done())
		})
	}
}

func TestCallbackHandler_Failures(t *testing.T) {
	tests := []struct {
		name        string
		fragment    string
		exchanger   *fakeExchanger
		sessions    *fakeSessions
		wantNotice  string
		wantErr     error
		wantCalls   int32
		wantSession bool
	}{
		{
			name:      "no session id",
			fragment:  "#state=xyz",
			exchanger: &fakeExchanger{},
			sessions:  &fakeSessions{},
			wantErr:   ErrNoSessionID,
			wantCalls: 0,
		},
		{
			name:       "exchange rejected",
			fragment:   "#session_id=expired",
			exchanger:  &fakeExchanger{err: errors.New("Invalid session")},
			sessions:   &fakeSessions{},
			wantNotice: "Authentication failed. Try again.",
			wantCalls:  1,
		},
		{
			name:       "incomplete exchange",
			fragment:   "#session_id=abc",
			exchanger:  &fakeExchanger{resp: &models.SessionExchange{SessionToken: "tok"}},
			sessions:   &fakeSessions{},
			wantNotice: "Authentication failed. Try again.",
			wantErr:    ErrIncompleteExchange,
			wantCalls:  1,
		},
		{
			name:     "session cannot be stored",
			fragment: "#session_id=abc",
			exchanger: &fakeExchanger{resp: &models.SessionExchange{
				SessionToken: "tok", User: &models.UserProfile{UserID: "user_1"},
			}},
			sessions:   &fakeSessions{err: errors.New("read-only filesystem")},
			wantNotice: "Authentication failed. Try again.",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCallbackHandler(tt.exchanger, tt.sessions, nil)

			outcome, handled := h.Handle(context.Background(), tt.fragment)
			require.True(t, handled)
			assert.Equal(t, constants.PathLogin, outcome.Path)
			assert.True(t, outcome.Replace)
			assert.Equal(t, tt.wantNotice, outcome.Notice)
			require.Error(t, outcome.Err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, outcome.Err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCalls, tt.exchanger.calls.Load())
			assert.Empty(t, tt.sessions.token)
		})
	}
}

func TestCallbackHandler_ExactlyOnce(t *testing.T) {
	exchanger := &fakeExchanger{resp: &models.SessionExchange{
		SessionToken: "tok", User: &models.UserProfile{UserID: "user_1", ProfileComplete: true},
	}}
	h := NewCallbackHandler(exchanger, &fakeSessions{}, nil)

	const callers = 16
	var handled atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := h.Handle(context.Background(), "#session_id=abc"); ok {
				handled.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), handled.Load())
	assert.Equal(t, int32(1), exchanger.calls.Load())

	_, ok := h.Handle(context.Background(), "#session_id=other")
	assert.False(t, ok, "a finished handler stays claimed")
}

func TestLatch(t *testing.T) {
	var l Latch
	require.True(t, l.Acquire())
	assert.False(t, l.Acquire(), "a running latch turns callers away")
	assert.False(t, l.done())
	l.Finish()
	assert.True(t, l.done())
	assert.False(t, l.Acquire())
}
