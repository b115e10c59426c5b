// Package session owns the "am I logged in, as whom" state: the bearer
// token, the cached profile and whether the identity check is still pending.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brizzai/unhinged/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrEmptyToken is returned by Login without a token
	ErrEmptyToken = errors.New("session token is empty")
	// ErrStaleResolution means an identity check finished for a token that
	// is no longer current
	ErrStaleResolution = errors.New("identity check result is stale")
)

const defaultLogoutTimeout = 10 * time.Second

// Snapshot is an immutable view of the session. Token "" means absent.
type Snapshot struct {
	Token   string
	User    *models.UserProfile
	Loading bool
	// Epoch changes with every token change
	Epoch uint64
}

// Authenticated reports a resolved session with a known user
func (s Snapshot) Authenticated() bool {
	return !s.Loading && s.Token != "" && s.User != nil
}

// LogoutNotifier tells the backend a session ended
type LogoutNotifier interface {
	Logout(ctx context.Context, token string) error
}

// Store is the single source of truth for the session. All mutations go
// through Login, Logout, SetUser and Resolve.
type Store struct {
	mu    sync.Mutex
	state Snapshot

	tokens   TokenStore
	notifier LogoutNotifier
	logger   *zap.Logger

	subs    map[int]chan Snapshot
	nextSub int

	pending       sync.WaitGroup
	logoutTimeout time.Duration
}

// NewStore creates a store seeded with the persisted token. The session
// starts in the loading state until the first identity check resolves.
func NewStore(tokens TokenStore, notifier LogoutNotifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		tokens:        tokens,
		notifier:      notifier,
		logger:        logger,
		subs:          make(map[int]chan Snapshot),
		logoutTimeout: defaultLogoutTimeout,
	}
	s.state = Snapshot{Token: s.Load(), Loading: true, Epoch: 1}
	return s
}

// Load reads the persisted token. It never fails: storage errors are logged
// and read as "no token".
func (s *Store) Load() string {
	token, err := s.tokens.Load()
	if err != nil {
		s.logger.Warn("failed to load persisted token", zap.Error(err))
		return ""
	}
	return token
}

// Snapshot returns the current session
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login persists token and swaps token and user in one step. When the token
// cannot be persisted the in-memory session is left untouched.
func (s *Store) Login(token string, user *models.UserProfile) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.Save(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.state = Snapshot{
		Token:   token,
		User:    user,
		Loading: false,
		Epoch:   s.state.Epoch + 1,
	}
	s.logger.Info("session started", zap.String("user_id", userID(user)))
	s.publishLocked()
	return nil
}

// Logout ends the session locally right away and notifies the backend in the
// background. A failed notification is only logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	previous := s.state.Token
	s.state = Snapshot{Epoch: s.state.Epoch + 1}
	if err := s.tokens.Clear(); err != nil {
		s.logger.Error("failed to clear persisted token", zap.Error(err))
	}
	s.logger.Info("session ended")
	s.publishLocked()
	s.mu.Unlock()

	if previous == "" || s.notifier == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.logoutTimeout)
		defer cancel()
		if err := s.notifier.Logout(nctx, previous); err != nil {
			s.logger.Warn("logout notification failed", zap.Error(err))
		}
	}()
}

// Wait blocks until background logout notifications are done
func (s *Store) Wait() {
	s.pending.Wait()
}

// SetUser replaces the cached profile of the current session, e.g. after a
// profile save. It is a no-op without a token.
func (s *Store) SetUser(user *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Token == "" || user == nil {
		return
	}
	s.state.User = user
	s.publishLocked()
}

// Resolve applies the outcome of an identity check issued at epoch. Results
// for a superseded epoch are dropped with ErrStaleResolution. Any failure for
// a present token ends the session.
func (s *Store) Resolve(epoch uint64, user *models.UserProfile, checkErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.state.Epoch {
		return ErrStaleResolution
	}

	switch {
	case s.state.Token == "":
		s.state.User = nil
		s.state.Loading = false
	case checkErr != nil || user == nil:
		if err := s.tokens.Clear(); err != nil {
			s.logger.Error("failed to clear persisted token", zap.Error(err))
		}
		s.state = Snapshot{Epoch: s.state.Epoch + 1}
	default:
		s.state.User = user
		s.state.Loading = false
	}
	s.publishLocked()
	return nil
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only ever see the newest one. Call the returned
// function to unsubscribe.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
}

func (s *Store) publishLocked() {
	snap := s.state
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// drop the unread snapshot, keep the newest
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func userID(user *models.UserProfile) string {
	if user == nil {
		return ""
	}
	return user.UserID
}
