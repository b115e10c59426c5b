package session

import (
	"context"
	"errors"
	"sync"

	"github.com/brizzai/unhinged/internal/models"
	"go.uber.org/zap"
)

// IdentityChecker asks the backend who a token belongs to
type IdentityChecker interface {
	Me(ctx context.Context, token string) (*models.UserProfile, error)
}

// Bootstrapper runs an identity check whenever the session token changes and
// resolves the loading state. Checks for superseded tokens are discarded.
type Bootstrapper struct {
	store    *Store
	identity IdentityChecker
	logger   *zap.Logger

	checks sync.WaitGroup
	cancel context.CancelFunc
	done   chan struct{}
}

// NewBootstrapper creates a bootstrapper for store
func NewBootstrapper(store *Store, identity IdentityChecker, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{
		store:    store,
		identity: identity,
		logger:   logger,
	}
}

// Check resolves the current session synchronously
func (b *Bootstrapper) Check(ctx context.Context) {
	b.check(ctx, b.store.Snapshot())
}

// Run checks the current token and every later token change until ctx ends.
// Each check runs on its own so a slow check never delays a newer one.
func (b *Bootstrapper) Run(ctx context.Context) {
	updates, unsubscribe := b.store.Subscribe()
	defer unsubscribe()

	current := b.store.Snapshot()
	lastEpoch := current.Epoch
	b.spawn(ctx, current)

	for {
		select {
		case <-ctx.Done():
			b.checks.Wait()
			return
		case snap := <-updates:
			if snap.Epoch == lastEpoch {
				continue
			}
			lastEpoch = snap.Epoch
			b.spawn(ctx, snap)
		}
	}
}

// Start runs the bootstrapper in the background
func (b *Bootstrapper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		b.Run(ctx)
	}()
}

// Stop cancels running checks and waits for Run to return
func (b *Bootstrapper) Stop() {
	if b.cancel == nil {
		return
	}
	b.cancel()
	<-b.done
	b.cancel = nil
}

func (b *Bootstrapper) spawn(ctx context.Context, snap Snapshot) {
	b.checks.Add(1)
	go func() {
		defer b.checks.Done()
		b.check(ctx, snap)
	}()
}

func (b *Bootstrapper) check(ctx context.Context, snap Snapshot) {
	if snap.Token == "" {
		b.resolve(snap.Epoch, nil, nil)
		return
	}

	user, err := b.identity.Me(ctx, snap.Token)
	if ctx.Err() != nil {
		// shutting down, leave the session as it is
		return
	}
	if err != nil {
		b.logger.Warn("identity check failed, clearing session", zap.Error(err))
	}
	b.resolve(snap.Epoch, user, err)
}

func (b *Bootstrapper) resolve(epoch uint64, user *models.UserProfile, checkErr error) {
	err := b.store.Resolve(epoch, user, checkErr)
	if errors.Is(err, ErrStaleResolution) {
		b.logger.Debug("discarding stale identity check", zap.Uint64("epoch", epoch))
	}
}
