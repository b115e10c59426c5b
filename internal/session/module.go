package session

import (
	"context"

	"github.com/brizzai/unhinged/internal/api"
	"github.com/brizzai/unhinged/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideFileTokenStore(cfg *config.Config) *FileTokenStore {
	return NewFileTokenStore(cfg.Session.TokenFile)
}

func provideTokenStore(f *FileTokenStore) TokenStore {
	return f
}

func provideStore(lc fx.Lifecycle, tokens TokenStore, client *api.Client, logger *zap.Logger) *Store {
	store := NewStore(tokens, client, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				store.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("gave up waiting for logout notification")
			}
			return nil
		},
	})
	return store
}

func provideBootstrapper(store *Store, client *api.Client, logger *zap.Logger) *Bootstrapper {
	return NewBootstrapper(store, client, logger)
}

func runBootstrapper(lc fx.Lifecycle, b *Bootstrapper) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			b.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			b.Stop()
			return nil
		},
	})
}

// Module provides the session store and the bootstrapper
var Module = fx.Module("session",
	fx.Provide(
		provideFileTokenStore,
		provideTokenStore,
		provideStore,
		provideBootstrapper,
	),
)

// Bootstrap starts identity checks with the application
var Bootstrap = fx.Invoke(runBootstrapper)
