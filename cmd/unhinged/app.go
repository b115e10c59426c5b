package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/brizzai/unhinged/internal/api"
	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/brizzai/unhinged/internal/geo"
	"github.com/brizzai/unhinged/internal/logger"
	"github.com/brizzai/unhinged/internal/poller"
	"github.com/brizzai/unhinged/internal/requester"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/brizzai/unhinged/internal/server"
	"github.com/brizzai/unhinged/internal/session"
	"github.com/brizzai/unhinged/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// newApp assembles the client. extra adds the invokes of one command.
func newApp(cfg *config.Config, start string, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.Supply(cfg),
		fx.Provide(func() *router.Router { return router.New(start) }),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		logger.Module,
		requester.Module,
		api.Module,
		session.Module,
		auth.Module,
		server.Module,
		poller.Module,
		geo.Module,
	}
	return fx.New(append(opts, extra...)...)
}

// withApp loads the config, starts the client, runs fn and stops it again
func withApp(cmd *cobra.Command, start string, fn func(ctx context.Context) error, extra ...fx.Option) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app := newApp(cfg, start, extra...)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	runErr := fn(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	return runErr
}

// runTUI is the main function that runs the TUI
func runTUI(cmd *cobra.Command, start string) error {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	var deps tui.Deps
	capture := fx.Invoke(func(d tui.Deps) { deps = d })

	return withApp(cmd, start, func(ctx context.Context) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Create and run the TUI with the new AppModel
		p := tea.NewProgram(tui.NewAppModel(ctx, &deps), tea.WithAltScreen(), tea.WithContext(ctx))

		// Run the program
		m, err := p.Run()
		if final, ok := m.(tui.AppModel); ok {
			final.Close()
		}
		if err != nil {
			return fmt.Errorf("error running program: %w", err)
		}
		return nil
	}, session.Bootstrap, capture)
}
