// Package poller refreshes open chats on a fixed interval. Results are only
// delivered while the chat is open and the session that issued the request
// is still the current, authenticated one.
package poller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/brizzai/unhinged/internal/api"
	"github.com/brizzai/unhinged/internal/config"
	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/session"
	"github.com/go-co-op/gocron"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MessageSource lists the messages of a match
type MessageSource interface {
	Messages(ctx context.Context, token, matchID string) ([]models.Message, error)
}

// SessionSource exposes the current session
type SessionSource interface {
	Snapshot() session.Snapshot
}

// Result is one poll of a chat
type Result struct {
	MatchID  string
	Messages []models.Message
	Err      error
}

// Poller runs one scheduled job per open chat
type Poller struct {
	scheduler *gocron.Scheduler
	source    MessageSource
	sessions  SessionSource
	interval  time.Duration
	logger    *zap.Logger
}

// NewPoller creates a poller; Start must be called before jobs run
func NewPoller(interval time.Duration, source MessageSource, sessions SessionSource, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	scheduler := gocron.NewScheduler(time.UTC)
	// a slow poll skips the next tick instead of piling up
	scheduler.SetMaxConcurrentJobs(1, gocron.RescheduleMode)
	return &Poller{
		scheduler: scheduler,
		source:    source,
		sessions:  sessions,
		interval:  interval,
		logger:    logger,
	}
}

// Start runs the scheduler in the background
func (p *Poller) Start() {
	p.scheduler.StartAsync()
}

// Stop halts the scheduler and every job
func (p *Poller) Stop() {
	p.scheduler.Stop()
}

// Handle controls the polling of one chat
type Handle struct {
	poller *Poller
	job    *gocron.Job
	active atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
}

// Active reports whether results are still wanted
func (h *Handle) Active() bool {
	return h.active.Load()
}

// Stop ends polling. Results of a poll in flight are dropped. Safe to call
// more than once.
func (h *Handle) Stop() {
	if !h.active.CompareAndSwap(true, false) {
		return
	}
	h.cancel()
	if h.job != nil {
		h.poller.scheduler.RemoveByReference(h.job)
	}
}

// Watch polls the messages of matchID right away and then every interval,
// passing each accepted result to deliver
func (p *Poller) Watch(matchID string, deliver func(Result)) (*Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{poller: p, ctx: ctx, cancel: cancel}
	h.active.Store(true)

	job, err := p.scheduler.Every(p.interval).Do(func() {
		p.poll(h, matchID, deliver)
	})
	if err != nil {
		cancel()
		h.active.Store(false)
		return nil, fmt.Errorf("schedule chat poll: %w", err)
	}
	h.job = job
	p.logger.Debug("watching chat", zap.String("match_id", matchID), zap.Duration("interval", p.interval))
	return h, nil
}

func (p *Poller) poll(h *Handle, matchID string, deliver func(Result)) {
	if !h.Active() {
		return
	}

	issued := p.sessions.Snapshot()
	if !issued.Authenticated() {
		p.logger.Debug("skipping chat poll without a session", zap.String("match_id", matchID))
		return
	}

	messages, err := p.source.Messages(h.ctx, issued.Token, matchID)

	if !h.Active() {
		return
	}
	current := p.sessions.Snapshot()
	if current.Epoch != issued.Epoch || !current.Authenticated() {
		p.logger.Debug("discarding chat poll for a finished session", zap.String("match_id", matchID))
		return
	}
	if err != nil {
		p.logger.Warn("chat poll failed", zap.String("match_id", matchID), zap.Error(err))
	}
	deliver(Result{MatchID: matchID, Messages: messages, Err: err})
}

func providePoller(lc fx.Lifecycle, cfg *config.Config, source *api.Client, sessions *session.Store, logger *zap.Logger) *Poller {
	p := NewPoller(cfg.Chat.PollInterval, source, sessions, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			p.Stop()
			return nil
		},
	})
	return p
}

// Module provides the chat poller
var Module = fx.Module("poller",
	fx.Provide(providePoller),
)
