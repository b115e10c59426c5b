package tui

import (
	"context"
	"time"

	"github.com/brizzai/unhinged/internal/api"
	"github.com/brizzai/unhinged/internal/auth"
	"github.com/brizzai/unhinged/internal/geo"
	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/poller"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/brizzai/unhinged/internal/server"
	"github.com/brizzai/unhinged/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Deps are the services the screens talk to
type Deps struct {
	fx.In

	Client   *api.Client
	Store    *session.Store
	Router   *router.Router
	Poller   *poller.Poller
	Locator  *geo.Locator
	OAuth    *auth.Service
	Receiver *server.Server
	Logger   *zap.Logger
}

// env is what a screen gets: the services plus the program context
type env struct {
	ctx  context.Context
	deps *Deps
}

func (e env) snapshot() session.Snapshot {
	return e.deps.Store.Snapshot()
}

func (e env) token() string {
	return e.snapshot().Token
}

func (e env) user() *models.UserProfile {
	return e.snapshot().User
}

func (e env) logger() *zap.Logger {
	if e.deps.Logger == nil {
		return zap.NewNop()
	}
	return e.deps.Logger
}

// screen is one page of the app
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

// closer is implemented by screens holding background work
type closer interface {
	Close()
}

// AppModel is the main application model that manages page switching
type AppModel struct {
	env         env
	updates     <-chan session.Snapshot
	unsubscribe func()

	screen    screen
	screenKey string
	width     int
	height    int

	notice   noticeMsg
	noticeID int
}

// NewAppModel creates the app at the router's current location
func NewAppModel(ctx context.Context, deps *Deps) AppModel {
	updates, unsubscribe := deps.Store.Subscribe()
	m := AppModel{
		env:         env{ctx: ctx, deps: deps},
		updates:     updates,
		unsubscribe: unsubscribe,
	}
	// the first screen is initialized by Init
	_ = m.resolve()
	return m
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.screen.Init(),
		waitForSession(m.updates),
	)
}

// Update handles app-level messages and delegates to the active screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionMsg:
		return m, tea.Batch(m.resolve(), waitForSession(m.updates))

	case navigateMsg:
		m.env.deps.Router.Navigate(msg.path, msg.replace)
		return m, m.resolve()

	case backMsg:
		if !m.env.deps.Router.Back() {
			return m, nil
		}
		return m, m.resolve()

	case noticeMsg:
		m.noticeID++
		m.notice = msg
		id := m.noticeID
		return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{id: id} })

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = noticeMsg{}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

// View renders the active screen and the status line
func (m AppModel) View() string {
	view := m.screen.View()
	if m.notice.text == "" {
		return view
	}
	var line string
	switch m.notice.kind {
	case noticeError:
		line = errorMessageStyle(m.notice.text)
	case noticeSuccess:
		line = completeMessageStyle(m.notice.text)
	default:
		line = statusMessageStyle(m.notice.text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, docStyle.Render(line))
}

// Close stops the background work of the active screen
func (m AppModel) Close() {
	if c, ok := m.screen.(closer); ok {
		c.Close()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Location is the current router location, for tests and diagnostics
func (m AppModel) Location() router.Location {
	return m.env.deps.Router.Current()
}

// resolve runs the route guard and swaps the screen when the destination
// changed
func (m *AppModel) resolve() tea.Cmd {
	d := m.env.deps.Router.Resolve(m.env.snapshot())
	key := screenKey(d, m.env.deps.Router.Current())
	if key == m.screenKey && m.screen != nil {
		return nil
	}

	if c, ok := m.screen.(closer); ok {
		c.Close()
	}
	m.screenKey = key
	m.screen = m.build(d)
	m.env.logger().Debug("screen changed", zap.String("screen", key))

	cmd := m.screen.Init()
	if m.width > 0 {
		var sizeCmd tea.Cmd
		m.screen, sizeCmd = m.screen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmd = tea.Batch(cmd, sizeCmd)
	}
	return cmd
}

func screenKey(d router.Decision, loc router.Location) string {
	switch {
	case d.Action == router.ActionWait:
		return "wait"
	case d.Route.Page == router.PageCallback:
		return "callback:" + loc.String()
	default:
		return d.Route.Page.String() + ":" + d.Route.Path
	}
}

func (m *AppModel) build(d router.Decision) screen {
	if d.Action == router.ActionWait {
		return newPlaceholderScreen("LOADING...")
	}
	switch d.Route.Page {
	case router.PageLogin:
		return newLoginScreen(m.env)
	case router.PageRegister:
		return newRegisterScreen(m.env)
	case router.PageCallback:
		return newCallbackScreen(m.env, m.env.deps.Router.Current().Fragment)
	case router.PageProfileSetup:
		return newProfileSetupScreen(m.env)
	case router.PageDiscover:
		return newDiscoverScreen(m.env)
	case router.PageMatches:
		return newMatchesScreen(m.env)
	case router.PageChat:
		return newChatScreen(m.env, d.Route.MatchID)
	case router.PageSettings:
		return newSettingsScreen(m.env)
	default:
		return newLandingScreen()
	}
}
