package tui

import (
	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	loginEmail = iota
	loginPassword
)

type loginDoneMsg struct {
	resp *models.TokenResponse
	err  error
}

type authKeyMap struct {
	back  key.Binding
	other key.Binding
}

func newAuthKeyMap(switchKeys, switchHelp string) *authKeyMap {
	return &authKeyMap{
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		other: key.NewBinding(
			key.WithKeys(switchKeys),
			key.WithHelp(switchKeys, switchHelp),
		),
	}
}

// loginScreen signs in with email and password or through the browser
type loginScreen struct {
	env        env
	keys       *authKeyMap
	form       form
	oauth      oauthFlow
	submitting bool
}

func newLoginScreen(e env) loginScreen {
	return loginScreen{
		env:  e,
		keys: newAuthKeyMap("ctrl+r", "Create an account"),
		form: newForm(
			newField("Email", "you@example.com"),
			newSecretField("Password", "••••••••"),
		),
		oauth: newOAuthFlow(e),
	}
}

func (m loginScreen) Init() tea.Cmd {
	return nil
}

func (m loginScreen) Close() {
	m.oauth.Close()
}

func (m loginScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.back):
			if m.oauth.Waiting() {
				m.oauth = m.oauth.Abort()
				return m, nil
			}
			return m, navigate(router.PathLanding, false)
		case key.Matches(msg, m.keys.other):
			return m, navigate(router.PathRegister, true)
		case key.Matches(msg, m.oauth.start):
			var cmd tea.Cmd
			m.oauth, cmd = m.oauth.Start()
			return m, cmd
		case key.Matches(msg, m.form.keys.submit):
			if !m.form.OnLast() {
				m.form = m.form.setFocus(m.form.focus + 1)
				return m, nil
			}
			return m.submit()
		}

	case loginDoneMsg:
		m.submitting = false
		return m, m.finish(msg)

	case oauthListeningMsg, oauthReturnMsg:
		var cmd tea.Cmd
		m.oauth, cmd = m.oauth.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m loginScreen) submit() (screen, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	creds := models.Credentials{Email: m.form.Value(loginEmail), Password: m.form.RawValue(loginPassword)}
	if creds.Email == "" || creds.Password == "" {
		return m, notifyError("Email and password, please. Even chaos has a login form.")
	}
	m.submitting = true
	ctx, client := m.env.ctx, m.env.deps.Client
	return m, func() tea.Msg {
		resp, err := client.Login(ctx, creds)
		return loginDoneMsg{resp: resp, err: err}
	}
}

// finish stores the session and goes where the user was headed
func (m loginScreen) finish(msg loginDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.env.logger().Info("login failed", zap.Error(msg.err))
		return notifyError(errorDetail(msg.err, "Login failed. Wrong email or password."))
	}
	if err := m.env.deps.Store.Login(msg.resp.AccessToken, msg.resp.User); err != nil {
		m.env.logger().Error("failed to store session", zap.Error(err))
		return notifyError("Couldn't save your session. Try again.")
	}

	dest := router.HomeFor(m.env.snapshot())
	if intent, ok := m.env.deps.Router.TakeIntent(); ok && msg.resp.User.ProfileComplete {
		dest = intent
	}
	return tea.Batch(
		navigate(dest, true),
		notifySuccess("Welcome back. Your red flags missed you."),
	)
}

func (m loginScreen) View() string {
	status := ""
	if m.submitting {
		status = placeholderStyle.Render("Signing in...")
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⚠ UNHINGED"),
		editHeaderStyle.Render("Welcome back"),
		"",
		m.form.View(),
		status,
		m.oauth.View(),
		"",
		helpStyle.Render("enter submit • tab next • ctrl+g continue with Google • ctrl+r create account • esc back"),
	))
}
