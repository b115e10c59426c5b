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
	registerName = iota
	registerEmail
	registerPassword
	registerConfirm
)

const minPasswordLength = 6

type registerDoneMsg struct {
	resp *models.TokenResponse
	err  error
}

// registerScreen creates an account
type registerScreen struct {
	env        env
	keys       *authKeyMap
	form       form
	oauth      oauthFlow
	submitting bool
}

func newRegisterScreen(e env) registerScreen {
	return registerScreen{
		env:  e,
		keys: newAuthKeyMap("ctrl+l", "Sign in instead"),
		form: newForm(
			newField("Name", "How should we call you?"),
			newField("Email", "you@example.com"),
			newSecretField("Password", "••••••••"),
			newSecretField("Confirm password", "••••••••"),
		),
		oauth: newOAuthFlow(e),
	}
}

func (m registerScreen) Init() tea.Cmd {
	return nil
}

func (m registerScreen) Close() {
	m.oauth.Close()
}

// validateRegistration checks the form before anything is sent
func validateRegistration(password, confirm string) string {
	if password != confirm {
		return "Passwords don't match. Classic red flag behavior."
	}
	if len(password) < minPasswordLength {
		return "Password too short. At least 6 characters."
	}
	return ""
}

func (m registerScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
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
			return m, navigate(router.PathLogin, true)
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

	case registerDoneMsg:
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

func (m registerScreen) submit() (screen, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if problem := validateRegistration(m.form.RawValue(registerPassword), m.form.RawValue(registerConfirm)); problem != "" {
		return m, notifyError(problem)
	}
	reg := models.Registration{
		Name:     m.form.Value(registerName),
		Email:    m.form.Value(registerEmail),
		Password: m.form.RawValue(registerPassword),
	}
	m.submitting = true
	ctx, client := m.env.ctx, m.env.deps.Client
	return m, func() tea.Msg {
		resp, err := client.Register(ctx, reg)
		return registerDoneMsg{resp: resp, err: err}
	}
}

func (m registerScreen) finish(msg registerDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.env.logger().Info("registration failed", zap.Error(msg.err))
		return notifyError(errorDetail(msg.err, "Registration failed. The universe says no."))
	}
	if err := m.env.deps.Store.Login(msg.resp.AccessToken, msg.resp.User); err != nil {
		m.env.logger().Error("failed to store session", zap.Error(err))
		return notifyError("Couldn't save your session. Try again.")
	}
	return tea.Batch(
		navigate(router.PathProfileSetup, true),
		notifySuccess("Welcome to Unhinged! Let's set up your chaos profile."),
	)
}

func (m registerScreen) View() string {
	status := ""
	if m.submitting {
		status = placeholderStyle.Render("Creating your account...")
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⚠ UNHINGED"),
		editHeaderStyle.Render("Create your profile"),
		helpStyle.Render("A few basics so we know who's behind the red flags."),
		"",
		m.form.View(),
		status,
		m.oauth.View(),
		"",
		helpStyle.Render("enter submit • tab next • ctrl+g continue with Google • ctrl+l sign in • esc back"),
	))
}
