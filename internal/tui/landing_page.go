package tui

import (
	"github.com/brizzai/unhinged/internal/router"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// landingKeyMap holds key bindings for the landing page actions
type landingKeyMap struct {
	login    key.Binding
	register key.Binding
	quit     key.Binding
}

func newLandingKeyMap() *landingKeyMap {
	return &landingKeyMap{
		login: key.NewBinding(
			key.WithKeys("l", "enter"),
			key.WithHelp("l/enter", "Sign in"),
		),
		register: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Create account"),
		),
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q/ctrl+c", "Quit"),
		),
	}
}

// landingScreen is the first page anyone sees
type landingScreen struct {
	keys   *landingKeyMap
	width  int
	height int
}

func newLandingScreen() landingScreen {
	return landingScreen{keys: newLandingKeyMap()}
}

func (m landingScreen) Init() tea.Cmd {
	return nil
}

func (m landingScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.login):
			return m, navigate(router.PathLogin, false)
		case key.Matches(msg, m.keys.register):
			return m, navigate(router.PathRegister, false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m landingScreen) View() string {
	width := m.width - 4
	if width < 40 {
		width = 40
	}

	title := titleStyle.Render("⚠ UNHINGED")

	descStyle := lipgloss.NewStyle().
		Padding(1, 0).
		Width(width).
		Align(lipgloss.Center)

	description := descStyle.Render(
		"The dating app where your red flags are the main attraction.\n" +
			"Lead with your worst. Match with someone just as chaotic.",
	)

	pitch := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("1.")+" Confess your red flags",
		labelStyle.Render("2.")+" Upload your worst photos",
		labelStyle.Render("3.")+" Let the AI roast your compatibility",
	))

	help := helpStyle.Width(width).Align(lipgloss.Center).Render(
		"l sign in • r create account • q quit",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		description,
		pitch,
		"",
		help,
	)
	return docStyle.Render(content)
}

// placeholderScreen shows a spinner and a single word while something resolves
type placeholderScreen struct {
	text    string
	spinner spinner.Model
	width   int
	height  int
}

func newPlaceholderScreen(text string) placeholderScreen {
	s := spinner.New(spinner.WithSpinner(spinner.Pulse), spinner.WithStyle(placeholderStyle))
	return placeholderScreen{text: text, spinner: s}
}

func (m placeholderScreen) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m placeholderScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m placeholderScreen) View() string {
	text := m.spinner.View() + " " + placeholderStyle.Render(m.text)
	if m.width == 0 {
		return text
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
}
