package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmedMsg is sent once the phrase was typed
type confirmedMsg struct {
	action string
}

// cancelConfirmMsg closes the dialog without doing anything
type cancelConfirmMsg struct{}

// ConfirmView asks the user to type a phrase before a destructive action
type ConfirmView struct {
	action    string
	phrase    string
	warning   string
	textInput textinput.Model
	status    string
	width     int
	height    int
}

// NewConfirmView creates a dialog for action, unlocked by typing phrase
func NewConfirmView(action, phrase, warning string) ConfirmView {
	ti := textinput.New()
	ti.Placeholder = phrase
	ti.Focus()
	ti.Width = 40

	return ConfirmView{
		action:    action,
		phrase:    phrase,
		warning:   warning,
		textInput: ti,
	}
}

func (m ConfirmView) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConfirmView) Update(msg tea.Msg) (ConfirmView, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return cancelConfirmMsg{} }
		case "enter":
			if strings.TrimSpace(m.textInput.Value()) != m.phrase {
				m.status = "Type " + m.phrase + " to confirm"
				return m, nil
			}
			action := m.action
			return m, func() tea.Msg { return confirmedMsg{action: action} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m ConfirmView) View() string {
	body := strings.Join([]string{
		errorMessageStyle(strings.ToUpper(m.action) + " ACCOUNT"),
		"",
		m.warning,
		"",
		"Type " + m.phrase + " to confirm:",
		m.textInput.View(),
	}, "\n")
	if m.status != "" {
		body += "\n\n" + errorMessageStyle(m.status)
	}
	body += "\n\n" + helpStyle.Render("(esc) Never mind | (enter) Confirm")

	modal := modalStyle.Render(body)
	if m.width == 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
