package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const maxBioLength = 500

// BioEditor is a modal textarea for the profile bio
type BioEditor struct {
	textarea textarea.Model
}

// NewBioEditor creates a focused editor holding initial
func NewBioEditor(initial string) BioEditor {
	ta := textarea.New()
	ta.Placeholder = "Tell them why you're a disaster..."
	ta.CharLimit = maxBioLength
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.SetValue(initial)
	ta.Focus()
	return BioEditor{textarea: ta}
}

func (m BioEditor) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the editor. Focus comes back on any key after
// esc blurred it.
func (m BioEditor) Update(msg tea.Msg) (BioEditor, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			if m.textarea.Focused() {
				m.textarea.Blur()
			}
		default:
			if !m.textarea.Focused() {
				cmd = m.textarea.Focus()
				cmds = append(cmds, cmd)
			}
		}
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// Bio returns the current text
func (m BioEditor) Bio() string {
	return m.textarea.Value()
}

func (m BioEditor) Focused() bool {
	return m.textarea.Focused()
}

func (m BioEditor) View(title string) string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		editHeaderStyle.Render(title),
		m.textarea.View(),
		helpStyle.Render(fmt.Sprintf("%d/%d • ctrl+s keep • esc twice discard", len(m.textarea.Value()), maxBioLength)),
	) + "\n\n"
}
