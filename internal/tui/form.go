package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formKeyMap holds the bindings shared by every form
type formKeyMap struct {
	next   key.Binding
	prev   key.Binding
	submit key.Binding
}

func newFormKeyMap() *formKeyMap {
	return &formKeyMap{
		next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
	}
}

type formField struct {
	label string
	input textinput.Model
}

func newField(label, placeholder string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.CharLimit = 256
	return formField{label: label, input: ti}
}

func newSecretField(label, placeholder string) formField {
	f := newField(label, placeholder)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// form is a vertical stack of labelled text inputs with one focused field
type form struct {
	keys   *formKeyMap
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	f := form{keys: newFormKeyMap(), fields: fields}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// Update moves focus on tab/shift+tab and feeds everything else to the
// focused input
func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, f.keys.next):
			return f.setFocus(f.focus + 1), nil
		case key.Matches(k, f.keys.prev):
			return f.setFocus(f.focus - 1), nil
		}
	}
	if len(f.fields) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f form) setFocus(i int) form {
	if len(f.fields) == 0 {
		return f
	}
	n := len(f.fields)
	i = ((i % n) + n) % n
	f.fields[f.focus].input.Blur()
	f.focus = i
	f.fields[f.focus].input.Focus()
	return f
}

// Value is the trimmed text of field i
func (f form) Value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

// RawValue is the text of field i as typed
func (f form) RawValue(i int) string {
	return f.fields[i].input.Value()
}

func (f form) SetValue(i int, v string) form {
	f.fields[i].input.SetValue(v)
	return f
}

// OnLast reports whether the last field is focused
func (f form) OnLast() bool {
	return f.focus == len(f.fields)-1
}

func (f form) View() string {
	var b strings.Builder
	for i, field := range f.fields {
		label := helpStyle.Render(field.label)
		if i == f.focus {
			label = labelStyle.Render(field.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(field.input.View())
		b.WriteString("\n\n")
	}
	return b.String()
}
