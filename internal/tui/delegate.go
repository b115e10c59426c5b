package tui

import (
	"github.com/brizzai/unhinged/internal/router"
	"github.com/brizzai/unhinged/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// delegateKeyMap holds key bindings for a selected match
type delegateKeyMap struct {
	open key.Binding
}

func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open chat"),
		),
	}
}

// newMatchDelegate renders matches in the accent color and opens the chat of
// the selected one
func newMatchDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(accent).BorderForeground(accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.BorderForeground(accent)

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		keyMsg, ok := msg.(tea.KeyMsg)
		if !ok || m.FilterState() == list.Filtering || !key.Matches(keyMsg, keys.open) {
			return nil
		}
		if item, ok := m.SelectedItem().(models.MatchItem); ok {
			return navigate(router.ChatPath(item.Match.MatchID), false)
		}
		return nil
	}

	d.ShortHelpFunc = func() []key.Binding {
		return []key.Binding{keys.open}
	}
	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{{keys.open}}
	}
	return d
}
