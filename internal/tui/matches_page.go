package tui

import (
	appmodels "github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/brizzai/unhinged/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type matchesMsg struct {
	matches []*appmodels.Match
	err     error
}

// listKeyMap holds key bindings for the list actions.
type listKeyMap struct {
	refresh  key.Binding
	discover key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		discover: key.NewBinding(
			key.WithKeys("esc", "d"),
			key.WithHelp("esc/d", "Back to discover"),
		),
	}
}

// matchesScreen lists everyone the user matched with
type matchesScreen struct {
	env     env
	list    list.Model
	keys    *listKeyMap
	loading bool
	loaded  bool
}

func newMatchesScreen(e env) matchesScreen {
	listKeys := newListKeyMap()

	l := list.New(nil, newMatchDelegate(newDelegateKeyMap()), 0, 0)
	l.Title = "Matches"
	l.Styles.Title = titleStyle
	l.SetShowFilter(true)
	l.SetStatusBarItemName("disaster", "disasters")
	// esc goes back to discover instead of quitting
	l.KeyMap.Quit.SetKeys("q")

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			listKeys.refresh,
			listKeys.discover,
		}
	}
	return matchesScreen{env: e, list: l, keys: listKeys, loading: true}
}

func (m matchesScreen) Init() tea.Cmd {
	return m.fetch()
}

func (m matchesScreen) fetch() tea.Cmd {
	ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
	return func() tea.Msg {
		matches, err := client.Matches(ctx, token)
		return matchesMsg{matches: matches, err: err}
	}
}

func (m matchesScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case matchesMsg:
		m.loading = false
		if msg.err != nil {
			m.env.logger().Warn("failed to load matches", zap.Error(msg.err))
			return m, notifyError("Failed to load matches")
		}
		m.loaded = true
		return m, m.list.SetItems(matchItems(msg.matches, m.env.user()))

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.discover):
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, navigate(router.PathDiscover, false)
		case key.Matches(msg, m.keys.refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.fetch(), m.list.NewStatusMessage(statusMessageStyle("Refreshing...")))
		}

	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func matchItems(matches []*appmodels.Match, self *appmodels.UserProfile) []list.Item {
	selfID := ""
	if self != nil {
		selfID = self.UserID
	}
	items := make([]list.Item, 0, len(matches))
	for _, match := range matches {
		if match == nil {
			continue
		}
		items = append(items, models.MatchItem{Match: match, SelfID: selfID})
	}
	return items
}

func (m matchesScreen) View() string {
	switch {
	case m.loading && !m.loaded:
		return docStyle.Render(placeholderStyle.Render("Counting your disasters..."))
	case m.loaded && len(m.list.Items()) == 0:
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Matches"),
			"",
			editHeaderStyle.Render("No matches yet"),
			helpStyle.Render("Keep swiping in Discover to find people who can handle your red flags."),
			"",
			helpStyle.Render("esc back to discover • r refresh"),
		))
	}
	return docStyle.Render(m.list.View())
}
