package tui

import (
	"fmt"
	"strings"

	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type profilesMsg struct {
	profiles []*models.UserProfile
	err      error
}

type swipeDoneMsg struct {
	userID string
	result *models.SwipeResult
	err    error
}

type compatibilityMsg struct {
	userID   string
	analysis string
	err      error
}

type discoverKeyMap struct {
	like     key.Binding
	pass     key.Binding
	analyze  key.Binding
	refresh  key.Binding
	matches  key.Binding
	settings key.Binding
	chat     key.Binding
	dismiss  key.Binding
	quit     key.Binding
}

func newDiscoverKeyMap() *discoverKeyMap {
	return &discoverKeyMap{
		like:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "Like")),
		pass:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "Pass")),
		analyze:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "AI compatibility")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Refresh")),
		matches:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Matches")),
		settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Settings")),
		chat:     key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "Start chatting")),
		dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Keep swiping")),
		quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
	}
}

// discoverScreen deals profiles one at a time
type discoverScreen struct {
	env  env
	keys *discoverKeyMap

	profiles []*models.UserProfile
	index    int
	loading  bool
	swiping  bool

	match         *models.NewMatch
	compatFor     string
	compatibility string
	analyzing     bool

	width int
}

func newDiscoverScreen(e env) discoverScreen {
	return discoverScreen{env: e, keys: newDiscoverKeyMap(), loading: true}
}

func (m discoverScreen) Init() tea.Cmd {
	return m.fetch()
}

func (m discoverScreen) fetch() tea.Cmd {
	ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
	return func() tea.Msg {
		profiles, err := client.Discover(ctx, token)
		return profilesMsg{profiles: profiles, err: err}
	}
}

func (m discoverScreen) current() *models.UserProfile {
	if m.index < len(m.profiles) {
		return m.profiles[m.index]
	}
	return nil
}

func (m discoverScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case profilesMsg:
		m.loading = false
		if msg.err != nil {
			m.env.logger().Warn("failed to load profiles", zap.Error(msg.err))
			return m, notifyError("Failed to load profiles")
		}
		m.profiles = msg.profiles
		m.index = 0
		return m, nil

	case swipeDoneMsg:
		m.swiping = false
		if msg.err != nil {
			m.env.logger().Warn("swipe failed", zap.Error(msg.err))
			return m, notifyError("Swipe failed. The universe intervened.")
		}
		// a refresh may have replaced the deck meanwhile
		if cur := m.current(); cur != nil && cur.UserID == msg.userID {
			m.index++
			m.compatibility, m.compatFor = "", ""
		}
		if msg.result.MatchCreated && msg.result.Match != nil {
			m.match = msg.result.Match
			return m, notifySuccess("IT'S A MATCH! Two disasters, one chaos.")
		}
		return m, nil

	case compatibilityMsg:
		m.analyzing = false
		if msg.err != nil {
			m.env.logger().Warn("compatibility analysis failed", zap.Error(msg.err))
			return m, notifyError("AI is also confused by this chaos")
		}
		if cur := m.current(); cur != nil && cur.UserID == msg.userID {
			m.compatFor, m.compatibility = msg.userID, msg.analysis
		}
		return m, nil

	case tea.KeyMsg:
		if m.match != nil {
			return m.updateMatchModal(msg)
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.matches):
			return m, navigate(router.PathMatches, false)
		case key.Matches(msg, m.keys.settings):
			return m, navigate(router.PathSettings, false)
		case key.Matches(msg, m.keys.refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.fetch()
		case key.Matches(msg, m.keys.like):
			return m.swipe(models.SwipeLike)
		case key.Matches(msg, m.keys.pass):
			return m.swipe(models.SwipePass)
		case key.Matches(msg, m.keys.analyze):
			return m.analyze()
		}
	}
	return m, nil
}

func (m discoverScreen) updateMatchModal(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.chat):
		matchID := m.match.MatchID
		m.match = nil
		return m, navigate(router.ChatPath(matchID), false)
	case key.Matches(msg, m.keys.dismiss):
		m.match = nil
	}
	return m, nil
}

func (m discoverScreen) swipe(action models.SwipeAction) (screen, tea.Cmd) {
	target := m.current()
	if m.swiping || target == nil {
		return m, nil
	}
	m.swiping = true
	ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
	return m, func() tea.Msg {
		result, err := client.Swipe(ctx, token, target.UserID, action)
		return swipeDoneMsg{userID: target.UserID, result: result, err: err}
	}
}

func (m discoverScreen) analyze() (screen, tea.Cmd) {
	target := m.current()
	if m.analyzing || target == nil {
		return m, nil
	}
	m.analyzing = true
	ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
	return m, func() tea.Msg {
		c, err := client.AnalyzeCompatibility(ctx, token, target.UserID)
		if err != nil {
			return compatibilityMsg{userID: target.UserID, err: err}
		}
		return compatibilityMsg{userID: target.UserID, analysis: c.Analysis}
	}
}

// profileCard renders a user the way discover and chat show them
func profileCard(u *models.UserProfile, width int) string {
	var lines []string
	header := labelStyle.Render(u.DisplayedName())
	if u.Age != nil {
		header += fmt.Sprintf(", %d", *u.Age)
	}
	lines = append(lines, header)
	if loc := u.Location; loc != "" {
		lines = append(lines, helpStyle.Render("📍 "+loc))
	}
	if u.Bio != "" {
		lines = append(lines, "", u.Bio)
	}
	if len(u.RedFlags) > 0 {
		var tags []string
		for _, flag := range u.RedFlags {
			tags = append(tags, tagStyle.Render("🚩 "+flag))
		}
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(strings.Join(tags, " ")))
	}
	if len(u.NegativeQualities) > 0 {
		lines = append(lines, "", helpStyle.Render("Also: "+strings.Join(u.NegativeQualities, ", ")))
	}
	for _, p := range u.Prompts {
		if p.Answer == "" {
			continue
		}
		lines = append(lines, "", labelStyle.Render(p.Question), p.Answer)
	}
	if u.LookingFor != "" {
		lines = append(lines, "", helpStyle.Render("Looking for: "+u.LookingFor))
	}
	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m discoverScreen) cardWidth() int {
	w := m.width - 8
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (m discoverScreen) View() string {
	header := titleStyle.Render("⚠ UNHINGED") + "  " + helpStyle.Render("m matches • s settings • q quit")

	if m.match != nil {
		name := ""
		if m.match.MatchedUser != nil {
			name = m.match.MatchedUser.DisplayedName()
		}
		modal := modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			placeholderStyle.Render("IT'S A MATCH!"),
			"",
			fmt.Sprintf("You and %s are both unhinged.", name),
			"",
			helpStyle.Render("enter start chatting • esc keep swiping"),
		))
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", modal))
	}

	var body string
	switch cur := m.current(); {
	case m.loading:
		body = placeholderStyle.Render("Finding disasters near you...")
	case cur == nil:
		body = lipgloss.JoinVertical(lipgloss.Left,
			editHeaderStyle.Render("No more chaos nearby"),
			helpStyle.Render("You've seen everyone. Press r to check again."),
		)
	default:
		parts := []string{profileCard(cur, m.cardWidth())}
		switch {
		case m.analyzing:
			parts = append(parts, placeholderStyle.Render("AI is analyzing your combined chaos..."))
		case m.compatFor == cur.UserID && m.compatibility != "":
			parts = append(parts, cardStyle.Width(m.cardWidth()).Render(labelStyle.Render("AI compatibility")+"\n"+m.compatibility))
		}
		parts = append(parts, helpStyle.Render("←/h pass • →/l like • a AI compatibility • r refresh"))
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}
