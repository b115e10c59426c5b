package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/poller"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type pollMsg struct {
	result poller.Result
}

type matchInfoMsg struct {
	user *models.UserProfile
	err  error
}

type sentMsg struct {
	message *models.Message
	err     error
}

type icebreakerMsg struct {
	text string
	err  error
}

type chatKeyMap struct {
	send       key.Binding
	icebreaker key.Binding
	back       key.Binding
}

func newChatKeyMap() *chatKeyMap {
	return &chatKeyMap{
		send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Send")),
		icebreaker: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "AI icebreaker")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Back to matches")),
	}
}

// pollFeed hands poll results from the scheduler to the program. Only the
// newest undelivered result is kept.
type pollFeed struct {
	results chan poller.Result
	done    chan struct{}
}

func newPollFeed() *pollFeed {
	return &pollFeed{results: make(chan poller.Result, 1), done: make(chan struct{})}
}

func (f *pollFeed) deliver(r poller.Result) {
	select {
	case <-f.done:
		return
	default:
	}
	for {
		select {
		case f.results <- r:
			return
		default:
			select {
			case <-f.results:
			default:
			}
		}
	}
}

func (f *pollFeed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.done:
			return nil
		default:
		}
		select {
		case r := <-f.results:
			return pollMsg{result: r}
		case <-f.done:
			return nil
		}
	}
}

// chatScreen is one conversation, refreshed by the poller while it is open
type chatScreen struct {
	env     env
	keys    *chatKeyMap
	matchID string

	feed   *pollFeed
	handle *poller.Handle

	matched  *models.UserProfile
	messages []models.Message
	loading  bool

	input      textinput.Model
	viewport   viewport.Model
	sending    bool
	generating bool
	width      int
	height     int
}

func newChatScreen(e env, matchID string) chatScreen {
	ti := textinput.New()
	ti.Placeholder = "Say something unhinged..."
	ti.CharLimit = 1000
	ti.Focus()

	m := chatScreen{
		env:      e,
		keys:     newChatKeyMap(),
		matchID:  matchID,
		feed:     newPollFeed(),
		loading:  true,
		input:    ti,
		viewport: viewport.New(0, 0),
	}
	handle, err := e.deps.Poller.Watch(matchID, m.feed.deliver)
	if err != nil {
		e.logger().Error("failed to start chat polling", zap.String("match_id", matchID), zap.Error(err))
	}
	m.handle = handle
	return m
}

func (m chatScreen) Init() tea.Cmd {
	ctx, client, token, matchID := m.env.ctx, m.env.deps.Client, m.env.token(), m.matchID
	return tea.Batch(
		textinput.Blink,
		m.feed.wait(),
		func() tea.Msg {
			matches, err := client.Matches(ctx, token)
			if err != nil {
				return matchInfoMsg{err: err}
			}
			for _, match := range matches {
				if match != nil && match.MatchID == matchID {
					return matchInfoMsg{user: match.MatchedUser}
				}
			}
			return matchInfoMsg{}
		},
	)
}

// Close stops polling for this conversation
func (m chatScreen) Close() {
	if m.handle != nil {
		m.handle.Stop()
	}
	select {
	case <-m.feed.done:
	default:
		close(m.feed.done)
	}
}

func (m chatScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		m.viewport.Width = msg.Width - h
		m.viewport.Height = msg.Height - v - 6
		m.input.Width = msg.Width - h - 4
		m.refresh()
		return m, nil

	case pollMsg:
		if msg.result.MatchID != m.matchID {
			return m, nil
		}
		first := m.loading
		m.loading = false
		if msg.result.Err != nil {
			var cmd tea.Cmd
			if first {
				cmd = notifyError("Failed to load messages")
			}
			return m, tea.Batch(cmd, m.feed.wait())
		}
		m.messages = msg.result.Messages
		m.refresh()
		return m, m.feed.wait()

	case matchInfoMsg:
		if msg.err != nil {
			m.env.logger().Warn("failed to fetch match info", zap.Error(msg.err))
		}
		if msg.user != nil {
			m.matched = msg.user
		}
		return m, nil

	case sentMsg:
		m.sending = false
		if msg.err != nil {
			m.env.logger().Warn("failed to send message", zap.Error(msg.err))
			return m, notifyError("Failed to send message")
		}
		m.messages = appendMessage(m.messages, *msg.message)
		m.input.SetValue("")
		m.refresh()
		return m, nil

	case icebreakerMsg:
		m.generating = false
		if msg.err != nil {
			m.env.logger().Warn("icebreaker failed", zap.Error(msg.err))
			return m, notifyError("AI couldn't handle the chaos")
		}
		m.input.SetValue(msg.text)
		m.input.CursorEnd()
		return m, notifySuccess("AI icebreaker generated!")

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.back):
			return m, navigate(router.PathMatches, false)
		case key.Matches(msg, m.keys.send):
			return m.send()
		case key.Matches(msg, m.keys.icebreaker):
			return m.icebreaker()
		case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// appendMessage adds a sent message unless a poll already brought it in
func appendMessage(messages []models.Message, msg models.Message) []models.Message {
	for _, existing := range messages {
		if msg.MessageID != "" && existing.MessageID == msg.MessageID {
			return messages
		}
	}
	return append(messages, msg)
}

func (m chatScreen) send() (screen, tea.Cmd) {
	content := m.input.Value()
	if strings.TrimSpace(content) == "" || m.sending {
		return m, nil
	}
	m.sending = true
	ctx, client, token, matchID := m.env.ctx, m.env.deps.Client, m.env.token(), m.matchID
	return m, func() tea.Msg {
		message, err := client.SendMessage(ctx, token, matchID, content)
		return sentMsg{message: message, err: err}
	}
}

func (m chatScreen) icebreaker() (screen, tea.Cmd) {
	if m.matched == nil || m.generating {
		return m, nil
	}
	m.generating = true
	ctx, client, token, target := m.env.ctx, m.env.deps.Client, m.env.token(), m.matched.UserID
	return m, func() tea.Msg {
		text, err := client.Icebreaker(ctx, token, target)
		return icebreakerMsg{text: text, err: err}
	}
}

// refresh re-renders the conversation and keeps it scrolled to the end
func (m *chatScreen) refresh() {
	selfID := ""
	if u := m.env.user(); u != nil {
		selfID = u.UserID
	}
	width := m.viewport.Width
	if width <= 0 {
		width = 60
	}

	var b strings.Builder
	var lastDay string
	for _, msg := range m.messages {
		if day := dayLabel(msg.CreatedAt, time.Now()); day != lastDay {
			b.WriteString(helpStyle.Width(width).Align(lipgloss.Center).Render(day))
			b.WriteString("\n")
			lastDay = day
		}
		stamp := helpStyle.Render(msg.CreatedAt.Local().Format("15:04"))
		bubbleWidth := lipgloss.Width(msg.Content) + 2
		if limit := width * 3 / 4; bubbleWidth > limit {
			bubbleWidth = limit
		}
		if msg.FromSelf(selfID) {
			bubble := selfBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, lipgloss.JoinHorizontal(lipgloss.Bottom, bubble, " "+stamp)))
		} else {
			bubble := otherBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Bottom, bubble, " "+stamp)))
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// dayLabel groups messages as Today, Yesterday or a date
func dayLabel(t, now time.Time) string {
	t, now = t.Local(), now.Local()
	sameDay := func(a, b time.Time) bool {
		y1, m1, d1 := a.Date()
		y2, m2, d2 := b.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	switch {
	case sameDay(t, now):
		return "Today"
	case sameDay(t.AddDate(0, 0, 1), now):
		return "Yesterday"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func (m chatScreen) header() string {
	name := "Loading..."
	if m.matched != nil {
		name = m.matched.DisplayedName()
	}
	header := titleStyle.Render("⚠ " + name)
	if m.matched != nil && len(m.matched.RedFlags) > 0 {
		header += " " + tagStyle.Render(fmt.Sprintf("🚩 %d", len(m.matched.RedFlags)))
	}
	return header
}

func (m chatScreen) View() string {
	var body string
	switch {
	case m.loading:
		body = placeholderStyle.Render("Loading the chaos...")
	case len(m.messages) == 0:
		body = helpStyle.Render("No messages yet. Break the ice, or let the AI do it with ctrl+t.")
	default:
		body = m.viewport.View()
	}

	status := ""
	switch {
	case m.sending:
		status = placeholderStyle.Render("Sending...")
	case m.generating:
		status = placeholderStyle.Render("AI is writing something unhinged...")
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		"",
		body,
		"",
		m.input.View(),
		status,
		helpStyle.Render("enter send • ctrl+t AI icebreaker • pgup/pgdown scroll • esc back"),
	))
}
