package tui

import (
	"github.com/brizzai/unhinged/internal/auth"
	tea "github.com/charmbracelet/bubbletea"
)

type callbackDoneMsg struct {
	outcome auth.Outcome
	handled bool
}

// callbackScreen completes an OAuth return. One screen instance is one
// mount: its handler exchanges the session id at most once.
type callbackScreen struct {
	placeholderScreen
	env      env
	fragment string
	handler  *auth.CallbackHandler
}

func newCallbackScreen(e env, fragment string) callbackScreen {
	return callbackScreen{
		placeholderScreen: newPlaceholderScreen("AUTHENTICATING..."),
		env:               e,
		fragment:          fragment,
		handler:           auth.NewCallbackHandler(e.deps.Client, e.deps.Store, e.logger()),
	}
}

func (m callbackScreen) Init() tea.Cmd {
	handler, ctx, fragment := m.handler, m.env.ctx, m.fragment
	exchange := func() tea.Msg {
		outcome, handled := handler.Handle(ctx, fragment)
		return callbackDoneMsg{outcome: outcome, handled: handled}
	}
	return tea.Batch(m.placeholderScreen.Init(), exchange)
}

func (m callbackScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackDoneMsg:
		if !msg.handled {
			return m, nil
		}
		cmds := []tea.Cmd{navigate(msg.outcome.Path, msg.outcome.Replace)}
		switch msg.outcome.Level {
		case auth.NoticeSuccess:
			cmds = append(cmds, notifySuccess(msg.outcome.Notice))
		case auth.NoticeError:
			cmds = append(cmds, notifyError(msg.outcome.Notice))
		}
		return m, tea.Batch(cmds...)

	default:
		p, cmd := m.placeholderScreen.Update(msg)
		m.placeholderScreen = p.(placeholderScreen)
		return m, cmd
	}
}
