package tui

import (
	"context"
	"errors"
	"net"

	"github.com/brizzai/unhinged/internal/requester"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type oauthListeningMsg struct {
	ln  net.Listener
	err error
}

type oauthReturnMsg struct {
	fragment string
	err      error
}

// oauthFlow sends the user to the auth provider in a browser and waits on
// the loopback receiver for the redirect back
type oauthFlow struct {
	env     env
	start   key.Binding
	cancel  context.CancelFunc
	ctx     context.Context
	url     string
	waiting bool
	err     string
}

func newOAuthFlow(e env) oauthFlow {
	return oauthFlow{
		env: e,
		start: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "Continue with Google"),
		),
	}
}

// Start binds the receiver. The authorize URL is shown once it listens.
func (f oauthFlow) Start() (oauthFlow, tea.Cmd) {
	if f.waiting {
		return f, nil
	}
	f.Close()
	f.ctx, f.cancel = context.WithCancel(f.env.ctx)
	f.waiting = true
	f.err = ""
	receiver := f.env.deps.Receiver
	return f, func() tea.Msg {
		ln, err := receiver.Listen()
		return oauthListeningMsg{ln: ln, err: err}
	}
}

func (f oauthFlow) Update(msg tea.Msg) (oauthFlow, tea.Cmd) {
	switch msg := msg.(type) {
	case oauthListeningMsg:
		if msg.err != nil {
			f.waiting = false
			f.err = msg.err.Error()
			return f, nil
		}
		if !f.waiting {
			_ = msg.ln.Close()
			return f, nil
		}
		f.url = f.env.deps.OAuth.AuthorizeURL()
		ctx, receiver := f.ctx, f.env.deps.Receiver
		return f, func() tea.Msg {
			fragment, err := receiver.Receive(ctx, msg.ln)
			return oauthReturnMsg{fragment: fragment, err: err}
		}

	case oauthReturnMsg:
		f.waiting = false
		f.url = ""
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				f.env.logger().Warn("oauth receiver stopped", zap.Error(msg.err))
				f.err = msg.err.Error()
			}
			return f, nil
		}
		// the callback screen takes it from here
		return f, navigate(router.PathDiscover+"#"+msg.fragment, true)
	}
	return f, nil
}

// Abort stops waiting for the browser
func (f oauthFlow) Abort() oauthFlow {
	f.Close()
	f.waiting = false
	f.url = ""
	return f
}

func (f oauthFlow) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

func (f oauthFlow) Waiting() bool {
	return f.waiting
}

func (f oauthFlow) View() string {
	switch {
	case f.waiting && f.url != "":
		return cardStyle.Render(
			labelStyle.Render("Finish signing in in your browser:") + "\n\n" +
				f.url + "\n\n" +
				helpStyle.Render("waiting for the redirect... esc to cancel"),
		)
	case f.waiting:
		return helpStyle.Render("starting browser sign-in...")
	case f.err != "":
		return errorMessageStyle("Browser sign-in failed: " + f.err)
	default:
		return ""
	}
}

// errorDetail is the backend's detail message, or fallback
func errorDetail(err error, fallback string) string {
	var apiErr *requester.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" && apiErr.StatusCode < 500 {
		return apiErr.Detail
	}
	return fallback
}
