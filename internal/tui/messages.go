package tui

import (
	"time"

	"github.com/brizzai/unhinged/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

const noticeTTL = 4 * time.Second

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// navigateMsg asks the app to move to another location
type navigateMsg struct {
	path    string
	replace bool
}

// backMsg asks the app to return to the previous location
type backMsg struct{}

// noticeMsg shows a transient status line
type noticeMsg struct {
	kind noticeKind
	text string
}

type clearNoticeMsg struct {
	id int
}

// sessionMsg carries a session change from the store
type sessionMsg struct {
	snap session.Snapshot
}

func navigate(path string, replace bool) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{path: path, replace: replace}
	}
}

func goBack() tea.Msg {
	return backMsg{}
}

func notify(kind noticeKind, text string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{kind: kind, text: text}
	}
}

func notifyError(text string) tea.Cmd {
	return notify(noticeError, text)
}

func notifySuccess(text string) tea.Cmd {
	return notify(noticeSuccess, text)
}

func waitForSession(updates <-chan session.Snapshot) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg{snap: snap}
	}
}
