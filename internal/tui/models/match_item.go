package models

import (
	"strconv"
	"strings"

	appmodels "github.com/brizzai/unhinged/internal/models"
	"github.com/charmbracelet/lipgloss"
)

var flagPreviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f23a74"))

// MatchItem wraps a match for display in the list
// Implements list.Item
type MatchItem struct {
	Match *appmodels.Match
	// SelfID marks the last message as ours
	SelfID string
}

func (i MatchItem) Title() string {
	name := i.Match.MatchedUser.DisplayedName()
	if name == "" {
		name = "Mystery disaster"
	}
	if u := i.Match.MatchedUser; u != nil && u.Age != nil {
		return name + ", " + strconv.Itoa(*u.Age)
	}
	return name
}

// Description previews the last message, else the match's red flags
func (i MatchItem) Description() string {
	if msg := i.Match.LastMessage; msg != nil {
		if msg.FromSelf(i.SelfID) {
			return "You: " + msg.Content
		}
		return msg.Content
	}
	if u := i.Match.MatchedUser; u != nil && len(u.RedFlags) > 0 {
		flags := u.RedFlags
		if len(flags) > 2 {
			flags = flags[:2]
		}
		return flagPreviewStyle.Render("🚩 " + strings.Join(flags, " • "))
	}
	return "Start the chaos! Send a message."
}

func (i MatchItem) FilterValue() string {
	return i.Match.MatchedUser.DisplayedName()
}
