package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.Color("#a855f7")
	accentDim = lipgloss.AdaptiveColor{Light: "#7e22ce", Dark: "#c084fc"}
	danger    = lipgloss.Color("#f23a74")
	success   = lipgloss.Color("#56FF4E")
	muted     = lipgloss.AdaptiveColor{Light: "#626262", Dark: "#A49FA5"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#15202b")).
			Background(accent).
			Bold(true).
			Padding(0, 1)

	editHeaderStyle = lipgloss.NewStyle().
			Foreground(accent).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(accentDim).
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(accent).
				Bold(true)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(danger).
			Padding(1, 3).
			Align(lipgloss.Center)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#15202b")).
			Background(danger).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(muted)

	selfBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#15202b")).
			Background(accent).
			Padding(0, 1)

	otherBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(muted).
				Padding(0, 1)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(danger).
				Render

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#a855f7", Dark: "#c084fc"}).
				Render

	completeMessageStyle = lipgloss.NewStyle().
				Foreground(success).
				Render
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)
