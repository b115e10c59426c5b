package tui

import (
	"strings"

	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/profile"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	actionDisable = "disable"
	actionDelete  = "delete"
)

type settingsMode int

const (
	modeView settingsMode = iota
	modeEdit
	modeBio
	modeConfirm
)

type profileSavedMsg struct {
	user *models.UserProfile
	err  error
}

type roastMsg struct {
	roast string
	err   error
}

type accountClosedMsg struct {
	action string
	err    error
}

type settingsKeyMap struct {
	edit    key.Binding
	roast   key.Binding
	logout  key.Binding
	disable key.Binding
	remove  key.Binding
	back    key.Binding
	save    key.Binding
	bio     key.Binding
	drop    key.Binding
}

func newSettingsKeyMap() *settingsKeyMap {
	return &settingsKeyMap{
		edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Edit profile")),
		roast:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Roast me")),
		logout:  key.NewBinding(key.WithKeys("ctrl+o", "L"), key.WithHelp("L", "Log out")),
		disable: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "Disable account")),
		remove:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "Delete account")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Back")),
		save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "Save")),
		bio:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "Edit bio")),
		drop:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "Remove last entry")),
	}
}

// settingsScreen shows the profile and hosts editing, the AI roast and the
// account actions
type settingsScreen struct {
	env  env
	keys *settingsKeyMap
	mode settingsMode

	pf      profileForm
	bio     BioEditor
	confirm ConfirmView

	roast   string
	roasted bool
	busy    string
	width   int
	height  int
}

func newSettingsScreen(e env) settingsScreen {
	return settingsScreen{env: e, keys: newSettingsKeyMap()}
}

func (m settingsScreen) Init() tea.Cmd {
	return nil
}

// startEdit seeds the edit form from the current user
func (m settingsScreen) startEdit() settingsScreen {
	fields, err := profile.FromUser(m.env.user(), profile.SettingsKeys)
	if err != nil {
		m.env.logger().Error("failed to seed profile fields", zap.Error(err))
		fields = profile.Fields{}
	}
	m.pf = newProfileForm(fields,
		profileInput{label: "Name", field: wizardField{key: "name"}},
		profileInput{label: "Age", field: wizardField{key: "age", kind: kindAge}},
		profileInput{label: "Location", placeholder: "City, Country", field: wizardField{key: "location"}},
		profileInput{label: "Looking for", field: wizardField{key: "looking_for"}},
		profileInput{label: "Avatar URL", field: wizardField{key: "picture"}},
		profileInput{label: "Red flags", placeholder: "enter to add", field: wizardField{key: "red_flags", kind: kindList}},
		profileInput{label: "Negative qualities", placeholder: "enter to add", field: wizardField{key: "negative_qualities", kind: kindList}},
		profileInput{label: "Photo URLs", placeholder: "enter to add", field: wizardField{key: "photos", kind: kindList}},
	)
	m.mode = modeEdit
	return m
}

func (m settingsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.mode == modeConfirm {
			m.confirm, _ = m.confirm.Update(msg)
		}
		return m, nil

	case profileSavedMsg:
		m.busy = ""
		if msg.err != nil {
			m.env.logger().Warn("failed to save profile", zap.Error(msg.err))
			return m, notifyError("Failed to save profile")
		}
		m.env.deps.Store.SetUser(msg.user)
		m.mode = modeView
		return m, notifySuccess("Profile updated!")

	case roastMsg:
		m.busy = ""
		if msg.err != nil {
			m.env.logger().Warn("roast failed", zap.Error(msg.err))
			return m, notifyError("AI couldn't roast you. That's concerning.")
		}
		m.roast, m.roasted = msg.roast, true
		return m, nil

	case confirmedMsg:
		m.mode = modeView
		return m.closeAccount(msg.action)

	case cancelConfirmMsg:
		m.mode = modeView
		return m, nil

	case accountClosedMsg:
		m.busy = ""
		if msg.err != nil {
			m.env.logger().Warn("account action failed", zap.String("action", msg.action), zap.Error(msg.err))
			return m, notifyError(errorDetail(msg.err, "Couldn't "+msg.action+" your account. The chaos persists."))
		}
		notice := "Account disabled. Your red flags are on ice."
		if msg.action == actionDelete {
			notice = "Account deleted. The chaos will forget you."
		}
		return m, tea.Batch(m.leave(), notifySuccess(notice))

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeBio:
			return m.updateBio(msg)
		case modeConfirm:
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		return m.updateView(msg)
	}

	// cursor blinks and the like
	var cmd tea.Cmd
	switch m.mode {
	case modeEdit:
		m.pf.form, cmd = m.pf.form.Update(msg)
	case modeBio:
		m.bio, cmd = m.bio.Update(msg)
	case modeConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	}
	return m, cmd
}

func (m settingsScreen) updateView(msg tea.KeyMsg) (screen, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.back):
		return m, navigate(router.PathDiscover, false)
	case key.Matches(msg, m.keys.edit):
		return m.startEdit(), nil
	case key.Matches(msg, m.keys.roast):
		m.busy = "AI is preparing your roast..."
		ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
		return m, func() tea.Msg {
			roast, err := client.Roast(ctx, token)
			return roastMsg{roast: roast, err: err}
		}
	case key.Matches(msg, m.keys.logout):
		return m, tea.Batch(m.leave(), notifySuccess("Logged out. The chaos continues without you."))
	case key.Matches(msg, m.keys.disable):
		m.confirm = NewConfirmView(actionDisable, "DISABLE",
			"Your profile disappears from Discover until you sign in again.")
		m.mode = modeConfirm
		return m, tea.Batch(m.confirm.Init(), m.sizeConfirm())
	case key.Matches(msg, m.keys.remove):
		m.confirm = NewConfirmView(actionDelete, "DELETE",
			"Your profile, matches and messages are gone for good.")
		m.mode = modeConfirm
		return m, tea.Batch(m.confirm.Init(), m.sizeConfirm())
	}
	return m, nil
}

func (m settingsScreen) sizeConfirm() tea.Cmd {
	w, h := m.width, m.height
	if w == 0 {
		return nil
	}
	return func() tea.Msg { return tea.WindowSizeMsg{Width: w, Height: h} }
}

func (m settingsScreen) updateEdit(msg tea.KeyMsg) (screen, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.back):
		m.mode = modeView
		return m, nil
	case key.Matches(msg, m.keys.save):
		m.pf.collect()
		m.busy = "Saving..."
		payload := profile.Raw(m.pf.fields)
		ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
		return m, func() tea.Msg {
			user, err := client.UpdateProfile(ctx, token, payload)
			return profileSavedMsg{user: user, err: err}
		}
	case key.Matches(msg, m.keys.bio):
		m.pf.collect()
		m.bio = NewBioEditor(m.pf.fields.String("bio"))
		m.mode = modeBio
		return m, m.bio.Init()
	case key.Matches(msg, m.keys.drop):
		m.pf.dropLast()
		return m, nil
	case key.Matches(msg, m.pf.form.keys.submit):
		if m.pf.onList() {
			m.pf = m.pf.addEntry(nil)
			return m, nil
		}
		m.pf.form = m.pf.form.setFocus(m.pf.form.focus + 1)
		return m, nil
	}
	var cmd tea.Cmd
	m.pf.form, cmd = m.pf.form.Update(msg)
	return m, cmd
}

func (m settingsScreen) updateBio(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.save):
		m.pf.fields["bio"] = m.bio.Bio()
		m.mode = modeEdit
		return m, nil
	case msg.Type == tea.KeyEsc && !m.bio.Focused():
		m.mode = modeEdit
		return m, nil
	}
	var cmd tea.Cmd
	m.bio, cmd = m.bio.Update(msg)
	return m, cmd
}

func (m settingsScreen) closeAccount(action string) (screen, tea.Cmd) {
	m.busy = "Working on it..."
	ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
	return m, func() tea.Msg {
		var err error
		if action == actionDelete {
			err = client.DeleteAccount(ctx, token)
		} else {
			err = client.DisableAccount(ctx, token)
		}
		return accountClosedMsg{action: action, err: err}
	}
}

// leave ends the session and goes to the landing page. The router moves
// first so the guard never parks this page as the post-login destination.
func (m settingsScreen) leave() tea.Cmd {
	m.env.deps.Router.Navigate(router.PathLanding, true)
	m.env.deps.Store.Logout(m.env.ctx)
	return navigate(router.PathLanding, true)
}

func (m settingsScreen) viewProfile() string {
	user := m.env.user()
	if user == nil {
		return placeholderStyle.Render("LOADING...")
	}
	badge := tagStyle.Render("INCOMPLETE PROFILE")
	if user.ProfileComplete {
		badge = completeMessageStyle("CHAOS CERTIFIED")
	}
	width := m.width - 8
	if width > 72 || width <= 0 {
		width = 72
	}

	parts := []string{badge, profileCard(user, width)}
	if len(user.Photos) > 0 {
		parts = append(parts, helpStyle.Render("Photos: "+strings.Join(user.Photos, ", ")))
	}
	if m.roasted {
		parts = append(parts, cardStyle.Width(width).Render(labelStyle.Render("🔥 Your AI roast")+"\n"+m.roast))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m settingsScreen) View() string {
	header := titleStyle.Render("⚠ SETTINGS")
	status := ""
	if m.busy != "" {
		status = placeholderStyle.Render(m.busy)
	}

	switch m.mode {
	case modeConfirm:
		return m.confirm.View()
	case modeBio:
		return docStyle.Render(m.bio.View("Bio"))
	case modeEdit:
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			editHeaderStyle.Render("Edit profile"),
			"",
			m.pf.form.View(),
			labelStyle.Render("Bio: ")+m.pf.fields.String("bio"),
			labelStyle.Render("Red flags: ")+listTags(m.pf.fields.Strings("red_flags")),
			labelStyle.Render("Negative qualities: ")+listTags(m.pf.fields.Strings("negative_qualities")),
			labelStyle.Render("Photos: ")+helpStyle.Render(strings.Join(m.pf.fields.Strings("photos"), ", ")),
			status,
			"",
			helpStyle.Render("ctrl+s save • ctrl+b edit bio • enter add entry • ctrl+x remove last entry • esc cancel"),
		))
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.viewProfile(),
		status,
		"",
		helpStyle.Render("e edit • r roast me • L log out • D disable account • X delete account • esc back"),
	))
}

func listTags(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(tagStyle.Render(item))
		b.WriteString(" ")
	}
	return b.String()
}
