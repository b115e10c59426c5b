package tui

import (
	"fmt"
	"strings"

	"github.com/brizzai/unhinged/internal/geo"
	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/profile"
	"github.com/brizzai/unhinged/internal/router"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type suggestionsMsg struct {
	suggestions *models.Suggestions
	err         error
}

type stepSavedMsg struct {
	step int
	user *models.UserProfile
	err  error
}

type geoDoneMsg struct {
	place geo.Place
	err   error
}

type setupKeyMap struct {
	next   key.Binding
	prev   key.Binding
	drop   key.Binding
	locate key.Binding
}

func newSetupKeyMap() *setupKeyMap {
	return &setupKeyMap{
		next: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "Save and continue"),
		),
		prev: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Previous step"),
		),
		drop: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Remove last entry"),
		),
		locate: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Use my location"),
		),
	}
}

var stepTitles = map[int]string{
	profile.StepBasics:   "The basics",
	profile.StepRedFlags: "Your red flags",
	profile.StepPhotos:   "Your worst photos",
	profile.StepPrompts:  "Answer some prompts",
}

// profileSetupScreen is the four step wizard every new account goes through
type profileSetupScreen struct {
	env    env
	keys   *setupKeyMap
	fields profile.Fields

	step      int
	pf        profileForm
	suggested *models.Suggestions

	saving     bool
	geoLoading bool
	geoErr     string
}

func newProfileSetupScreen(e env) profileSetupScreen {
	fields, err := profile.FromUser(e.user(), profile.SetupKeys)
	if err != nil {
		e.logger().Error("failed to seed profile fields", zap.Error(err))
		fields = profile.Fields{}
	}
	m := profileSetupScreen{
		env:       e,
		keys:      newSetupKeyMap(),
		fields:    fields,
		suggested: &models.Suggestions{},
	}
	return m.enter(profile.StepBasics)
}

func (m profileSetupScreen) Init() tea.Cmd {
	ctx, client := m.env.ctx, m.env.deps.Client
	return func() tea.Msg {
		s, err := client.Suggestions(ctx)
		return suggestionsMsg{suggestions: s, err: err}
	}
}

// enter builds the form of step from the current fields
func (m profileSetupScreen) enter(step int) profileSetupScreen {
	m.step = step
	var inputs []profileInput
	add := func(label, placeholder string, wf wizardField) {
		inputs = append(inputs, profileInput{label: label, placeholder: placeholder, field: wf})
	}

	switch step {
	case profile.StepBasics:
		add("Display name", "What should matches call you?", wizardField{key: "display_name"})
		add("Age", "Be honest. Or don't.", wizardField{key: "age", kind: kindAge})
		add("Bio", "Describe your chaos", wizardField{key: "bio"})
		add("Pronouns", "they/them, she/her...", wizardField{key: "pronouns"})
		add("Gender identity", "", wizardField{key: "gender_identity"})
		add("City", "", wizardField{key: "city"})
		add("Country", "", wizardField{key: "country"})
		add("Looking for", "Someone to share the chaos with", wizardField{key: "looking_for"})
	case profile.StepRedFlags:
		add("Red flags", "type one or a suggestion number, enter to add", wizardField{key: "red_flags", kind: kindList})
		add("Negative qualities", "type one or a suggestion number, enter to add", wizardField{key: "negative_qualities", kind: kindList})
		add("Dealbreakers", "red flags you won't tolerate", wizardField{key: "dealbreaker_red_flags", kind: kindList})
	case profile.StepPhotos:
		add("Photo URL", "https://... enter to add", wizardField{key: "photos", kind: kindList})
		add("Worst photo caption", "Explain yourself", wizardField{key: "worst_photo_caption"})
	case profile.StepPrompts:
		for _, p := range m.suggested.Prompts {
			add(p.Question, "", wizardField{key: "prompts", kind: kindPrompt, prompt: p})
		}
	}
	m.pf = newProfileForm(m.fields, inputs...)
	return m
}

// suggestionsFor lists what can be picked by number for a list key
func (m profileSetupScreen) suggestionsFor(key string) []string {
	switch key {
	case "red_flags", "dealbreaker_red_flags":
		return m.suggested.RedFlags
	case "negative_qualities":
		return m.suggested.NegativeQualities
	}
	return nil
}

func (m profileSetupScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionsMsg:
		if msg.err != nil {
			m.env.logger().Warn("failed to fetch suggestions", zap.Error(msg.err))
			return m, nil
		}
		m.suggested = msg.suggestions
		if m.step == profile.StepPrompts {
			m.pf.collect()
			m = m.enter(m.step)
		}
		return m, nil

	case geoDoneMsg:
		m.geoLoading = false
		if msg.err != nil {
			m.env.logger().Info("location lookup failed", zap.Error(msg.err))
			m.geoErr = "Couldn't auto-detect your location. You can still type it manually."
			return m, nil
		}
		m.pf.collect()
		if msg.place.City != "" {
			m.fields["city"] = msg.place.City
		}
		if msg.place.Country != "" {
			m.fields["country"] = msg.place.Country
		}
		focus := m.pf.form.focus
		m = m.enter(m.step)
		m.pf.form = m.pf.form.setFocus(focus)
		return m, nil

	case stepSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.env.logger().Warn("failed to save profile", zap.Int("step", msg.step), zap.Error(msg.err))
			return m, notifyError("Failed to save profile")
		}
		m.env.deps.Store.SetUser(msg.user)
		if msg.step < profile.LastStep {
			return m.enter(msg.step + 1), nil
		}
		return m, tea.Batch(
			navigate(router.PathDiscover, true),
			notifySuccess("Profile complete! Time to find your match made in chaos."),
		)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.next):
			return m.next()
		case key.Matches(msg, m.keys.prev):
			if m.step > profile.StepBasics && !m.saving {
				m.pf.collect()
				return m.enter(m.step - 1), nil
			}
			return m, nil
		case key.Matches(msg, m.keys.locate):
			return m.locate()
		case key.Matches(msg, m.keys.drop):
			m.pf.dropLast()
			return m, nil
		case key.Matches(msg, m.pf.form.keys.submit):
			if b, ok := m.pf.focused(); ok && b.kind == kindList {
				m.pf = m.pf.addEntry(m.suggestionsFor(b.key))
				return m, nil
			}
			m.pf.form = m.pf.form.setFocus(m.pf.form.focus + 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.pf.form, cmd = m.pf.form.Update(msg)
	return m, cmd
}

// next validates the step, saves it and moves on
func (m profileSetupScreen) next() (screen, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.pf.collect()
	if err := profile.ValidateStep(m.step, m.fields); err != nil {
		return m, notifyError(err.Error())
	}
	m.saving = true
	step, payload := m.step, profile.Normalize(m.fields)
	ctx, client, token := m.env.ctx, m.env.deps.Client, m.env.token()
	return m, func() tea.Msg {
		user, err := client.UpdateProfile(ctx, token, payload)
		return stepSavedMsg{step: step, user: user, err: err}
	}
}

func (m profileSetupScreen) locate() (screen, tea.Cmd) {
	if m.step != profile.StepBasics || m.geoLoading {
		return m, nil
	}
	m.geoErr = ""
	if !m.env.deps.Locator.Configured() {
		m.geoErr = "No coordinates configured. You can still type your city & country manually."
		return m, nil
	}
	m.geoLoading = true
	ctx, locator := m.env.ctx, m.env.deps.Locator
	return m, func() tea.Msg {
		place, err := locator.Locate(ctx)
		return geoDoneMsg{place: place, err: err}
	}
}

func (m profileSetupScreen) progress() string {
	var parts []string
	for s := profile.StepBasics; s <= profile.LastStep; s++ {
		label := fmt.Sprintf(" %d ", s)
		switch {
		case s == m.step:
			parts = append(parts, titleStyle.Render(label))
		case s < m.step:
			parts = append(parts, labelStyle.Render(label))
		default:
			parts = append(parts, helpStyle.Render(label))
		}
	}
	return strings.Join(parts, helpStyle.Render("──"))
}

func numbered(options []string) string {
	var b strings.Builder
	for i, option := range options {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, option)
	}
	return helpStyle.Render(b.String())
}

func (m profileSetupScreen) stepView() string {
	switch m.step {
	case profile.StepRedFlags:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.pf.form.View(),
			labelStyle.Render("Red flags: ")+listTags(m.fields.Strings("red_flags")),
			labelStyle.Render("Negative qualities: ")+listTags(m.fields.Strings("negative_qualities")),
			labelStyle.Render("Dealbreakers: ")+listTags(m.fields.Strings("dealbreaker_red_flags")),
			"",
			labelStyle.Render("Suggested red flags"),
			numbered(m.suggested.RedFlags),
			labelStyle.Render("Suggested negative qualities"),
			numbered(m.suggested.NegativeQualities),
		)
	case profile.StepPhotos:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.pf.form.View(),
			labelStyle.Render("Photos:"),
			helpStyle.Render(strings.Join(m.fields.Strings("photos"), "\n")),
		)
	case profile.StepPrompts:
		if len(m.pf.bindings) == 0 {
			return helpStyle.Render("No prompts today. Finish up and go find your disaster.")
		}
	case profile.StepBasics:
		geoLine := helpStyle.Render("ctrl+l fills city and country from your location")
		if m.geoLoading {
			geoLine = placeholderStyle.Render("Locating...")
		}
		if m.geoErr != "" {
			geoLine = errorMessageStyle(m.geoErr)
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.pf.form.View(), geoLine)
	}
	return m.pf.form.View()
}

func (m profileSetupScreen) View() string {
	status := ""
	if m.saving {
		status = placeholderStyle.Render("Saving...")
	}
	action := "ctrl+n next"
	if m.step == profile.LastStep {
		action = "ctrl+n finish"
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⚠ BUILD YOUR CHAOS PROFILE"),
		"",
		m.progress(),
		"",
		editHeaderStyle.Render(stepTitles[m.step]),
		"",
		m.stepView(),
		status,
		"",
		helpStyle.Render(action+" • ctrl+p back • tab next field • enter add entry • ctrl+x remove last entry"),
	))
}
