package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/store"
)

type settingsModel struct {
	env    *env
	width  int
	height int

	prefs  store.UserPreferences
	access store.AccessibilitySettings
	shield store.ShieldSettings

	formActive bool
	form       *huh.Form
	draft      *settingsDraft
}

// settingsDraft mirrors the form. Minute fields are strings for huh inputs.
type settingsDraft struct {
	focus     string
	brk       string
	longBreak string
	rounds    string

	theme         string
	userName      string
	notifications bool
	sound         bool

	highContrast bool
	textSize     float64
	colorBlind   string
}

func newSettingsModel(e *env) settingsModel {
	return settingsModel{env: e, draft: &settingsDraft{}}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	prefs  store.UserPreferences
	access store.AccessibilitySettings
	shield store.ShieldSettings
}

func (s settingsModel) refresh() tea.Cmd {
	e := s.env
	return func() tea.Msg {
		return settingsDataMsg{
			prefs:  e.store.Prefs.LoadPreferences(e.ctx),
			access: e.store.Prefs.LoadAccessibility(e.ctx),
			shield: e.store.Prefs.LoadShield(e.ctx),
		}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.prefs = msg.prefs
		s.access = msg.access
		s.shield = msg.shield
		setHighContrast(s.access.HighContrast)
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p, a := s.prefs, s.access
	*s.draft = settingsDraft{
		focus:         strconv.Itoa(p.FocusDuration),
		brk:           strconv.Itoa(p.BreakDuration),
		longBreak:     strconv.Itoa(p.LongBreakDuration),
		rounds:        strconv.Itoa(p.SessionsUntilLongBreak),
		theme:         p.Theme,
		userName:      p.UserName,
		notifications: p.Notifications,
		sound:         p.SoundEnabled,
		highContrast:  a.HighContrast,
		textSize:      a.TextSize,
		colorBlind:    a.ColorBlindMode,
	}
	d := s.draft

	sizes := make([]huh.Option[float64], len(store.TextSizes))
	for i, ts := range store.TextSizes {
		sizes[i] = huh.NewOption(ts.Label, ts.Value)
	}
	modes := make([]huh.Option[string], len(store.ColorBlindModes))
	for i, m := range store.ColorBlindModes {
		modes[i] = huh.NewOption(m, m)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(&d.focus).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(&d.brk).Validate(positiveInt),
			huh.NewInput().Title("Long break (min)").Value(&d.longBreak).Validate(positiveInt),
			huh.NewInput().Title("Rounds before long break").Value(&d.rounds).Validate(positiveInt),
		).Title("Focus"),
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&d.userName),
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("System", "system"),
					huh.NewOption("Light", "light"),
					huh.NewOption("Dark", "dark"),
				).Value(&d.theme),
			huh.NewConfirm().Title("Notifications").Value(&d.notifications),
			huh.NewConfirm().Title("Sound").Value(&d.sound),
		).Title("General"),
		huh.NewGroup(
			huh.NewConfirm().Title("High contrast").Value(&d.highContrast),
			huh.NewSelect[float64]().Title("Text size").Options(sizes...).Value(&d.textSize),
			huh.NewSelect[string]().Title("Colour blind mode").Options(modes...).Value(&d.colorBlind),
		).Title("Accessibility"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save(s.prefs, *s.draft)
	}
	return s, cmd
}

// save writes the draft over current; the store validates both records.
func (s settingsModel) save(current store.UserPreferences, d settingsDraft) tea.Cmd {
	e := s.env
	return func() tea.Msg {
		p := current
		p.FocusDuration = atoiOr(d.focus, p.FocusDuration)
		p.BreakDuration = atoiOr(d.brk, p.BreakDuration)
		p.LongBreakDuration = atoiOr(d.longBreak, p.LongBreakDuration)
		p.SessionsUntilLongBreak = atoiOr(d.rounds, p.SessionsUntilLongBreak)
		p.Theme = d.theme
		p.UserName = strings.TrimSpace(d.userName)
		p.Notifications = d.notifications
		p.SoundEnabled = d.sound
		if err := e.store.Prefs.SavePreferences(e.ctx, p); err != nil {
			return errorMsg("Save preferences", err)
		}

		a := store.AccessibilitySettings{HighContrast: d.highContrast, TextSize: d.textSize, ColorBlindMode: d.colorBlind}
		if err := e.store.Prefs.SaveAccessibility(e.ctx, a); err != nil {
			return errorMsg("Save accessibility", err)
		}
		return dataChangedMsg{status: "Settings saved"}
	}
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return fallback
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	p, a := s.prefs, s.access
	shield := "off"
	if s.shield.IsEnabled {
		shield = fmt.Sprintf("on, %d apps and %d sites blocked", len(s.shield.BlockedApps), len(s.shield.BlockedWebsites))
	}
	values := [][2]string{
		{"Focus", formatMinutes(p.FocusDuration)},
		{"Short break", formatMinutes(p.BreakDuration)},
		{"Long break", formatMinutes(p.LongBreakDuration)},
		{"Long break every", fmt.Sprintf("%d rounds", p.SessionsUntilLongBreak)},
		{"Name", p.UserName},
		{"Theme", p.Theme},
		{"Notifications", onOff(p.Notifications)},
		{"Sound", onOff(p.SoundEnabled)},
		{"High contrast", onOff(a.HighContrast)},
		{"Text size", textSizeLabel(a.TextSize)},
		{"Colour blind mode", a.ColorBlindMode},
		{"Distraction shield", shield},
	}

	rows := []string{title, ""}
	for _, v := range values {
		label := lipgloss.NewStyle().Width(24).Render(v[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(v[1])))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func textSizeLabel(v float64) string {
	for _, ts := range store.TextSizes {
		if ts.Value == v {
			return ts.Label
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
