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

var habitIcons = []string{"🎯", "💧", "📚", "🏃", "🧘", "💤", "🥗", "✍️"}

type habitsModel struct {
	env    *env
	width  int
	height int

	habits  []store.Habit
	summary store.HabitSummary
	cursor  int

	formActive bool
	form       *huh.Form
	draft      *habitDraft
}

type habitDraft struct {
	name      string
	icon      string
	frequency store.Frequency
	goal      string
	stackedOn string
}

func newHabitsModel(e *env) habitsModel {
	return habitsModel{env: e, draft: &habitDraft{}}
}

func (h *habitsModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

type habitsDataMsg struct {
	habits  []store.Habit
	summary store.HabitSummary
}

func (h habitsModel) refresh() tea.Cmd {
	e := h.env
	return func() tea.Msg {
		return habitsDataMsg{
			habits:  e.store.Habits.List(e.ctx),
			summary: e.store.Habits.Summary(e.ctx),
		}
	}
}

func (h habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		h.habits = msg.habits
		h.summary = msg.summary
		h.cursor = clampCursor(h.cursor, len(h.habits))
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.habits)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return h, h.record(false)
		case key.Matches(msg, keys.Step):
			return h, h.record(true)
		case key.Matches(msg, keys.New):
			return h.showForm()
		case key.Matches(msg, keys.Delete):
			if len(h.habits) > 0 {
				return h, h.delete(h.habits[h.cursor])
			}
		}
	}
	return h, nil
}

// record completes the selected habit, or adds one unit when step is set.
func (h habitsModel) record(step bool) tea.Cmd {
	if len(h.habits) == 0 {
		return nil
	}
	e := h.env
	id := h.habits[h.cursor].ID
	return func() tea.Msg {
		var got *store.Habit
		var err error
		if step {
			got, err = e.store.Habits.Progress(e.ctx, id)
		} else {
			got, err = e.store.Habits.Complete(e.ctx, id)
		}
		if err != nil {
			return errorMsg("Update habit", err)
		}
		return dataChangedMsg{status: fmt.Sprintf("%s %s %d/%d, %d-day streak", got.Icon, got.Name, got.Progress, got.Goal, got.Streak)}
	}
}

func (h habitsModel) delete(hb store.Habit) tea.Cmd {
	e := h.env
	return func() tea.Msg {
		if err := e.store.Habits.Delete(e.ctx, hb.ID); err != nil {
			return errorMsg("Delete habit", err)
		}
		return dataChangedMsg{status: "Deleted " + hb.Name}
	}
}

func (h habitsModel) showForm() (habitsModel, tea.Cmd) {
	*h.draft = habitDraft{icon: habitIcons[0], frequency: store.FrequencyDaily, goal: "1"}
	d := h.draft

	icons := make([]huh.Option[string], len(habitIcons))
	for i, ic := range habitIcons {
		icons[i] = huh.NewOption(ic, ic)
	}
	stackOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, hb := range h.habits {
		stackOptions = append(stackOptions, huh.NewOption(hb.Icon+" "+hb.Name, hb.Name))
	}

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit").Value(&d.name).Validate(notBlank),
			huh.NewSelect[string]().Title("Icon").Options(icons...).Value(&d.icon),
			huh.NewSelect[store.Frequency]().Title("Frequency").
				Options(
					huh.NewOption("Daily", store.FrequencyDaily),
					huh.NewOption("Weekly", store.FrequencyWeekly),
				).Value(&d.frequency),
			huh.NewInput().Title("Daily goal (units)").Value(&d.goal).Validate(positiveInt),
			huh.NewSelect[string]().Title("After").Description("Stack on an existing habit").
				Options(stackOptions...).Value(&d.stackedOn),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		h.formActive = false
		h.form = nil
		return h, nil
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}
	if h.form.State == huh.StateCompleted {
		h.formActive = false
		return h, h.saveDraft()
	}
	return h, cmd
}

func (h habitsModel) saveDraft() tea.Cmd {
	e := h.env
	d := *h.draft
	return func() tea.Msg {
		goal, _ := strconv.Atoi(strings.TrimSpace(d.goal))
		hb, err := e.store.Habits.Add(e.ctx, d.name, d.icon, d.frequency, goal, d.stackedOn)
		if err != nil {
			return errorMsg("Add habit", err)
		}
		return dataChangedMsg{status: "Added " + hb.Name}
	}
}

func (h habitsModel) view() string {
	w := h.width - 4
	if h.formActive && h.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Habit"), "", h.form.View()),
		)
	}

	title := titleStyle.Render("Habits")
	sum := mutedStyle.Render(fmt.Sprintf("  %d/%d done today", h.summary.CompletedToday, h.summary.Total))
	if len(h.habits) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No habits yet. Press n to add one."),
		))
	}

	rows := []string{title + sum}
	if h.summary.LongestStreak > 0 {
		rows = append(rows, accentStyle.Render(fmt.Sprintf("🔥 Longest streak: %s, %d days", h.summary.LongestHabit, h.summary.LongestStreak)))
	}
	rows = append(rows, "")

	for i, hb := range h.habits {
		mark := "○"
		if hb.Completed {
			mark = successStyle.Render("✓")
		}
		progress := fmt.Sprintf("%d/%d", hb.Progress, hb.Goal)
		line := fmt.Sprintf("%s %s %-24s %-6s 🔥%-3d %s", mark, hb.Icon, hb.Name, progress, hb.Streak, hb.Frequency)
		extra := ""
		if hb.StackedOn != "" {
			extra = mutedStyle.Render("  after " + hb.StackedOn)
		}
		rows = append(rows, cursorRow(i == h.cursor, line)+extra)
	}

	rows = append(rows, "", mutedStyle.Render("  enter: done  +: one unit  n: new  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
