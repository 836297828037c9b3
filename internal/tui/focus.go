package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/focus"
	"github.com/sadopc/focusflow/internal/store"
)

type focusModel struct {
	env    *env
	width  int
	height int

	cycle *focus.Cycle
	timer *focus.Timer
	sound bool

	// The open session in the store, empty between sessions.
	sessionID string
	taskTitle string

	titles       []string
	picking      bool
	pickerCursor int
	pickOpen     bool

	sessions []store.FocusSession
}

func newFocusModel(e *env) focusModel {
	return focusModel{
		env:   e,
		cycle: focus.NewCycle(focus.DefaultConfig()),
		timer: focus.NewTimer(e.now),
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f focusModel) busy() bool {
	return f.cycle.Phase().Counting() || f.timer.Running()
}

type focusDataMsg struct {
	cfg      focus.Config
	sound    bool
	titles   []string
	sessions []store.FocusSession
}

func (f focusModel) refresh() tea.Cmd {
	e := f.env
	return func() tea.Msg {
		prefs := e.store.Prefs.LoadPreferences(e.ctx)
		var titles []string
		for _, it := range store.MergeByID(e.store.Data.LoadRoutineItems(e.ctx), e.store.Tasks.GetTasks(e.ctx)) {
			if !it.Completed {
				titles = append(titles, it.Title)
			}
		}
		return focusDataMsg{
			cfg:      focus.FromPreferences(prefs),
			sound:    prefs.SoundEnabled,
			titles:   titles,
			sessions: e.store.Focus.TodaySessions(e.ctx),
		}
	}
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case focusDataMsg:
		if !f.cycle.Phase().Counting() {
			f.cycle = focus.NewCycle(msg.cfg)
		}
		f.sound = msg.sound
		f.titles = msg.titles
		f.sessions = msg.sessions
		return f, nil

	case tickMsg:
		return f.tick()

	case tea.KeyMsg:
		wasIdle := f.timer.Idle()
		f.timer.RecordActivity()
		if f.picking {
			return f.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Open):
			if f.busy() {
				return f, nil
			}
			f.pickOpen = key.Matches(msg, keys.Open)
			if len(f.titles) == 0 {
				return f.begin("")
			}
			f.picking = true
			f.pickerCursor = 0
			return f, nil

		case key.Matches(msg, keys.Stop):
			return f.stop()

		case key.Matches(msg, keys.Pause):
			if f.cycle.SkipBreak(f.env.now()) {
				return f.openSession("Back to work")
			}
			if !wasIdle {
				f.timer.Toggle()
			}
			return f, nil
		}
	}
	return f, nil
}

func (f focusModel) tick() (focusModel, tea.Cmd) {
	if f.timer.Running() && f.timer.Tick() {
		return f, statusCmd("No activity, focus timer paused")
	}

	switch f.cycle.Tick(f.env.now()) {
	case focus.EventWorkDone:
		label := "Break time!"
		if f.cycle.Phase() == focus.PhaseLongBreak {
			label = "Long break time!"
		}
		return f.closeSession(label, "")
	case focus.EventBreakDone:
		return f.openSession("Back to work")
	case focus.EventCycleDone:
		return f.closeSession("Focus cycle complete!", "")
	}
	return f, nil
}

func (f focusModel) updatePicker(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if f.pickerCursor > 0 {
			f.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if f.pickerCursor < len(f.titles) {
			f.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		f.picking = false
		title := ""
		if f.pickerCursor > 0 {
			title = f.titles[f.pickerCursor-1]
		}
		return f.begin(title)
	case key.Matches(msg, keys.Back):
		f.picking = false
	}
	return f, nil
}

// begin starts either a work/break cycle or an open-ended stopwatch session.
func (f focusModel) begin(title string) (focusModel, tea.Cmd) {
	f.taskTitle = title
	if f.pickOpen {
		f.timer.Start()
		return f.openSession("Focus started")
	}
	f.cycle.Start(f.env.now())
	return f.openSession("Focus cycle started")
}

func (f focusModel) openSession(status string) (focusModel, tea.Cmd) {
	minutes := int(f.cycle.Config().Work.Minutes())
	s, err := f.env.store.Focus.StartSession(f.env.ctx, f.taskTitle, "focus", max(minutes, 1))
	if err != nil {
		return f, errorCmd("Start session", err)
	}
	f.sessionID = s.ID
	return f, tea.Batch(statusCmd(status), f.refresh())
}

func (f focusModel) closeSession(status, notes string) (focusModel, tea.Cmd) {
	if f.sessionID == "" {
		return f, statusCmd(status)
	}
	id := f.sessionID
	f.sessionID = ""
	if _, err := f.env.store.Focus.CompleteSession(f.env.ctx, id, notes); err != nil {
		return f, errorCmd("Complete session", err)
	}
	if f.sound {
		status += " \a"
	}
	return f, tea.Batch(statusCmd(status), f.refresh())
}

// stop ends a stopwatch session as completed. A cancelled cycle leaves its
// session open so it counts against the completion rate.
func (f focusModel) stop() (focusModel, tea.Cmd) {
	if f.timer.Running() {
		d := f.timer.Stop()
		return f.closeSession("Focus stopped", "focused "+formatDuration(d))
	}
	if f.cycle.Phase() != focus.PhaseIdle {
		f.cycle.Cancel()
		f.sessionID = ""
		return f, tea.Batch(statusCmd("Focus cycle cancelled"), f.refresh())
	}
	return f, nil
}

func (f focusModel) view() string {
	w := f.width - 4
	if f.picking {
		return f.renderPicker(w)
	}

	title := titleStyle.Render("Focus")
	var clock, label, indicator string
	phase := f.cycle.Phase()

	switch {
	case f.timer.Running():
		clock = formatDuration(f.timer.Elapsed())
		label = successStyle.Bold(true).Render("OPEN FOCUS")
		switch {
		case f.timer.Idle():
			indicator = warningStyle.Render("⏸  IDLE")
		case f.timer.Paused():
			indicator = warningStyle.Render("⏸  PAUSED")
		default:
			indicator = successStyle.Render("●  RUNNING")
		}
	case phase == focus.PhaseIdle:
		clock = focus.FormatClock(f.cycle.Config().Work)
		label = mutedStyle.Render("Ready")
		indicator = mutedStyle.Render("s: focus cycle  o: open-ended focus")
	case phase == focus.PhaseCompleted:
		clock = "Done!"
		label = successStyle.Bold(true).Render(phase.String())
		indicator = f.renderProgress()
	default:
		clock = focus.FormatClock(f.cycle.Remaining())
		style := accentStyle
		if phase != focus.PhaseWork {
			style = successStyle
		}
		label = style.Bold(true).Render(phase.String())
		indicator = f.renderProgress()
	}

	task := ""
	if f.taskTitle != "" && f.busy() {
		task = highlightStyle.Render(f.taskTitle)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, "",
		clockStyle.Width(w-6).Render(clock),
		label, task, "",
		indicator,
	)

	var controls string
	switch {
	case f.timer.Running():
		controls = "space: pause/resume  x: stop"
	case phase == focus.PhaseWork:
		controls = "x: cancel"
	case phase == focus.PhaseShortBreak, phase == focus.PhaseLongBreak:
		controls = "space: skip break  x: cancel"
	default:
		controls = "s: start  o: open focus"
	}

	top := panelStyle
	if f.busy() {
		top = activePanelStyle
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		top.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, content, "", mutedStyle.Render(controls))),
		f.renderSessions(w),
	)
}

func (f focusModel) renderProgress() string {
	every := f.cycle.Config().LongBreakEvery
	done := f.cycle.Completed()
	round := done % every
	if done > 0 && round == 0 && f.cycle.Phase() != focus.PhaseWork {
		round = every
	}
	var parts []string
	for i := range every {
		switch {
		case i < round:
			parts = append(parts, successStyle.Render("●"))
		case i == round && f.cycle.Phase() == focus.PhaseWork:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	return strings.Join(parts, " ") + mutedStyle.Render(fmt.Sprintf("  %d done", done))
}

func (f focusModel) renderPicker(w int) string {
	rows := []string{titleStyle.Render("Focus on"), ""}
	rows = append(rows, cursorRow(f.pickerCursor == 0, "(no task)"))
	for i, t := range f.titles {
		rows = append(rows, cursorRow(f.pickerCursor == i+1, t))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: select  esc: cancel"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (f focusModel) renderSessions(w int) string {
	title := titleStyle.Render("Today's Sessions")
	if len(f.sessions) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No sessions yet")))
	}
	rows := []string{title}
	for _, s := range f.sessions {
		mark := mutedStyle.Render("○")
		took := "open"
		if s.Completed && s.EndTime != nil {
			mark = successStyle.Render("✓")
			took = formatMinutes(int(s.EndTime.Sub(s.StartTime).Minutes()))
		}
		name := s.TaskTitle
		if name == "" {
			name = mutedStyle.Render("(no task)")
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-28s %s", mark, s.StartTime.In(f.env.now().Location()).Format("15:04"), name, took))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
