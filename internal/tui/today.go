package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/focusflow/internal/store"
)

type todayPane int

const (
	paneAgenda todayPane = iota
	paneBlocks
)

type todayModel struct {
	env    *env
	width  int
	height int

	agenda []store.TimedRoutineItem
	blocks []store.TimeBlock
	streak store.Streak
	points int
	water  int
	moves  int

	pane   todayPane
	cursor int

	formActive bool
	form       *huh.Form
	draft      *todayDraft
}

// todayDraft holds form values; it is a pointer so they survive model copies.
type todayDraft struct {
	title    string
	at       string
	duration string
	priority store.Priority
	category store.Category
	end      string
}

func newTodayModel(e *env) todayModel {
	return todayModel{env: e, draft: &todayDraft{}}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type todayDataMsg struct {
	agenda []store.TimedRoutineItem
	blocks []store.TimeBlock
	streak store.Streak
	points int
	water  int
	moves  int
}

func (t todayModel) refresh() tea.Cmd {
	e := t.env
	return func() tea.Msg {
		s := e.store
		return todayDataMsg{
			agenda: store.MergeByID(s.Data.LoadRoutineItems(e.ctx), s.Tasks.GetTasks(e.ctx)),
			blocks: s.Routines.GetRoutine(e.ctx, e.today()),
			streak: s.Rewards.GetStreak(e.ctx),
			points: s.Rewards.GetPoints(e.ctx),
			water:  s.Data.LoadWaterIntake(e.ctx),
			moves:  len(s.Data.LoadMovementBreaks(e.ctx)),
		}
	}
}

func (t todayModel) rows() int {
	if t.pane == paneBlocks {
		return len(t.blocks)
	}
	return len(t.agenda)
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todayDataMsg:
		t.agenda = msg.agenda
		t.blocks = msg.blocks
		t.streak = msg.streak
		t.points = msg.points
		t.water = msg.water
		t.moves = msg.moves
		t.cursor = clampCursor(t.cursor, t.rows())
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < t.rows()-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if t.pane == paneAgenda {
				t.pane = paneBlocks
			} else {
				t.pane = paneAgenda
			}
			t.cursor = 0
		case key.Matches(msg, keys.Enter):
			return t, t.completeSelected()
		case key.Matches(msg, keys.Delete):
			return t, t.deleteSelected()
		case key.Matches(msg, keys.New):
			return t.showForm()
		case key.Matches(msg, keys.Water):
			return t, t.addWater()
		case key.Matches(msg, keys.Move):
			return t, t.addMovement()
		}
	}
	return t, nil
}

func (t todayModel) completeSelected() tea.Cmd {
	if t.cursor >= t.rows() {
		return nil
	}
	if t.pane == paneBlocks {
		return t.toggleBlock(t.blocks[t.cursor])
	}
	return t.completeItem(t.agenda[t.cursor])
}

// completeItem moves a routine item to the history, or completes an ad hoc
// task. Finishing the last routine item of the day extends the streak.
func (t todayModel) completeItem(it store.TimedRoutineItem) tea.Cmd {
	e := t.env
	return func() tea.Msg {
		if !it.IsRoutine {
			if _, err := e.store.Tasks.CompleteTask(e.ctx, it.ID); err != nil {
				return errorMsg("Complete task", err)
			}
			return dataChangedMsg{status: fmt.Sprintf("Completed %q", it.Title)}
		}

		if _, err := e.store.Data.CompleteItem(e.ctx, it.ID); err != nil {
			return errorMsg("Complete item", err)
		}
		status := fmt.Sprintf("Completed %q", it.Title)
		if len(e.store.Data.LoadRoutineItems(e.ctx)) > 0 {
			return dataChangedMsg{status: status}
		}
		streak, awarded, err := e.store.Rewards.UpdateStreakForItems(e.ctx, e.store.Data.CompletedRoutineItems(e.ctx, e.today()))
		if err != nil {
			return errorMsg("Update streak", err)
		}
		if awarded > 0 {
			status = fmt.Sprintf("All routine items done! %d-day streak, +%d points", streak.CurrentStreak, awarded)
			e.log.Info("routine finished", "streak", streak.CurrentStreak, "points", awarded)
		}
		return dataChangedMsg{status: status}
	}
}

func (t todayModel) toggleBlock(b store.TimeBlock) tea.Cmd {
	e := t.env
	return func() tea.Msg {
		blocks, err := e.store.Routines.SetBlockCompleted(e.ctx, e.today(), b.ID, !b.Completed)
		if err != nil {
			return errorMsg("Update block", err)
		}
		if b.Completed {
			return dataChangedMsg{status: fmt.Sprintf("Reopened %q", b.Title)}
		}
		streak, awarded, err := e.store.Rewards.UpdateStreak(e.ctx, blocks)
		if err != nil {
			return errorMsg("Update streak", err)
		}
		if awarded > 0 {
			e.log.Info("day plan finished", "streak", streak.CurrentStreak, "points", awarded)
			return dataChangedMsg{status: fmt.Sprintf("Day complete! %d-day streak, +%d points", streak.CurrentStreak, awarded)}
		}
		return dataChangedMsg{status: fmt.Sprintf("Done: %s", b.Title)}
	}
}

func (t todayModel) deleteSelected() tea.Cmd {
	if t.cursor >= t.rows() {
		return nil
	}
	e := t.env
	if t.pane == paneBlocks {
		b := t.blocks[t.cursor]
		return func() tea.Msg {
			if err := e.store.Routines.RemoveBlock(e.ctx, e.today(), b.ID); err != nil {
				return errorMsg("Remove block", err)
			}
			return dataChangedMsg{status: "Removed " + b.Title}
		}
	}
	it := t.agenda[t.cursor]
	return func() tea.Msg {
		var err error
		if it.IsRoutine {
			err = e.store.Data.DeleteRoutineItem(e.ctx, it.ID)
		} else {
			err = e.store.Tasks.DeleteTask(e.ctx, it.ID)
		}
		if err != nil {
			return errorMsg("Delete", err)
		}
		return dataChangedMsg{status: "Deleted " + it.Title}
	}
}

func (t todayModel) addWater() tea.Cmd {
	e := t.env
	return func() tea.Msg {
		n := e.store.Data.AddWater(e.ctx, 1)
		return dataChangedMsg{status: fmt.Sprintf("💧 %d glasses today", n)}
	}
}

func (t todayModel) addMovement() tea.Cmd {
	e := t.env
	return func() tea.Msg {
		e.store.Data.AddMovementBreak(e.ctx, 5)
		return dataChangedMsg{status: "Movement break logged"}
	}
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func positiveInt(s string) error {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

func (t todayModel) showForm() (todayModel, tea.Cmd) {
	*t.draft = todayDraft{
		at:       t.env.now().Format("15:04"),
		duration: "25",
		priority: store.PriorityMedium,
		category: store.CategoryPersonal,
	}
	d := t.draft

	if t.pane == paneBlocks {
		t.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Block").Value(&d.title).Validate(notBlank),
				huh.NewInput().Title("Starts").Value(&d.at).Validate(notBlank),
				huh.NewInput().Title("Ends").Value(&d.end).Validate(notBlank),
			),
		).WithShowHelp(true).WithShowErrors(true)
	} else {
		t.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Task").Value(&d.title).Validate(notBlank),
				huh.NewInput().Title("Time").Placeholder("09:30").Value(&d.at).Validate(notBlank),
				huh.NewInput().Title("Duration (min)").Value(&d.duration).Validate(positiveInt),
				huh.NewSelect[store.Priority]().Title("Priority").
					Options(
						huh.NewOption("High", store.PriorityHigh),
						huh.NewOption("Medium", store.PriorityMedium),
						huh.NewOption("Low", store.PriorityLow),
					).Value(&d.priority),
				huh.NewSelect[store.Category]().Title("Category").
					Options(
						huh.NewOption("Work", store.CategoryWork),
						huh.NewOption("Personal", store.CategoryPersonal),
						huh.NewOption("Health", store.CategoryHealth),
						huh.NewOption("Learning", store.CategoryLearning),
						huh.NewOption("Social", store.CategorySocial),
					).Value(&d.category),
			),
		).WithShowHelp(true).WithShowErrors(true)
	}

	t.formActive = true
	return t, t.form.Init()
}

func (t todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		t.formActive = false
		t.form = nil
		return t, nil
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}
	if t.form.State == huh.StateCompleted {
		t.formActive = false
		return t, t.saveDraft()
	}
	return t, cmd
}

func (t todayModel) saveDraft() tea.Cmd {
	e := t.env
	d := *t.draft
	if t.pane == paneBlocks {
		return func() tea.Msg {
			b, err := e.store.Routines.AddBlock(e.ctx, e.today(), store.TimeBlock{Title: d.title, StartTime: d.at, EndTime: d.end})
			if err != nil {
				return errorMsg("Add block", err)
			}
			return dataChangedMsg{status: "Added " + b.Title}
		}
	}
	return func() tea.Msg {
		minutes, _ := strconv.Atoi(strings.TrimSpace(d.duration))
		task, err := e.store.Tasks.CreateTask(e.ctx, store.NewTask{
			Title:    d.title,
			Time:     d.at,
			Duration: minutes,
			Priority: d.priority,
			Category: d.category,
		})
		if err != nil {
			return errorMsg("Add task", err)
		}
		return dataChangedMsg{status: "Added " + task.Title}
	}
}

func (t todayModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := "New Task"
		if t.pane == paneBlocks {
			title = "New Time Block"
		}
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", t.form.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.renderSummary(w),
		t.renderAgenda(w),
		t.renderBlocks(w),
	)
}

func (t todayModel) renderSummary(w int) string {
	parts := []string{
		accentStyle.Render(fmt.Sprintf("🔥 %d-day streak", t.streak.CurrentStreak)),
		highlightStyle.Render(humanize.Comma(int64(t.points)) + " points"),
		fmt.Sprintf("💧 %d", t.water),
		fmt.Sprintf("🚶 %d", t.moves),
	}
	date := mutedStyle.Render(t.env.now().Format("Monday, Jan 2"))
	return panelStyle.Width(w).Render(date + "   " + strings.Join(parts, "   "))
}

func (t todayModel) renderAgenda(w int) string {
	style := panelStyle
	if t.pane == paneAgenda {
		style = activePanelStyle
	}
	title := titleStyle.Render("Agenda")
	if len(t.agenda) == 0 {
		return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Nothing scheduled. Press n to add a task."),
		))
	}

	rows := []string{title}
	for i, it := range t.agenda {
		mark := "○"
		if it.Completed {
			mark = successStyle.Render("✓")
		}
		kind := ""
		if it.IsRoutine {
			kind = mutedStyle.Render(" routine")
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color)).Render("●")
		line := fmt.Sprintf("%s %-8s %s %-28s %6s", mark, it.Time, dot, it.Title, formatMinutes(it.Duration))
		rows = append(rows, cursorRow(t.pane == paneAgenda && i == t.cursor, line)+kind)
	}
	return style.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderBlocks(w int) string {
	style := panelStyle
	if t.pane == paneBlocks {
		style = activePanelStyle
	}
	title := titleStyle.Render("Time Blocks")
	if len(t.blocks) == 0 {
		return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No blocks planned. Press → then n to add one."),
		))
	}

	done := 0
	rows := []string{""}
	for i, b := range t.blocks {
		mark := "○"
		if b.Completed {
			mark = successStyle.Render("✓")
			done++
		}
		line := fmt.Sprintf("%s %s-%s  %s", mark, b.StartTime, b.EndTime, b.Title)
		rows = append(rows, cursorRow(t.pane == paneBlocks && i == t.cursor, line))
	}
	rows[0] = title + mutedStyle.Render(fmt.Sprintf("  %d/%d", done, len(t.blocks)))
	rows = append(rows, "", mutedStyle.Render("  enter: done  n: new  d: delete  ←/→: switch list  w: water  m: move"))
	return style.Width(w).Render(strings.Join(rows, "\n"))
}
