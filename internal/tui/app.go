// Package tui is the interactive focusflow view: today's agenda, focus
// cycles, habits, insights and settings.
package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/export"
	"github.com/sadopc/focusflow/internal/focus"
	"github.com/sadopc/focusflow/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	env    *env
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	focus    focusModel
	habits   habitsModel
	insights insightsModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, opts ...Option) App {
	e := newEnv(s, opts)
	setHighContrast(s.Prefs.LoadAccessibility(e.ctx).HighContrast)

	h := help.New()
	h.ShowAll = false

	return App{
		env:        e,
		activeView: viewToday,
		today:      newTodayModel(e),
		focus:      newFocusModel(e),
		habits:     newHabitsModel(e),
		insights:   newInsightsModel(e),
		settings:   newSettingsModel(e),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.refresh(),
		a.focus.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.focus.setSize(a.width, contentHeight)
		a.habits.setSize(a.width, contentHeight)
		a.insights.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Forms and pickers capture every key until they close.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewFocus)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewHabits)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewInsights)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		// The focus clock runs whichever view is showing.
		var cmd tea.Cmd
		a.focus, cmd = a.focus.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			a.env.log.Warn("tui action failed", "status", msg.text)
		}
		return a, nil

	case dataChangedMsg:
		a.status = msg.status
		a.statusError = false
		return a, a.refreshCurrentView()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil

	case todayDataMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd

	case focusDataMsg:
		var cmd tea.Cmd
		a.focus, cmd = a.focus.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewFocus:
		a.focus, cmd = a.focus.update(msg)
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewInsights:
		a.insights, cmd = a.insights.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.formActive
	case viewFocus:
		return a.focus.picking
	case viewHabits:
		return a.habits.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.refresh()
	case viewFocus:
		return a.focus.refresh()
	case viewHabits:
		return a.habits.refresh()
	case viewInsights:
		return a.insights.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewFocus:
		content = a.focus.view()
	case viewHabits:
		content = a.habits.view()
	case viewInsights:
		content = a.insights.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focusflow")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := a.focusIndicator() + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// focusIndicator keeps a running focus clock visible on every view.
func (a App) focusIndicator() string {
	f := a.focus
	switch {
	case f.timer.Running():
		elapsed := formatDuration(f.timer.Elapsed())
		if f.timer.Paused() {
			return warningStyle.Render(" ⏸ " + elapsed)
		}
		return successStyle.Render(" ● " + elapsed)
	case f.cycle.Phase().Counting():
		return accentStyle.Render(fmt.Sprintf(" %s %s", f.cycle.Phase(), focus.FormatClock(f.cycle.Remaining())))
	}
	return ""
}

var exportFormats = []string{"csv", "json"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export completed tasks"), ""}
	for i, f := range exportFormats {
		rows = append(rows, cursorRow(i == a.exportCursor, f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))
	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(ext string) tea.Cmd {
	e := a.env
	return func() tea.Msg {
		tasks := e.store.Data.LoadCompletedTasks(e.ctx)
		path := filepath.Join(e.exportDir, export.FileName(e.now(), ext))

		write := export.ToCSV
		if ext == "json" {
			write = export.ToJSON
		}
		if err := write(tasks, path); err != nil {
			return errorMsg("Export", err)
		}
		e.log.Info("exported history", "path", path, "tasks", len(tasks))
		return exportDoneMsg{path: path}
	}
}
