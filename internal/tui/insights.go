package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/focusflow/internal/store"
)

// dayTotal is one bar of the weekly chart. Minutes come from completed
// routine items and from finished focus sessions.
type dayTotal struct {
	day          time.Time
	items        int
	itemMinutes  int
	focusMinutes int
}

// dailyTotals buckets completions into the seven days ending on end's day.
func dailyTotals(end time.Time, tasks []store.CompletedTask, sessions []store.FocusSession) []dayTotal {
	loc := end.Location()
	first := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -6)

	out := make([]dayTotal, 7)
	index := make(map[string]int, 7)
	for i := range out {
		out[i].day = first.AddDate(0, 0, i)
		index[store.Day(out[i].day)] = i
	}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		if i, ok := index[store.Day(t.CompletedAt.In(loc))]; ok {
			out[i].items++
			out[i].itemMinutes += t.Duration
		}
	}
	for _, s := range sessions {
		if !s.Completed || s.EndTime == nil {
			continue
		}
		if i, ok := index[store.Day(s.StartTime.In(loc))]; ok {
			out[i].focusMinutes += int(s.EndTime.Sub(s.StartTime).Minutes())
		}
	}
	return out
}

type insightsModel struct {
	env    *env
	width  int
	height int

	offset int // weeks back from the current one

	days     []dayTotal
	stats    store.FocusStats
	sessions store.SessionStats
	streak   store.Streak
	points   int
	rewards  []store.Reward
	cursor   int

	chart barchart.Model
	bar   progress.Model
}

func newInsightsModel(e *env) insightsModel {
	return insightsModel{
		env:   e,
		chart: barchart.New(60, 12),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m *insightsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.bar.Width = max(20, min(60, w-30))
}

type insightsDataMsg struct {
	days     []dayTotal
	stats    store.FocusStats
	sessions store.SessionStats
	streak   store.Streak
	points   int
	rewards  []store.Reward
}

func (m insightsModel) refresh() tea.Cmd {
	e := m.env
	end := e.now().AddDate(0, 0, -7*m.offset)
	return func() tea.Msg {
		s := e.store
		return insightsDataMsg{
			days:     dailyTotals(end, s.Data.LoadCompletedTasks(e.ctx), s.Focus.LoadSessions(e.ctx)),
			stats:    s.Data.LoadFocusStats(e.ctx),
			sessions: s.Focus.SessionStats(e.ctx),
			streak:   s.Rewards.GetStreak(e.ctx),
			points:   s.Rewards.GetPoints(e.ctx),
			rewards:  s.Rewards.GetRewards(e.ctx),
		}
	}
}

func (m insightsModel) update(msg tea.Msg) (insightsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case insightsDataMsg:
		m.days = msg.days
		m.stats = msg.stats
		m.sessions = msg.sessions
		m.streak = msg.streak
		m.points = msg.points
		m.rewards = msg.rewards
		m.cursor = clampCursor(m.cursor, len(m.rewards))
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rewards)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return m, m.unlock()
		}
	}
	return m, nil
}

// unlock claims the selected reward when the balance covers it.
func (m insightsModel) unlock() tea.Cmd {
	if len(m.rewards) == 0 {
		return nil
	}
	r := m.rewards[m.cursor]
	if r.UnlockedAt != nil {
		return statusCmd(r.Title + " is already unlocked")
	}
	if r.Points > m.points {
		return statusCmd(fmt.Sprintf("%s needs %s more points", r.Title, humanize.Comma(int64(r.Points-m.points))))
	}
	e := m.env
	return func() tea.Msg {
		if _, err := e.store.Rewards.UnlockReward(e.ctx, r.ID); err != nil {
			return errorMsg("Unlock reward", err)
		}
		return dataChangedMsg{status: "Unlocked " + r.Title + "!"}
	}
}

func (m *insightsModel) buildChart() {
	chartWidth := max(20, m.width-8)
	chartHeight := 10
	if m.height > 34 {
		chartHeight = 14
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	itemStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	focusStyle := lipgloss.NewStyle().Foreground(colorSecondary)
	var bars []barchart.BarData
	for _, d := range m.days {
		values := []barchart.BarValue{
			{Name: "Routine", Value: float64(d.itemMinutes), Style: itemStyle},
			{Name: "Focus", Value: float64(d.focusMinutes), Style: focusStyle},
		}
		if d.itemMinutes == 0 && d.focusMinutes == 0 {
			values = []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{Label: d.day.Format("Mon 02"), Values: values})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m insightsModel) view() string {
	w := m.width - 4

	rangeLabel := ""
	if len(m.days) > 0 {
		rangeLabel = fmt.Sprintf("%s to %s", m.days[0].day.Format("Jan 02"), m.days[len(m.days)-1].day.Format("Jan 02, 2006"))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Insights"), "  ", mutedStyle.Render(rangeLabel),
	)
	legend := fmt.Sprintf("  %s  %s",
		lipgloss.NewStyle().Foreground(colorPrimary).Render("● routine minutes"),
		lipgloss.NewStyle().Foreground(colorSecondary).Render("● focus minutes"),
	)

	week := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", m.chart.View(), legend, "", m.renderTotals(),
		"", mutedStyle.Render("  ←/→: previous/next week"),
	))
	return lipgloss.JoinVertical(lipgloss.Left, week, m.renderGoals(w), m.renderRewards(w))
}

func (m insightsModel) renderTotals() string {
	items, minutes := 0, 0
	for _, d := range m.days {
		items += d.items
		minutes += d.itemMinutes + d.focusMinutes
	}
	return fmt.Sprintf("  %d items completed, %s focused this week.  Sessions: %d, %.0f%% finished, average %s",
		items, formatMinutes(minutes), m.sessions.TotalSessions, m.sessions.CompletionRate, formatMinutes(m.sessions.AverageSessionLength))
}

func (m insightsModel) renderGoals(w int) string {
	s := m.stats
	rows := []string{
		titleStyle.Render("Goals"),
		fmt.Sprintf("  Weekly   %s  %s / %s", m.bar.ViewAs(min(s.WeeklyRatio(), 1)), formatMinutes(int(s.WeeklyProgress)), formatMinutes(s.WeeklyGoal)),
		fmt.Sprintf("  Monthly  %s  %s / %s", m.bar.ViewAs(min(s.MonthlyRatio(), 1)), formatMinutes(int(s.MonthlyProgress)), formatMinutes(s.MonthlyGoal)),
		"",
		fmt.Sprintf("  🔥 %d-day streak (best %d)   %s points   %d items all time",
			m.streak.CurrentStreak, m.streak.LongestStreak, humanize.Comma(int64(m.points)), s.CompletedSessions),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m insightsModel) renderRewards(w int) string {
	title := titleStyle.Render("Rewards")
	if len(m.rewards) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No rewards yet. Add one with: focusflow rewards add TITLE POINTS"),
		))
	}
	rows := []string{title}
	for i, r := range m.rewards {
		state := mutedStyle.Render("locked")
		switch {
		case r.UnlockedAt != nil:
			state = successStyle.Render("unlocked " + humanize.RelTime(*r.UnlockedAt, m.env.now(), "ago", "from now"))
		case r.Points <= m.points:
			state = highlightStyle.Render("available")
		}
		line := fmt.Sprintf("%-28s %8s pts", r.Title, humanize.Comma(int64(r.Points)))
		rows = append(rows, cursorRow(i == m.cursor, line)+"  "+state)
	}
	rows = append(rows, "", mutedStyle.Render("  enter: unlock"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
