package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sadopc/focusflow/internal/logging"
	"github.com/sadopc/focusflow/internal/store"
)

// env is shared by every view.
type env struct {
	ctx       context.Context
	store     *store.Store
	log       *log.Logger
	now       func() time.Time
	exportDir string
}

func (e *env) today() string { return store.Day(e.now()) }

// Option configures NewApp.
type Option func(*env)

func WithLogger(l *log.Logger) Option {
	return func(e *env) {
		if l != nil {
			e.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *env) {
		if now != nil {
			e.now = now
		}
	}
}

// WithContext sets the context passed to storage calls.
func WithContext(ctx context.Context) Option {
	return func(e *env) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithExportDir sets where the export picker writes files. Empty means the
// working directory.
func WithExportDir(dir string) Option {
	return func(e *env) { e.exportDir = dir }
}

func newEnv(s *store.Store, opts []Option) *env {
	e := &env{
		ctx:   context.Background(),
		store: s,
		log:   logging.Discard(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewFocus
	viewHabits
	viewInsights
	viewSettings
)

var viewNames = []string{"Today", "Focus", "Habits", "Insights", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// dataChangedMsg follows a write; the app reloads the active view.
type dataChangedMsg struct {
	status string
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(what string, err error) tea.Cmd {
	return func() tea.Msg { return errorMsg(what, err) }
}

func errorMsg(what string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", what, err), isError: true}
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMinutes renders a minute count as 45m, 2h or 1h05m.
func formatMinutes(n int) string {
	switch {
	case n < 60:
		return fmt.Sprintf("%dm", n)
	case n%60 == 0:
		return fmt.Sprintf("%dh", n/60)
	}
	return fmt.Sprintf("%dh%02dm", n/60, n%60)
}

// cursorRow renders a list row with the selection marker.
func cursorRow(selected bool, text string) string {
	if selected {
		return selectedItemStyle.Render("> " + text)
	}
	return normalItemStyle.Render("  " + text)
}

func clampCursor(cursor, n int) int {
	return max(0, min(cursor, n-1))
}
