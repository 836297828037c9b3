package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/logging"
	"github.com/sadopc/focusflow/internal/store"
)

type testEnv struct {
	a   *app
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
	clock := func() time.Time { return e.now }
	s := store.NewMemory(store.WithClock(clock))
	t.Cleanup(func() { s.Close() })
	e.a = &app{
		cfg:   config.DefaultConfig(),
		log:   logging.Discard(),
		store: s,
		now:   clock,
	}
	return e
}

// run executes one command line against the shared store.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(e.a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := e.a.execute(context.Background(), root)
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Fatalf("output missing %q:\n%s", p, out)
		}
	}
}

// ============================================================
// task
// ============================================================

func TestTaskLifecycle(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	out := e.mustRun(t, "task", "add", "Write report", "--time", "10:00", "-d", "45", "-p", "high")
	assertContains(t, out, "Created task", `"Write report"`, "45m")

	id := e.a.store.Tasks.GetTasks(ctx)[0].ID
	out = e.mustRun(t, "task", "list")
	assertContains(t, out, shortID(id), "Write report", "high")

	e.mustRun(t, "task", "edit", id[:6], "--title", "Write summary", "-d", "30")
	got := e.a.store.Tasks.GetTasks(ctx)[0]
	if got.Title != "Write summary" || got.Duration != 30 || got.Priority != store.PriorityHigh {
		t.Fatalf("unexpected task after edit: %+v", got)
	}

	e.mustRun(t, "task", "done", id)
	out = e.mustRun(t, "task", "list", "--done")
	assertContains(t, out, "Write summary")
	if n := len(e.a.store.Tasks.GetTasks(ctx)); n != 0 {
		t.Fatalf("expected no open tasks, got %d", n)
	}
}

func TestTaskAddInvalid(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "task", "add", "No time")
	if !errors.Is(err, store.ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
}

func TestTaskRmUnknown(t *testing.T) {
	e := newTestEnv(t)
	if _, err := e.run(t, "task", "rm", "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestFailedCommandStillClosesResources(t *testing.T) {
	e := newTestEnv(t)
	rec := &closeRecorder{}
	e.a.closers = append(e.a.closers, rec)

	if _, err := e.run(t, "task", "rm", "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !rec.closed {
		t.Fatal("resources should be closed after a failed command")
	}
	if len(e.a.closers) != 0 {
		t.Fatalf("closers not reset: %d left", len(e.a.closers))
	}
}

// ============================================================
// routine and template
// ============================================================

func TestRoutineBlocksAndStreak(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.mustRun(t, "routine", "block", "Exercise", "--start", "07:00", "--end", "07:30")
	e.mustRun(t, "routine", "block", "Read", "--start", "21:00", "--end", "21:30")
	blocks := e.a.store.Routines.GetRoutine(ctx, "2025-03-10")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	out := e.mustRun(t, "routine", "done", blocks[0].ID)
	if strings.Contains(out, "Day complete") {
		t.Fatal("day should not be complete yet")
	}
	out = e.mustRun(t, "routine", "done", blocks[1].ID)
	assertContains(t, out, "Day complete", "1-day streak", "+22 points")

	out = e.mustRun(t, "streak")
	assertContains(t, out, "Current streak: 1 days", "2025-03-10")
}

func TestRoutineItemsComplete(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.mustRun(t, "routine", "add", "Stretch", "--time", "08:00", "-d", "15")
	e.mustRun(t, "task", "add", "Call bank", "--time", "07:30")
	out := e.mustRun(t, "routine", "show")
	if strings.Index(out, "Call bank") > strings.Index(out, "Stretch") {
		t.Fatalf("agenda should be ordered by time:\n%s", out)
	}

	id := e.a.store.Data.LoadRoutineItems(ctx)[0].ID
	out = e.mustRun(t, "routine", "complete", id)
	assertContains(t, out, `Completed "Stretch"`, "All routine items done", "+11 points")

	st := e.a.store.Data.LoadFocusStats(ctx)
	if st.TotalFocusTime != 15 || st.CompletedSessions != 1 {
		t.Fatalf("unexpected focus stats: %+v", st)
	}
}

func TestRoutineRm(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustRun(t, "routine", "add", "Stretch")
	e.mustRun(t, "routine", "block", "Read", "--start", "21:00", "--end", "21:30")

	e.mustRun(t, "routine", "rm", e.a.store.Data.LoadRoutineItems(ctx)[0].ID)
	e.mustRun(t, "routine", "rm", e.a.store.Routines.GetRoutine(ctx, "2025-03-10")[0].ID)
	if len(e.a.store.Data.LoadRoutineItems(ctx)) != 0 || len(e.a.store.Routines.GetRoutine(ctx, "2025-03-10")) != 0 {
		t.Fatal("expected item and block removed")
	}
}

func TestTemplateSaveApply(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustRun(t, "routine", "block", "Exercise", "--start", "07:00", "--end", "07:30")

	out := e.mustRun(t, "template", "save", "Weekday")
	assertContains(t, out, `"Weekday"`, "1 blocks")

	out = e.mustRun(t, "template", "apply", "Weekday", "--date", "2025-03-11")
	assertContains(t, out, "Planned 1 blocks on 2025-03-11")
	if got := e.a.store.Routines.GetRoutine(ctx, "2025-03-11"); len(got) != 1 || got[0].Title != "Exercise" {
		t.Fatalf("unexpected plan: %+v", got)
	}

	e.mustRun(t, "template", "rename", "Weekday", "Workday")
	out = e.mustRun(t, "template", "list")
	assertContains(t, out, "Workday")
	e.mustRun(t, "template", "rm", "Workday")
	if n := len(e.a.store.Routines.GetTemplates(ctx)); n != 0 {
		t.Fatalf("expected no templates, got %d", n)
	}
}

// ============================================================
// focus, habits, rewards
// ============================================================

func TestFocusSession(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustRun(t, "settings", "set", "focus_duration", "50")

	out := e.mustRun(t, "focus", "start", "Deep work")
	assertContains(t, out, "Started focus session", "50m")

	id := e.a.store.Focus.LoadSessions(ctx)[0].ID
	e.now = e.now.Add(50 * time.Minute)
	out = e.mustRun(t, "focus", "done", id, "-n", "good")
	assertContains(t, out, "50m")

	out = e.mustRun(t, "focus", "stats")
	assertContains(t, out, "Sessions:        1 (100% completed)", "Deep work")
}

func TestHabitCommands(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.mustRun(t, "habit", "add", "Water", "--icon", "💧", "-g", "2")
	id := e.a.store.Habits.List(ctx)[0].ID

	out := e.mustRun(t, "habit", "done", id, "--step")
	assertContains(t, out, "1/2 today")
	out = e.mustRun(t, "habit", "done", id, "--step")
	assertContains(t, out, "2/2 today", "1-day streak")

	out = e.mustRun(t, "habit", "list")
	assertContains(t, out, "Today: 1/1 habits", "🔥 1 days: Water")

	e.mustRun(t, "habit", "rm", id)
	if n := len(e.a.store.Habits.List(ctx)); n != 0 {
		t.Fatalf("expected no habits, got %d", n)
	}
}

func TestRewardsCommands(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.mustRun(t, "rewards", "add", "Coffee", "20", "--desc", "flat white")
	e.mustRun(t, "rewards", "add", "Concert", "2000")
	e.a.store.Rewards.AddPoints(ctx, 1500)

	out := e.mustRun(t, "rewards", "points")
	assertContains(t, out, "1,500 points")
	out = e.mustRun(t, "rewards", "available")
	assertContains(t, out, "Coffee")
	if strings.Contains(out, "Concert") {
		t.Fatalf("concert should not be affordable:\n%s", out)
	}

	id := e.a.store.Rewards.GetRewards(ctx)[0].ID
	out = e.mustRun(t, "rewards", "unlock", id)
	assertContains(t, out, `Unlocked "Coffee"`)

	if _, err := e.run(t, "rewards", "add", "Bad", "lots"); err == nil {
		t.Fatal("expected error for non-numeric points")
	}
}

// ============================================================
// settings, shield, data, export
// ============================================================

func TestSettingsCommands(t *testing.T) {
	e := newTestEnv(t)

	e.mustRun(t, "settings", "set", "theme", "dark")
	e.mustRun(t, "settings", "set", "text_size", "1.2")
	out := e.mustRun(t, "settings", "show")
	assertContains(t, out, "theme", "dark", "text_size", "1.2")

	if _, err := e.run(t, "settings", "set", "text_size", "9"); !errors.Is(err, store.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestShieldCommands(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.mustRun(t, "shield", "on")
	e.mustRun(t, "shield", "site", "news.example.com", "--category", "news")
	out := e.mustRun(t, "shield", "notify", "--calls=false")
	assertContains(t, out, "Shield on", "calls=false", "news.example.com")

	id := e.a.store.Prefs.LoadShield(ctx).BlockedWebsites[0].ID
	out = e.mustRun(t, "shield", "unblock", id)
	assertContains(t, out, "Nothing blocked.")
}

func TestDataCommands(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	out := e.mustRun(t, "data", "water", "3")
	assertContains(t, out, "3 glasses")
	e.mustRun(t, "data", "move")
	if n := len(e.a.store.Data.LoadMovementBreaks(ctx)); n != 1 {
		t.Fatalf("expected one break, got %d", n)
	}

	out = e.mustRun(t, "data", "keys")
	assertContains(t, out, "water_intake", "movement_breaks")

	e.mustRun(t, "data", "clear", "--yes")
	if e.a.store.Data.LoadWaterIntake(ctx) != 0 {
		t.Fatal("expected water reset")
	}
}

func TestExportCommands(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.mustRun(t, "routine", "add", "Stretch", "--time", "08:00", "-d", "15")
	e.mustRun(t, "routine", "complete", e.a.store.Data.LoadRoutineItems(ctx)[0].ID)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	out := e.mustRun(t, "export", "csv", path)
	assertContains(t, out, "Exported 1 tasks")

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil || len(records) != 2 || records[1][1] != "Stretch" {
		t.Fatalf("unexpected csv: %v %v", records, err)
	}

	e.a.cfg.Export.Dir = dir
	e.mustRun(t, "export", "json")
	if _, err := os.Stat(filepath.Join(dir, "focusflow-20250310.json")); err != nil {
		t.Fatalf("default export path: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	e.mustRun(t, "config", "init", path)
	if _, err := e.run(t, "config", "init", path); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	e.mustRun(t, "config", "init", path, "--force")

	cfg, err := config.LoadFiles(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Fatalf("unexpected backend %q", cfg.Storage.Backend)
	}
	out := e.mustRun(t, "config", "show")
	assertContains(t, out, "storage.backend:      sqlite")
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz"}
	if got, err := resolveID("abc", ids); err != nil || got != "abc123" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := resolveID("ab", ids); err == nil {
		t.Fatal("expected ambiguity error")
	}
	if _, err := resolveID("q", ids); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMinutes(t *testing.T) {
	for in, want := range map[int]string{5: "5m", 60: "1h", 95: "1h35m"} {
		if got := minutes(in); got != want {
			t.Errorf("minutes(%d) = %q, want %q", in, got, want)
		}
	}
}
