package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func validTask(title string) NewTask {
	return NewTask{Title: title, Time: "09:00", Duration: 30}
}

func TestCreateTaskDefaults(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	task, err := s.Tasks.CreateTask(ctx, validTask("Write report"))
	if err != nil {
		t.Fatal(err)
	}
	if task.ID == "" {
		t.Fatal("expected an id")
	}
	if task.Icon != "calendar" || task.Priority != PriorityMedium || task.Category != CategoryPersonal {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	if task.Color != "#0A7EA4" || task.Status != StatusUpcoming || task.Completed || task.IsActive {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	if !task.CreatedAt.Equal(clock.t) || !task.UpdatedAt.Equal(clock.t) {
		t.Fatalf("unexpected timestamps: %v %v", task.CreatedAt, task.UpdatedAt)
	}

	tasks := s.Tasks.GetTasks(ctx)
	if diff := cmp.Diff([]TimedRoutineItem{*task}, tasks); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   NewTask
	}{
		{"blank title", NewTask{Title: "   ", Time: "09:00", Duration: 10}},
		{"missing time", NewTask{Title: "x", Duration: 10}},
		{"zero duration", NewTask{Title: "x", Time: "09:00"}},
		{"negative duration", NewTask{Title: "x", Time: "09:00", Duration: -5}},
		{"bad priority", NewTask{Title: "x", Time: "09:00", Duration: 10, Priority: "urgent"}},
		{"bad category", NewTask{Title: "x", Time: "09:00", Duration: 10, Category: "chores"}},
		{"bad color", NewTask{Title: "x", Time: "09:00", Duration: 10, Color: "blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Tasks.CreateTask(ctx, tt.in); !errors.Is(err, ErrInvalidTask) {
				t.Fatalf("expected ErrInvalidTask, got %v", err)
			}
		})
	}
	if n := len(s.Tasks.GetTasks(ctx)); n != 0 {
		t.Fatalf("invalid tasks were stored: %d", n)
	}
}

func TestCompleteTask(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	a, _ := s.Tasks.CreateTask(ctx, validTask("a"))
	b, _ := s.Tasks.CreateTask(ctx, validTask("b"))

	done, err := s.Tasks.CompleteTask(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.ID != a.ID || !done.Completed || done.Status != StatusCompleted || !done.CompletedAt.Equal(clock.t) {
		t.Fatalf("unexpected completed task: %+v", done)
	}

	tasks := s.Tasks.GetTasks(ctx)
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Fatalf("expected only b left, got %+v", tasks)
	}
	completed := s.Tasks.GetCompletedTasks(ctx)
	if len(completed) != 1 || completed[0].ID != a.ID {
		t.Fatalf("unexpected completed tasks: %+v", completed)
	}
	// Shared with the routine history.
	if n := len(s.Data.LoadCompletedTasks(ctx)); n != 1 {
		t.Fatalf("expected DataManager to see 1 completed task, got %d", n)
	}

	if _, err := s.Tasks.CompleteTask(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a, _ := s.Tasks.CreateTask(ctx, validTask("a"))

	if err := s.Tasks.DeleteTask(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Tasks.DeleteTask(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	a, _ := s.Tasks.CreateTask(ctx, validTask("a"))
	clock.advance(time.Hour)

	title := "renamed"
	prio := PriorityHigh
	got, err := s.Tasks.UpdateTask(ctx, a.ID, TaskPatch{Title: &title, Priority: &prio})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "renamed" || got.Priority != PriorityHigh || got.Time != "09:00" {
		t.Fatalf("unexpected task: %+v", got)
	}
	if !got.UpdatedAt.Equal(clock.t) || got.CreatedAt.Equal(clock.t) {
		t.Fatalf("unexpected timestamps: created %v updated %v", got.CreatedAt, got.UpdatedAt)
	}

	blank := " "
	if _, err := s.Tasks.UpdateTask(ctx, a.ID, TaskPatch{Title: &blank}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if _, err := s.Tasks.UpdateTask(ctx, "missing", TaskPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTasksDedupes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Tasks.SaveTasks(ctx, []TimedRoutineItem{
		item("1", "first", "09:00", 10),
		item("2", "two", "10:00", 10),
		item("1", "last", "11:00", 10),
	})

	got := s.Tasks.GetTasks(ctx)
	want := []TimedRoutineItem{
		item("1", "last", "11:00", 10),
		item("2", "two", "10:00", 10),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dedupe mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeByID(t *testing.T) {
	routine := []TimedRoutineItem{
		item("r1", "Lunch", "12:00", 30),
		item("r2", "Wake up", "7:00 AM", 10),
		item("r3", "Someday", "", 10),
	}
	tasks := []TimedRoutineItem{
		item("t1", "Call", "2:30 PM", 15),
		item("r1", "Lunch out", "12:30", 60),
	}

	got := MergeByID(routine, tasks)
	var ids []string
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	if diff := cmp.Diff([]string{"r2", "r1", "t1", "r3"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if got[1].Title != "Lunch out" {
		t.Fatalf("expected later list to win, got %q", got[1].Title)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:00", 540, true},
		{"14:30", 870, true},
		{"2:30 PM", 870, true},
		{"12:05 am", 5, true},
		{"", 0, false},
		{"noon", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseClock(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseClock(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
