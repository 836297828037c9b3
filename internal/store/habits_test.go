package store

import (
	"context"
	"errors"
	"testing"
)

func TestAddHabitDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	h, err := s.Habits.Add(ctx, "Meditate", "", "", 0, "Morning coffee")
	if err != nil {
		t.Fatal(err)
	}
	if h.Icon != "🎯" || h.Frequency != FrequencyDaily || h.Goal != 1 || h.StackedOn != "Morning coffee" {
		t.Fatalf("unexpected defaults: %+v", h)
	}

	if _, err := s.Habits.Add(ctx, " ", "", FrequencyDaily, 1, ""); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	if _, err := s.Habits.Add(ctx, "x", "", "hourly", 1, ""); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestCompleteHabit(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	h, _ := s.Habits.Add(ctx, "Meditate", "", FrequencyDaily, 1, "")

	got, err := s.Habits.Complete(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Streak != 1 || !got.Completed {
		t.Fatalf("unexpected habit: %+v", got)
	}

	// Same day is idempotent.
	got, _ = s.Habits.Complete(ctx, h.ID)
	if got.Streak != 1 {
		t.Fatalf("same-day completion bumped streak to %d", got.Streak)
	}

	clock.addDays(1)
	if list := s.Habits.List(ctx); list[0].Completed {
		t.Fatal("completion should not carry into the next day")
	}
	got, _ = s.Habits.Complete(ctx, h.ID)
	if got.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", got.Streak)
	}

	clock.addDays(2)
	got, _ = s.Habits.Complete(ctx, h.ID)
	if got.Streak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", got.Streak)
	}

	if _, err := s.Habits.Complete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHabitProgress(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	h, _ := s.Habits.Add(ctx, "Water", "💧", FrequencyDaily, 3, "")

	got, _ := s.Habits.Progress(ctx, h.ID)
	if got.Progress != 1 || got.Completed {
		t.Fatalf("unexpected habit: %+v", got)
	}
	clock.addDays(1)
	got, _ = s.Habits.Progress(ctx, h.ID)
	if got.Progress != 1 {
		t.Fatalf("progress should restart on a new day, got %d", got.Progress)
	}
	s.Habits.Progress(ctx, h.ID)
	got, _ = s.Habits.Progress(ctx, h.ID)
	if !got.Completed || got.Progress != 3 || got.Streak != 1 {
		t.Fatalf("expected completion at goal: %+v", got)
	}
	got, _ = s.Habits.Progress(ctx, h.ID)
	if got.Progress != 3 {
		t.Fatalf("progress past completion: %d", got.Progress)
	}
}

func TestHabitSummaryAndDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a, _ := s.Habits.Add(ctx, "Read", "", FrequencyDaily, 1, "")
	b, _ := s.Habits.Add(ctx, "Walk", "", FrequencyWeekly, 3, "")
	s.Habits.Complete(ctx, a.ID)

	sum := s.Habits.Summary(ctx)
	want := HabitSummary{CompletedToday: 1, Total: 2, LongestStreak: 1, LongestHabit: "Read"}
	if sum != want {
		t.Fatalf("got %+v, want %+v", sum, want)
	}

	if err := s.Habits.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Habits.Delete(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Habits.Summary(ctx).Total != 1 {
		t.Fatal("expected one habit left")
	}
}
