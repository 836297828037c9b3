package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartAndCompleteSession(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	s.Data.SaveRoutineItems(ctx, []TimedRoutineItem{item("1", "Write report", "09:00", 25)})

	sess, err := s.Focus.StartSession(ctx, "Write report", "", 25)
	if err != nil {
		t.Fatal(err)
	}
	if sess.SessionType != "focus" || sess.Completed || !sess.StartTime.Equal(clock.t) {
		t.Fatalf("unexpected session: %+v", sess)
	}

	clock.advance(25 * time.Minute)
	done, err := s.Focus.CompleteSession(ctx, sess.ID, "went well")
	if err != nil {
		t.Fatal(err)
	}
	if !done.Completed || done.EndTime == nil || !done.EndTime.Equal(clock.t) || done.Notes != "went well" {
		t.Fatalf("unexpected session: %+v", done)
	}

	items := s.Data.LoadRoutineItems(ctx)
	if !items[0].Completed || items[0].Status != StatusCompleted || !items[0].CompletedAt.Equal(clock.t) {
		t.Fatalf("matching routine item not completed: %+v", items[0])
	}

	if _, err := s.Focus.CompleteSession(ctx, "missing", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Focus.StartSession(ctx, "x", "focus", 0); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestCompleteSessionWithoutRoutineItem(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sess, _ := s.Focus.StartSession(ctx, "Unplanned", "focus", 25)
	if _, err := s.Focus.CompleteSession(ctx, sess.ID, ""); err != nil {
		t.Fatal(err)
	}
	if ok, _ := keyExists(ctx, s, keyRoutineItems); ok {
		t.Fatal("routine items should not be written when nothing matches")
	}
}

func keyExists(ctx context.Context, s *Store, key string) (bool, error) {
	_, ok, err := s.KV.Get(ctx, key)
	return ok, err
}

func TestTodaySessions(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	s.Focus.StartSession(ctx, "yesterday", "focus", 25)
	clock.addDays(1)
	s.Focus.StartSession(ctx, "today", "focus", 25)

	today := s.Focus.TodaySessions(ctx)
	if len(today) != 1 || today[0].TaskTitle != "today" {
		t.Fatalf("unexpected sessions: %+v", today)
	}
}

func TestSessionStats(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	if got := s.Focus.SessionStats(ctx); got != (SessionStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}

	a, _ := s.Focus.StartSession(ctx, "a", "focus", 25)
	clock.advance(30 * time.Minute)
	s.Focus.CompleteSession(ctx, a.ID, "")
	b, _ := s.Focus.StartSession(ctx, "b", "focus", 25)
	clock.advance(20 * time.Minute)
	s.Focus.CompleteSession(ctx, b.ID, "")
	s.Focus.StartSession(ctx, "c", "focus", 25)
	s.Focus.StartSession(ctx, "d", "focus", 25)

	got := s.Focus.SessionStats(ctx)
	want := SessionStats{TotalSessions: 4, TotalFocusTime: 50, AverageSessionLength: 12, CompletionRate: 50}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
