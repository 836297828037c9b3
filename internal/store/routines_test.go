package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sampleBlocks() []TimeBlock {
	return []TimeBlock{
		{ID: "b1", Title: "Exercise", StartTime: "07:00", EndTime: "07:30", Color: "#4CAF50", Icon: "walk"},
		{ID: "b2", Title: "Deep work", StartTime: "09:00", EndTime: "11:00", Color: "#0A7EA4", Icon: "laptop"},
	}
}

func TestRoutineRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.Routines.GetRoutine(ctx, "2025-03-10"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty plan, got %#v", got)
	}
	if err := s.Routines.SaveRoutine(ctx, "2025-03-10", sampleBlocks()); err != nil {
		t.Fatal(err)
	}
	s.Routines.SaveRoutine(ctx, "2025-03-11", sampleBlocks()[:1])

	if diff := cmp.Diff(sampleBlocks(), s.Routines.GetRoutine(ctx, "2025-03-10")); diff != "" {
		t.Fatalf("routine mismatch (-want +got):\n%s", diff)
	}
	if n := len(s.Routines.GetRoutines(ctx)); n != 2 {
		t.Fatalf("expected 2 days, got %d", n)
	}
	if err := s.Routines.SaveRoutine(ctx, "10/03/2025", nil); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestAddRemoveBlock(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	b, err := s.Routines.AddBlock(ctx, "2025-03-10", TimeBlock{Title: "Read", StartTime: "21:00", EndTime: "21:30"})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID == "" {
		t.Fatal("expected an id")
	}
	if _, err := s.Routines.AddBlock(ctx, "2025-03-10", TimeBlock{}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if err := s.Routines.RemoveBlock(ctx, "2025-03-10", b.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Routines.RemoveBlock(ctx, "2025-03-10", b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetBlockCompleted(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	s.Routines.SaveRoutine(ctx, "2025-03-10", sampleBlocks())

	blocks, err := s.Routines.SetBlockCompleted(ctx, "2025-03-10", "b2", true)
	if err != nil {
		t.Fatal(err)
	}
	if !blocks[1].Completed || !blocks[1].CompletedAt.Equal(clock.t) || blocks[0].Completed {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}

	blocks, _ = s.Routines.SetBlockCompleted(ctx, "2025-03-10", "b2", false)
	if blocks[1].Completed || blocks[1].CompletedAt != nil {
		t.Fatalf("expected b2 reopened: %+v", blocks[1])
	}
	if _, err := s.Routines.SetBlockCompleted(ctx, "2025-03-10", "zz", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyTemplate(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	src := sampleBlocks()
	now := clock.t
	src[0].Completed = true
	src[0].CompletedAt = &now
	tmpl, err := s.Routines.SaveTemplate(ctx, "Weekday", src)
	if err != nil {
		t.Fatal(err)
	}

	blocks, err := s.Routines.ApplyTemplate(ctx, tmpl.ID, "2025-03-12")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != len(src) {
		t.Fatalf("expected %d blocks, got %d", len(src), len(blocks))
	}
	seen := map[string]bool{}
	for i, b := range blocks {
		if b.ID == src[i].ID || seen[b.ID] {
			t.Fatalf("block %d kept or reused id %q", i, b.ID)
		}
		seen[b.ID] = true
		if b.Completed || b.CompletedAt != nil {
			t.Fatalf("block %d still completed", i)
		}
		if b.Title != src[i].Title || b.StartTime != src[i].StartTime {
			t.Fatalf("block %d content changed: %+v", i, b)
		}
	}
	if diff := cmp.Diff(blocks, s.Routines.GetRoutine(ctx, "2025-03-12")); diff != "" {
		t.Fatalf("stored plan mismatch (-want +got):\n%s", diff)
	}

	// The template itself is untouched.
	got, _ := s.Routines.GetTemplate(ctx, "Weekday")
	if !got.Blocks[0].Completed || got.Blocks[0].ID != "b1" {
		t.Fatalf("template was modified: %+v", got.Blocks[0])
	}

	if _, err := s.Routines.ApplyTemplate(ctx, "missing", "2025-03-12"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTemplateUpdateDelete(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	tmpl, _ := s.Routines.SaveTemplate(ctx, "Weekday", sampleBlocks())
	clock.advance(time.Minute)

	name := "Workday"
	got, err := s.Routines.UpdateTemplate(ctx, tmpl.ID, TemplatePatch{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Workday" || len(got.Blocks) != 2 || !got.UpdatedAt.Equal(clock.t) || !got.CreatedAt.Equal(tmpl.CreatedAt) {
		t.Fatalf("unexpected template: %+v", got)
	}
	if _, err := s.Routines.UpdateTemplate(ctx, "missing", TemplatePatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Routines.DeleteTemplate(ctx, tmpl.ID); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Routines.GetTemplates(ctx)); n != 0 {
		t.Fatalf("expected no templates, got %d", n)
	}
	if err := s.Routines.DeleteTemplate(ctx, tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Routines.SaveTemplate(ctx, "", nil); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2025-03-10", "2025-03-11", 1},
		{"2025-03-10", "2025-03-10", 0},
		{"2025-02-28", "2025-03-01", 1},
		{"2024-12-31", "2025-01-02", 2},
		{"2025-03-11", "2025-03-10", -1},
	}
	for _, tt := range tests {
		got, err := daysBetween(tt.a, tt.b)
		if err != nil || got != tt.want {
			t.Errorf("daysBetween(%s, %s) = %d, %v; want %d", tt.a, tt.b, got, err, tt.want)
		}
	}
	if _, err := daysBetween("nope", "2025-03-10"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
