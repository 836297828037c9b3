package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const keyHabits = "habits"

type HabitService struct {
	base
}

// today's view of h: completion and progress only count for the current day.
func (s *HabitService) present(h Habit, today string) Habit {
	h.Completed = h.LastCompletedDate == today
	if h.ProgressDate != today {
		h.Progress = 0
	}
	return h
}

// List returns all habits as they stand today.
func (s *HabitService) List(ctx context.Context) []Habit {
	today := s.today()
	habits := loadList[Habit](ctx, &s.base, keyHabits)
	for i := range habits {
		habits[i] = s.present(habits[i], today)
	}
	return habits
}

func (s *HabitService) Add(ctx context.Context, name, icon string, freq Frequency, goal int, stackedOn string) (*Habit, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("add habit: name: %w", ErrInvalidSetting)
	}
	freq = cmp.Or(freq, FrequencyDaily)
	if freq != FrequencyDaily && freq != FrequencyWeekly {
		return nil, fmt.Errorf("add habit: frequency %q: %w", freq, ErrInvalidSetting)
	}
	if goal < 0 {
		return nil, fmt.Errorf("add habit: goal %d: %w", goal, ErrInvalidSetting)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      cmp.Or(icon, "🎯"),
		Frequency: freq,
		Goal:      max(goal, 1),
		StackedOn: stackedOn,
	}
	habits := append(loadList[Habit](ctx, &s.base, keyHabits), h)
	if err := s.save(ctx, keyHabits, habits); err != nil {
		return nil, fmt.Errorf("add habit: %w", err)
	}
	return &h, nil
}

// Complete marks the habit done for today. A second call on the same day
// changes nothing.
func (s *HabitService) Complete(ctx context.Context, id string) (*Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, func(h *Habit, today string) bool {
		return s.complete(h, today)
	})
}

func (s *HabitService) complete(h *Habit, today string) bool {
	next, changed := advanceStreak(h.Streak, h.LastCompletedDate, today)
	if !changed {
		return false
	}
	h.Streak = next
	h.LastCompletedDate = today
	h.Progress = h.Goal
	h.ProgressDate = today
	return true
}

// Progress records one unit towards today's goal, completing the habit when
// the goal is reached.
func (s *HabitService) Progress(ctx context.Context, id string) (*Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, func(h *Habit, today string) bool {
		if h.LastCompletedDate == today {
			return false
		}
		if h.ProgressDate != today {
			h.Progress = 0
			h.ProgressDate = today
		}
		h.Progress++
		if h.Progress >= h.Goal {
			s.complete(h, today)
		}
		return true
	})
}

func (s *HabitService) update(ctx context.Context, id string, fn func(*Habit, string) bool) (*Habit, error) {
	habits := loadList[Habit](ctx, &s.base, keyHabits)
	i := slices.IndexFunc(habits, func(h Habit) bool { return h.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("habit %q: %w", id, ErrNotFound)
	}
	today := s.today()
	if fn(&habits[i], today) {
		if err := s.save(ctx, keyHabits, habits); err != nil {
			return nil, fmt.Errorf("update habit %q: %w", id, err)
		}
	}
	h := s.present(habits[i], today)
	return &h, nil
}

func (s *HabitService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits := loadList[Habit](ctx, &s.base, keyHabits)
	n := len(habits)
	habits = slices.DeleteFunc(habits, func(h Habit) bool { return h.ID == id })
	if len(habits) == n {
		return fmt.Errorf("delete habit %q: %w", id, ErrNotFound)
	}
	return s.save(ctx, keyHabits, habits)
}

// Summary counts today's completions and finds the longest running streak.
func (s *HabitService) Summary(ctx context.Context) HabitSummary {
	habits := s.List(ctx)
	sum := HabitSummary{Total: len(habits)}
	for _, h := range habits {
		if h.Completed {
			sum.CompletedToday++
		}
		if h.Streak > sum.LongestStreak {
			sum.LongestStreak = h.Streak
			sum.LongestHabit = h.Name
		}
	}
	return sum
}
