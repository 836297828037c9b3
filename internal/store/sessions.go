package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const keyFocusSessions = "@focusflow_focus_sessions"

// FocusManager keeps the log of focus sessions.
type FocusManager struct {
	base
}

func (f *FocusManager) LoadSessions(ctx context.Context) []FocusSession {
	return loadList[FocusSession](ctx, &f.base, keyFocusSessions)
}

// StartSession records a new open session of the given planned minutes.
func (f *FocusManager) StartSession(ctx context.Context, taskTitle, sessionType string, minutes int) (*FocusSession, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("start session: duration %d: %w", minutes, ErrInvalidSetting)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	sess := FocusSession{
		ID:          uuid.NewString(),
		StartTime:   f.now(),
		Duration:    minutes,
		TaskTitle:   taskTitle,
		SessionType: cmp.Or(strings.TrimSpace(sessionType), "focus"),
	}
	sessions := append(f.LoadSessions(ctx), sess)
	if err := f.save(ctx, keyFocusSessions, sessions); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &sess, nil
}

// CompleteSession closes a session. A routine item whose title matches the
// session's task is marked completed in the same write.
func (f *FocusManager) CompleteSession(ctx context.Context, id, notes string) (*FocusSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sessions := f.LoadSessions(ctx)
	i := slices.IndexFunc(sessions, func(s FocusSession) bool { return s.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("complete session %q: %w", id, ErrNotFound)
	}

	now := f.now()
	sessions[i].EndTime = &now
	sessions[i].Completed = true
	sessions[i].Notes = notes

	writes := map[string]any{keyFocusSessions: sessions}
	items := loadList[TimedRoutineItem](ctx, &f.base, keyRoutineItems)
	if j := slices.IndexFunc(items, func(it TimedRoutineItem) bool { return it.Title == sessions[i].TaskTitle }); j >= 0 {
		items[j].Status = StatusCompleted
		items[j].Completed = true
		items[j].CompletedAt = &now
		items[j].UpdatedAt = now
		writes[keyRoutineItems] = items
	}

	if err := f.saveAll(ctx, writes); err != nil {
		return nil, fmt.Errorf("complete session %q: %w", id, err)
	}
	out := sessions[i]
	return &out, nil
}

// TodaySessions returns sessions started on the current local day.
func (f *FocusManager) TodaySessions(ctx context.Context) []FocusSession {
	today := f.today()
	var out []FocusSession
	for _, s := range f.LoadSessions(ctx) {
		if Day(s.StartTime.In(f.now().Location())) == today {
			out = append(out, s)
		}
	}
	return out
}

// SessionStats measures completed sessions by wall time, start to end.
func (f *FocusManager) SessionStats(ctx context.Context) SessionStats {
	sessions := f.LoadSessions(ctx)
	if len(sessions) == 0 {
		return SessionStats{}
	}

	var completed int
	var total float64
	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		completed++
		if s.EndTime != nil {
			total += s.EndTime.Sub(s.StartTime).Minutes()
		}
	}
	minutes := int(total)
	return SessionStats{
		TotalSessions:        len(sessions),
		TotalFocusTime:       minutes,
		AverageSessionLength: minutes / len(sessions),
		CompletionRate:       float64(completed) / float64(len(sessions)) * 100,
	}
}
