package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

const (
	keyRoutineItems   = "routine_items"
	keyCompletedTasks = "completed_tasks"
	keyFocusStats     = "focus_stats"
	keyWaterIntake    = "water_intake"
	keyMovementBreaks = "movement_breaks"
)

// DataManager owns the day's routine items, the completed history, the
// focus totals and the small wellbeing counters.
type DataManager struct {
	base
}

// LoadRoutineItems returns the stored routine items. Everything under the
// routine key is routine, whatever its IsRoutine flag says.
func (d *DataManager) LoadRoutineItems(ctx context.Context) []TimedRoutineItem {
	items := loadList[TimedRoutineItem](ctx, &d.base, keyRoutineItems)
	for i := range items {
		items[i].IsRoutine = true
	}
	return items
}

func (d *DataManager) SaveRoutineItems(ctx context.Context, items []TimedRoutineItem) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(ctx, keyRoutineItems, items)
}

// AddRoutineItem appends item, assigning an id and timestamps when missing.
func (d *DataManager) AddRoutineItem(ctx context.Context, item TimedRoutineItem) (*TimedRoutineItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	item.IsRoutine = true
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = StatusUpcoming
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	items := d.LoadRoutineItems(ctx)
	items = append(items, item)
	if err := d.save(ctx, keyRoutineItems, items); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateRoutineItem replaces the stored item with the same id.
func (d *DataManager) UpdateRoutineItem(ctx context.Context, item TimedRoutineItem) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	items := d.LoadRoutineItems(ctx)
	i := slices.IndexFunc(items, func(it TimedRoutineItem) bool { return it.ID == item.ID })
	if i < 0 {
		return fmt.Errorf("update routine item %q: %w", item.ID, ErrNotFound)
	}
	item.UpdatedAt = d.now()
	items[i] = item
	return d.save(ctx, keyRoutineItems, items)
}

func (d *DataManager) DeleteRoutineItem(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	items := d.LoadRoutineItems(ctx)
	n := len(items)
	items = slices.DeleteFunc(items, func(it TimedRoutineItem) bool { return it.ID == id })
	if len(items) == n {
		return fmt.Errorf("delete routine item %q: %w", id, ErrNotFound)
	}
	return d.save(ctx, keyRoutineItems, items)
}

func (d *DataManager) LoadCompletedTasks(ctx context.Context) []CompletedTask {
	return loadList[CompletedTask](ctx, &d.base, keyCompletedTasks)
}

// CompletedRoutineItems returns the routine items moved to the history on day.
func (d *DataManager) CompletedRoutineItems(ctx context.Context, day string) []TimedRoutineItem {
	loc := d.now().Location()
	var out []TimedRoutineItem
	for _, t := range d.LoadCompletedTasks(ctx) {
		if t.IsRoutine && t.CompletedAt != nil && Day(t.CompletedAt.In(loc)) == day {
			out = append(out, t.TimedRoutineItem)
		}
	}
	return out
}

func (d *DataManager) SaveCompletedTasks(ctx context.Context, tasks []CompletedTask) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(ctx, keyCompletedTasks, tasks)
}

func (d *DataManager) ClearCompletedTasks(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.kv.Remove(ctx, keyCompletedTasks); err != nil {
		return fmt.Errorf("clear completed tasks: %w", err)
	}
	return nil
}

func (d *DataManager) LoadFocusStats(ctx context.Context) FocusStats {
	stats := DefaultFocusStats()
	if !d.loadInto(ctx, keyFocusStats, &stats) {
		return DefaultFocusStats()
	}
	return stats
}

func (d *DataManager) SaveFocusStats(ctx context.Context, stats FocusStats) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(ctx, keyFocusStats, stats)
}

// LoadWaterIntake returns the number of glasses logged.
func (d *DataManager) LoadWaterIntake(ctx context.Context) int {
	var n int
	if !d.loadInto(ctx, keyWaterIntake, &n) {
		return 0
	}
	return n
}

// SaveWaterIntake stores the counter. Failures are logged, not returned.
func (d *DataManager) SaveWaterIntake(ctx context.Context, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.kv.Set(ctx, keyWaterIntake, strconv.Itoa(n)); err != nil {
		d.log.Error("save water intake", "err", err)
	}
}

// AddWater increments the counter and returns the new total.
func (d *DataManager) AddWater(ctx context.Context, glasses int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.LoadWaterIntake(ctx) + glasses
	if err := d.kv.Set(ctx, keyWaterIntake, strconv.Itoa(n)); err != nil {
		d.log.Error("save water intake", "err", err)
	}
	return n
}

func (d *DataManager) LoadMovementBreaks(ctx context.Context) []MovementBreak {
	return loadList[MovementBreak](ctx, &d.base, keyMovementBreaks)
}

// AddMovementBreak logs a break of the given minutes. Failures are logged.
func (d *DataManager) AddMovementBreak(ctx context.Context, minutes int) MovementBreak {
	d.mu.Lock()
	defer d.mu.Unlock()

	b := MovementBreak{ID: uuid.NewString(), Timestamp: d.now(), Duration: minutes}
	breaks := append(d.LoadMovementBreaks(ctx), b)
	if err := d.save(ctx, keyMovementBreaks, breaks); err != nil {
		d.log.Error("add movement break", "err", err)
	}
	return b
}

func (d *DataManager) LoadAppData(ctx context.Context) AppData {
	return AppData{
		RoutineItems:   d.LoadRoutineItems(ctx),
		CompletedTasks: d.LoadCompletedTasks(ctx),
		FocusStats:     d.LoadFocusStats(ctx),
		WaterIntake:    d.LoadWaterIntake(ctx),
		MovementBreaks: d.LoadMovementBreaks(ctx),
	}
}

// ClearAllData wipes the whole storage, then writes the defaults back.
func (d *DataManager) ClearAllData(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.kv.Clear(ctx); err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	err := d.saveAll(ctx, map[string]any{
		keyRoutineItems:   []TimedRoutineItem{},
		keyCompletedTasks: []CompletedTask{},
		keyFocusStats:     DefaultFocusStats(),
		keyWaterIntake:    0,
		keyMovementBreaks: []MovementBreak{},
	})
	if err != nil {
		return fmt.Errorf("reset defaults: %w", err)
	}
	return nil
}

// CompleteItem moves a routine item into the completed history and adds its
// duration to the focus totals. The three collections are written together.
func (d *DataManager) CompleteItem(ctx context.Context, id string) (*CompletedTask, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	items := d.LoadRoutineItems(ctx)
	completed := d.LoadCompletedTasks(ctx)
	stats := d.LoadFocusStats(ctx)

	i := slices.IndexFunc(items, func(it TimedRoutineItem) bool { return it.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("complete item %q: %w", id, ErrNotFound)
	}
	item := items[i]

	now := d.now()
	done := CompletedTask{TimedRoutineItem: item}
	done.ID = "completed_" + uuid.NewString()
	done.Completed = true
	done.CompletedAt = &now
	done.Status = StatusCompleted
	done.IsRoutine = true

	items = slices.Delete(items, i, i+1)
	completed = append(completed, done)

	stats.TotalFocusTime += item.Duration
	stats.CompletedSessions++
	stats.WeeklyProgress += float64(item.Duration)
	stats.MonthlyProgress += float64(item.Duration)
	stats.LastSessionDate = Day(now)

	err := d.saveAll(ctx, map[string]any{
		keyRoutineItems:   items,
		keyCompletedTasks: completed,
		keyFocusStats:     stats,
	})
	if err != nil {
		return nil, fmt.Errorf("complete item %q: %w", id, err)
	}
	return &done, nil
}
