package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const keyTasks = "tasks"

// NewTask is the input for CreateTask. Empty optional fields get defaults.
type NewTask struct {
	Title       string   `validate:"notblank"`
	Description string
	Time        string   `validate:"required"`
	Duration    int      `validate:"gt=0"`
	Icon        string
	Priority    Priority `validate:"omitempty,oneof=high medium low"`
	Category    Category `validate:"omitempty,oneof=work personal health learning social"`
	Color       string   `validate:"omitempty,hexcolor"`
	IsRoutine   bool
}

// TaskPatch holds the fields UpdateTask may change. Nil fields are kept.
type TaskPatch struct {
	Title       *string
	Description *string
	Time        *string
	Duration    *int
	Icon        *string
	Priority    *Priority
	Category    *Category
	Color       *string
	Status      *Status
	IsActive    *bool
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("textsize", func(fl validator.FieldLevel) bool {
		return validTextSize(fl.Field().Float())
	})
	return v
}

// TaskService manages ad hoc tasks. Completed tasks share the history key
// with DataManager.
type TaskService struct {
	base
	validate *validator.Validate
}

func (s *TaskService) checkTask(in NewTask) error {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", ErrInvalidTask, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}

// CreateTask validates in, fills defaults and appends the task.
func (s *TaskService) CreateTask(ctx context.Context, in NewTask) (*TimedRoutineItem, error) {
	if err := s.checkTask(in); err != nil {
		return nil, err
	}

	now := s.now()
	task := TimedRoutineItem{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Time:        in.Time,
		Duration:    in.Duration,
		Icon:        cmp.Or(in.Icon, "calendar"),
		Priority:    cmp.Or(in.Priority, PriorityMedium),
		Category:    cmp.Or(in.Category, CategoryPersonal),
		Color:       cmp.Or(in.Color, "#0A7EA4"),
		Status:      StatusUpcoming,
		IsRoutine:   in.IsRoutine,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := append(s.GetTasks(ctx), task)
	if err := s.save(ctx, keyTasks, tasks); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// GetTasks returns the stored tasks with duplicate ids collapsed.
func (s *TaskService) GetTasks(ctx context.Context) []TimedRoutineItem {
	return dedupeByID(loadList[TimedRoutineItem](ctx, &s.base, keyTasks), func(t TimedRoutineItem) string { return t.ID })
}

func (s *TaskService) GetCompletedTasks(ctx context.Context) []CompletedTask {
	return dedupeByID(loadList[CompletedTask](ctx, &s.base, keyCompletedTasks), func(t CompletedTask) string { return t.ID })
}

func (s *TaskService) SaveTasks(ctx context.Context, tasks []TimedRoutineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, keyTasks, tasks)
}

func (s *TaskService) SaveCompletedTasks(ctx context.Context, tasks []CompletedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, keyCompletedTasks, tasks)
}

// CompleteTask moves a task to the completed history, keeping its id.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (*CompletedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.GetTasks(ctx)
	i := slices.IndexFunc(tasks, func(t TimedRoutineItem) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("complete task %q: %w", id, ErrNotFound)
	}

	now := s.now()
	done := CompletedTask{TimedRoutineItem: tasks[i]}
	done.Completed = true
	done.CompletedAt = &now
	done.Status = StatusCompleted

	tasks = slices.Delete(tasks, i, i+1)
	completed := append(s.GetCompletedTasks(ctx), done)
	err := s.saveAll(ctx, map[string]any{
		keyTasks:          tasks,
		keyCompletedTasks: completed,
	})
	if err != nil {
		return nil, fmt.Errorf("complete task %q: %w", id, err)
	}
	return &done, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.GetTasks(ctx)
	n := len(tasks)
	tasks = slices.DeleteFunc(tasks, func(t TimedRoutineItem) bool { return t.ID == id })
	if len(tasks) == n {
		return fmt.Errorf("delete task %q: %w", id, ErrNotFound)
	}
	return s.save(ctx, keyTasks, tasks)
}

// UpdateTask applies patch to the task and bumps UpdatedAt.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*TimedRoutineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.GetTasks(ctx)
	i := slices.IndexFunc(tasks, func(t TimedRoutineItem) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("update task %q: %w", id, ErrNotFound)
	}

	t := tasks[i]
	setIf(&t.Title, patch.Title)
	setIf(&t.Description, patch.Description)
	setIf(&t.Time, patch.Time)
	setIf(&t.Duration, patch.Duration)
	setIf(&t.Icon, patch.Icon)
	setIf(&t.Priority, patch.Priority)
	setIf(&t.Category, patch.Category)
	setIf(&t.Color, patch.Color)
	setIf(&t.Status, patch.Status)
	setIf(&t.IsActive, patch.IsActive)

	check := NewTask{
		Title:    t.Title,
		Time:     t.Time,
		Duration: t.Duration,
		Priority: t.Priority,
		Category: t.Category,
		Color:    t.Color,
	}
	if err := s.checkTask(check); err != nil {
		return nil, fmt.Errorf("update task %q: %w", id, err)
	}

	t.UpdatedAt = s.now()
	tasks[i] = t
	if err := s.save(ctx, keyTasks, tasks); err != nil {
		return nil, err
	}
	return &t, nil
}

// dedupeByID keeps the first position of each id and the last value seen for it.
func dedupeByID[T any](items []T, id func(T) string) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := id(it)
		if i, ok := index[k]; ok {
			out[i] = it
			continue
		}
		index[k] = len(out)
		out = append(out, it)
	}
	return out
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
