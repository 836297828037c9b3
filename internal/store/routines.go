package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const (
	keyRoutines  = "@FocusFlow/routines"
	keyTemplates = "@FocusFlow/templates"
)

// TemplatePatch holds the template fields UpdateTemplate may change.
type TemplatePatch struct {
	Name   *string
	Blocks []TimeBlock
}

// RoutineService stores day plans keyed by date and reusable templates.
type RoutineService struct {
	base
}

// GetRoutines returns every stored day plan keyed by YYYY-MM-DD.
func (s *RoutineService) GetRoutines(ctx context.Context) map[string][]TimeBlock {
	routines := map[string][]TimeBlock{}
	if !s.loadInto(ctx, keyRoutines, &routines) || routines == nil {
		return map[string][]TimeBlock{}
	}
	return routines
}

// GetRoutine returns the blocks planned for date, or an empty slice.
func (s *RoutineService) GetRoutine(ctx context.Context, date string) []TimeBlock {
	blocks := s.GetRoutines(ctx)[date]
	if blocks == nil {
		return []TimeBlock{}
	}
	return blocks
}

// SaveRoutine replaces the plan for date.
func (s *RoutineService) SaveRoutine(ctx context.Context, date string, blocks []TimeBlock) error {
	if err := validDate(date); err != nil {
		return fmt.Errorf("save routine: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveRoutine(ctx, date, blocks)
}

func (s *RoutineService) saveRoutine(ctx context.Context, date string, blocks []TimeBlock) error {
	routines := s.GetRoutines(ctx)
	if blocks == nil {
		blocks = []TimeBlock{}
	}
	routines[date] = blocks
	return s.save(ctx, keyRoutines, routines)
}

// AddBlock appends a block to the plan for date, assigning an id.
func (s *RoutineService) AddBlock(ctx context.Context, date string, block TimeBlock) (*TimeBlock, error) {
	if err := validDate(date); err != nil {
		return nil, fmt.Errorf("add block: %w", err)
	}
	if strings.TrimSpace(block.Title) == "" {
		return nil, fmt.Errorf("add block: %w", ErrInvalidTask)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	blocks := append(s.GetRoutine(ctx, date), block)
	if err := s.saveRoutine(ctx, date, blocks); err != nil {
		return nil, err
	}
	return &block, nil
}

// RemoveBlock drops one block from the plan for date.
func (s *RoutineService) RemoveBlock(ctx context.Context, date, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := s.GetRoutine(ctx, date)
	n := len(blocks)
	blocks = slices.DeleteFunc(blocks, func(b TimeBlock) bool { return b.ID == id })
	if len(blocks) == n {
		return fmt.Errorf("remove block %q: %w", id, ErrNotFound)
	}
	return s.saveRoutine(ctx, date, blocks)
}

// SetBlockCompleted marks a block done or not done and returns the updated plan.
func (s *RoutineService) SetBlockCompleted(ctx context.Context, date, id string, done bool) ([]TimeBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := s.GetRoutine(ctx, date)
	i := slices.IndexFunc(blocks, func(b TimeBlock) bool { return b.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("complete block %q: %w", id, ErrNotFound)
	}
	blocks[i].Completed = done
	blocks[i].CompletedAt = nil
	if done {
		now := s.now()
		blocks[i].CompletedAt = &now
	}
	if err := s.saveRoutine(ctx, date, blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *RoutineService) GetTemplates(ctx context.Context) []RoutineTemplate {
	return loadList[RoutineTemplate](ctx, &s.base, keyTemplates)
}

// GetTemplate finds a template by id or, failing that, by name.
func (s *RoutineService) GetTemplate(ctx context.Context, ref string) (*RoutineTemplate, error) {
	templates := s.GetTemplates(ctx)
	i := slices.IndexFunc(templates, func(t RoutineTemplate) bool { return t.ID == ref })
	if i < 0 {
		i = slices.IndexFunc(templates, func(t RoutineTemplate) bool { return t.Name == ref })
	}
	if i < 0 {
		return nil, fmt.Errorf("template %q: %w", ref, ErrNotFound)
	}
	return &templates[i], nil
}

func (s *RoutineService) SaveTemplate(ctx context.Context, name string, blocks []TimeBlock) (*RoutineTemplate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("save template: %w", ErrInvalidSetting)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if blocks == nil {
		blocks = []TimeBlock{}
	}
	t := RoutineTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Blocks:    blocks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	templates := append(s.GetTemplates(ctx), t)
	if err := s.save(ctx, keyTemplates, templates); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return &t, nil
}

// ApplyTemplate copies the template's blocks onto date with fresh ids and
// cleared completion, replacing any existing plan for that day.
func (s *RoutineService) ApplyTemplate(ctx context.Context, id, date string) ([]TimeBlock, error) {
	if err := validDate(date); err != nil {
		return nil, fmt.Errorf("apply template: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := s.GetTemplates(ctx)
	i := slices.IndexFunc(templates, func(t RoutineTemplate) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("apply template %q: %w", id, ErrNotFound)
	}

	blocks := make([]TimeBlock, len(templates[i].Blocks))
	for j, b := range templates[i].Blocks {
		b.ID = uuid.NewString()
		b.Completed = false
		b.CompletedAt = nil
		blocks[j] = b
	}
	if err := s.saveRoutine(ctx, date, blocks); err != nil {
		return nil, fmt.Errorf("apply template %q: %w", id, err)
	}
	return blocks, nil
}

func (s *RoutineService) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := s.GetTemplates(ctx)
	n := len(templates)
	templates = slices.DeleteFunc(templates, func(t RoutineTemplate) bool { return t.ID == id })
	if len(templates) == n {
		return fmt.Errorf("delete template %q: %w", id, ErrNotFound)
	}
	return s.save(ctx, keyTemplates, templates)
}

func (s *RoutineService) UpdateTemplate(ctx context.Context, id string, patch TemplatePatch) (*RoutineTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := s.GetTemplates(ctx)
	i := slices.IndexFunc(templates, func(t RoutineTemplate) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("update template %q: %w", id, ErrNotFound)
	}
	t := &templates[i]
	setIf(&t.Name, patch.Name)
	if patch.Blocks != nil {
		t.Blocks = patch.Blocks
	}
	t.UpdatedAt = s.now()
	if err := s.save(ctx, keyTemplates, templates); err != nil {
		return nil, fmt.Errorf("update template %q: %w", id, err)
	}
	out := *t
	return &out, nil
}
