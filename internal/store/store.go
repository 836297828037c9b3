// Package store holds the domain managers. Each manager keeps a whole
// collection under one key of a kv.Storage: load it, change it in memory,
// write it back.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sadopc/focusflow/internal/kv"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidTask    = errors.New("invalid task data")
	ErrInvalidSetting = errors.New("invalid setting")
	ErrInvalidDate    = errors.New("invalid date")
)

// base is shared by every manager.
type base struct {
	kv  kv.Storage
	log *log.Logger
	now func() time.Time
	// mu serializes read-modify-write cycles. Managers built by New share
	// one mutex because some of them write the same keys.
	mu *sync.Mutex
}

type Option func(*base)

// WithLogger sets the logger used for swallowed read errors.
func WithLogger(l *log.Logger) Option {
	return func(b *base) { b.log = l }
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

func newBase(s kv.Storage, opts []Option) base {
	b := base{
		kv:  s,
		log: log.New(io.Discard),
		now: time.Now,
		mu:  &sync.Mutex{},
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// loadInto decodes key into v. It reports false, logging the cause, when the
// key is missing, unreadable or malformed.
func (b *base) loadInto(ctx context.Context, key string, v any) bool {
	raw, ok, err := b.kv.Get(ctx, key)
	if err != nil {
		b.log.Warn("load failed", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		b.log.Warn("decode failed", "key", key, "err", err)
		return false
	}
	return true
}

// loadList returns the stored slice, or an empty one.
func loadList[T any](ctx context.Context, b *base, key string) []T {
	var v []T
	if !b.loadInto(ctx, key, &v) || v == nil {
		return []T{}
	}
	return v
}

func encode(key string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	return string(data), nil
}

func (b *base) save(ctx context.Context, key string, v any) error {
	data, err := encode(key, v)
	if err != nil {
		return err
	}
	if err := b.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// saveAll writes several collections in one SetMany call.
func (b *base) saveAll(ctx context.Context, values map[string]any) error {
	encoded := make(map[string]string, len(values))
	for k, v := range values {
		data, err := encode(k, v)
		if err != nil {
			return err
		}
		encoded[k] = data
	}
	if err := b.kv.SetMany(ctx, encoded); err != nil {
		return fmt.Errorf("save collections: %w", err)
	}
	return nil
}

// Store bundles every manager over one storage.
type Store struct {
	KV       kv.Storage
	Data     *DataManager
	Tasks    *TaskService
	Routines *RoutineService
	Rewards  *RewardsService
	Focus    *FocusManager
	Habits   *HabitService
	Prefs    *PreferencesStore
}

// New builds all managers over s. They share a clock, a logger and a write lock.
func New(s kv.Storage, opts ...Option) *Store {
	b := newBase(s, opts)
	v := newValidator()
	return &Store{
		KV:       s,
		Data:     &DataManager{base: b},
		Tasks:    &TaskService{base: b, validate: v},
		Routines: &RoutineService{base: b},
		Rewards:  &RewardsService{base: b},
		Focus:    &FocusManager{base: b},
		Habits:   &HabitService{base: b},
		Prefs:    &PreferencesStore{base: b, validate: v},
	}
}

// NewMemory creates a store over an in-memory backend for testing.
func NewMemory(opts ...Option) *Store {
	return New(kv.NewMemory(), opts...)
}

func (s *Store) Close() error {
	return s.KV.Close()
}
