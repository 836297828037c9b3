// Package kv is the string-keyed storage façade every manager persists through.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed storage.
var ErrClosed = errors.New("kv: storage closed")

// Storage is a flat string-keyed store. A missing key is reported through
// the ok result, never as an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all pairs or none of them.
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Path        string // sqlite database file
	RedisURL    string
	RedisPrefix string
}

// Open returns the backend named in opts.
func Open(opts Options) (Storage, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		path := opts.Path
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		return NewRedis(opts.RedisURL, opts.RedisPrefix)
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
