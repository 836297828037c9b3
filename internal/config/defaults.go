package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/focusflow/internal/kv"
)

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     kv.BackendSQLite,
			RedisPrefix: kv.DefaultRedisPrefix,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Write saves cfg as YAML, creating the parent directory.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	header := []byte("# focusflow configuration\n# storage.backend: sqlite | memory | redis\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
