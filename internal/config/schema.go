package config

import "github.com/sadopc/focusflow/internal/kv"

// Config is the merged focusflow configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
}

// StorageConfig picks the key-value backend.
type StorageConfig struct {
	// sqlite, memory or redis
	Backend     string `yaml:"backend" mapstructure:"backend" validate:"oneof=sqlite memory redis"`
	Path        string `yaml:"path,omitempty" mapstructure:"path"`
	RedisURL    string `yaml:"redis_url,omitempty" mapstructure:"redis_url" validate:"required_if=Backend redis"`
	RedisPrefix string `yaml:"redis_prefix,omitempty" mapstructure:"redis_prefix"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	// Empty means stderr for commands and no logging inside the TUI.
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

type ExportConfig struct {
	Dir string `yaml:"dir,omitempty" mapstructure:"dir"`
}

// StorageOptions converts the storage section for kv.Open.
func (c *Config) StorageOptions() kv.Options {
	return kv.Options{
		Backend:     c.Storage.Backend,
		Path:        c.Storage.Path,
		RedisURL:    c.Storage.RedisURL,
		RedisPrefix: c.Storage.RedisPrefix,
	}
}
