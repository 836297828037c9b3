// Package config loads focusflow settings from .env, YAML files and the
// environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FOCUSFLOW_STORAGE_BACKEND.
const EnvPrefix = "FOCUSFLOW"

var keys = []string{
	"storage.backend",
	"storage.path",
	"storage.redis_url",
	"storage.redis_prefix",
	"log.level",
	"log.file",
	"export.dir",
}

// Load reads .env from the working directory, then the global and project
// config files, then FOCUSFLOW_* variables. An explicit path replaces both
// files and must exist.
func Load(explicit string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		return LoadFiles(explicit)
	}
	return LoadFiles(GlobalConfigPath(), ProjectConfigPath())
}

// LoadFiles merges the given YAML files over the defaults, skipping missing
// ones, then applies environment overrides.
func LoadFiles(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		v.SetConfigFile(p)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", p, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and backend requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config: %s=%q fails %s", f.Namespace(), f.Value(), f.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	defaults := map[string]string{
		"storage.backend":      d.Storage.Backend,
		"storage.path":         d.Storage.Path,
		"storage.redis_url":    d.Storage.RedisURL,
		"storage.redis_prefix": d.Storage.RedisPrefix,
		"log.level":            d.Log.Level,
		"log.file":             d.Log.File,
		"export.dir":           d.Export.Dir,
	}
	for _, k := range keys {
		v.SetDefault(k, defaults[k])
	}
}

// Dir is the directory holding the global config and the default database.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focusflow"
	}
	return filepath.Join(home, ".config", "focusflow")
}

func GlobalConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ProjectConfigPath is ./.focusflow.yaml, which overrides the global file.
func ProjectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".focusflow.yaml")
}
