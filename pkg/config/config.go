// Package config loads errmap configuration from TOML files and environment
// variables.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/errmap/pkg/exceptions"
	"github.com/JaimeStill/errmap/pkg/logging"
)

const (
	BaseConfigFile       = "errmap.toml"
	OverlayConfigPattern = "errmap.%s.toml"

	EnvErrmapEnv = "ERRMAP_ENV"
)

var loggingEnv = &logging.Env{
	Level:  "ERRMAP_LOG_LEVEL",
	Format: "ERRMAP_LOG_FORMAT",
}

var exceptionsEnv = &exceptions.Env{
	AccessDeniedHints: "ERRMAP_EXCEPTIONS_ACCESS_DENIED_HINTS",
	ClientErrorLevel:  "ERRMAP_EXCEPTIONS_CLIENT_ERROR_LEVEL",
	ServerErrorLevel:  "ERRMAP_EXCEPTIONS_SERVER_ERROR_LEVEL",
}

// Config is the root configuration.
type Config struct {
	Logging    logging.Config    `toml:"logging"`
	Exceptions exceptions.Config `toml:"exceptions"`
}

// Env returns the ERRMAP_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvErrmapEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads configuration from the working directory. See LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads the base config in dir (if present), applies the
// errmap.<ERRMAP_ENV>.toml overlay (if present), and finalizes all values.
// Without any files, defaults and environment variables provide the
// configuration.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	c.Logging.Merge(&overlay.Logging)
	c.Exceptions.Merge(&overlay.Exceptions)
}

// Finalize applies defaults, environment overrides, and validation to every
// sub-config.
func (c *Config) Finalize() error {
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Exceptions.Finalize(exceptionsEnv); err != nil {
		return fmt.Errorf("exceptions: %w", err)
	}
	return nil
}

// Mapper builds an exception mapper from the finalized configuration. Its
// logger writes to w, or to stderr when w is nil.
func (c *Config) Mapper(w io.Writer) *exceptions.Mapper {
	return exceptions.New(&c.Exceptions, logging.New(&c.Logging, w))
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvErrmapEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
