package exceptions

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/errmap/pkg/logging"
)

// Config holds exception mapping settings.
type Config struct {
	// AccessDeniedHints extends fileio.AccessDeniedHints. The built-in hints
	// remain active.
	AccessDeniedHints []string      `toml:"access_denied_hints"`
	ClientErrorLevel  logging.Level `toml:"client_error_level"`
	ServerErrorLevel  logging.Level `toml:"server_error_level"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	AccessDeniedHints string
	ClientErrorLevel  string
	ServerErrorLevel  string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.AccessDeniedHints != nil {
		c.AccessDeniedHints = overlay.AccessDeniedHints
	}
	if overlay.ClientErrorLevel != "" {
		c.ClientErrorLevel = overlay.ClientErrorLevel
	}
	if overlay.ServerErrorLevel != "" {
		c.ServerErrorLevel = overlay.ServerErrorLevel
	}
}

func (c *Config) loadDefaults() {
	if c.ClientErrorLevel == "" {
		c.ClientErrorLevel = logging.LevelInfo
	}
	if c.ServerErrorLevel == "" {
		c.ServerErrorLevel = logging.LevelError
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.AccessDeniedHints != "" {
		if v := os.Getenv(env.AccessDeniedHints); v != "" {
			hints := strings.Split(v, ",")
			c.AccessDeniedHints = make([]string, 0, len(hints))
			for _, hint := range hints {
				if trimmed := strings.TrimSpace(hint); trimmed != "" {
					c.AccessDeniedHints = append(c.AccessDeniedHints, trimmed)
				}
			}
		}
	}
	if env.ClientErrorLevel != "" {
		if v := os.Getenv(env.ClientErrorLevel); v != "" {
			c.ClientErrorLevel = logging.Level(v)
		}
	}
	if env.ServerErrorLevel != "" {
		if v := os.Getenv(env.ServerErrorLevel); v != "" {
			c.ServerErrorLevel = logging.Level(v)
		}
	}
}

func (c *Config) validate() error {
	if err := c.ClientErrorLevel.Validate(); err != nil {
		return fmt.Errorf("client_error_level: %w", err)
	}
	if err := c.ServerErrorLevel.Validate(); err != nil {
		return fmt.Errorf("server_error_level: %w", err)
	}
	for _, hint := range c.AccessDeniedHints {
		if strings.TrimSpace(hint) == "" {
			return fmt.Errorf("access_denied_hints: empty hint")
		}
	}
	return nil
}
