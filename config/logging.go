package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// LoggingConfig selects the level and output format of the process logs.
type LoggingConfig struct {
	// Level is a zerolog level name. Empty falls back to LOG_LEVEL, then info.
	Level string `json:"level"`
	// Format is "json" or "console". Empty lets APP_ENV=dev pick the console writer.
	Format string `json:"format"`
}

// SetDefaults normalizes the values.
func (c *LoggingConfig) SetDefaults() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
}

// Validate checks the level and format names.
func (c LoggingConfig) Validate() error {
	if c.Level != "" {
		if _, err := zerolog.ParseLevel(c.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	switch c.Format {
	case "", "json", "console":
		return nil
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Format)
	}
}
