package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LoggingConfig selects the level and the encoder of the application logger.
type LoggingConfig struct {
	Level string `json:"level"`
	// Format is "json" or "console". Empty lets APP_ENV decide.
	Format string `json:"format"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	switch c.Format {
	case "", "json", "console":
		return nil
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
}
