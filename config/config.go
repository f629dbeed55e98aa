package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/pvsizing/core/metrics"
	"github.com/kilianp07/pvsizing/core/model"
	"github.com/kilianp07/pvsizing/core/sizing"
)

// EnvPrefix marks environment variables that override file settings.
// Nested keys are separated by a double underscore, e.g. PV_COSTS__LOAD.
const EnvPrefix = "PV_"

type Config struct {
	Costs     model.Costs    `json:"costs"`
	Optimizer sizing.Config  `json:"optimizer"`
	Data      DataConfig     `json:"data"`
	Logging   LoggingConfig  `json:"logging"`
	Metrics   metrics.Config `json:"metrics"`
	Report    ReportConfig   `json:"report"`
}

// DataConfig locates the solar production series.
type DataConfig struct {
	Path string `json:"path"`
	// CapacityMW overrides the capacity parsed from the file name.
	CapacityMW float64 `json:"capacity_mw"`
}

// ReportConfig controls where optimization results are written.
type ReportConfig struct {
	// Path is the output file. Empty writes to stdout.
	Path string `json:"path"`
	// Format is "json" or "csv".
	Format string `json:"format"`
	// Trajectory, when set, receives the per-interval battery state of the
	// best sizing as CSV.
	Trajectory string `json:"trajectory"`
}

func (c *ReportConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
}

func (c ReportConfig) Validate() error {
	switch c.Format {
	case "json", "csv":
		return nil
	default:
		return fmt.Errorf("unknown report format %q", c.Format)
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

func (c *Config) SetDefaults() {
	c.Optimizer.SetDefaults()
	c.Logging.SetDefaults()
	c.Report.SetDefaults()
}

// Validate checks every section except the costs, which command line flags
// may still override.
func (c *Config) Validate() error {
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Report.Validate(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if c.Data.CapacityMW < 0 {
		return fmt.Errorf("data: capacity_mw must be >= 0")
	}
	return nil
}

// Load reads the configuration file at path and applies environment
// overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
