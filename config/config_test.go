package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pvsizing/core/sizing"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `costs:
  solar: 1000000
  battery: 300000
  load: 5000000
optimizer:
  iterations: 50
  seed: 7
  method: "nelder-mead"
  regime:
    boost_factor: 2
data:
  path: "data/Solar_4MW.csv"
logging:
  level: "debug"
  format: "json"
metrics:
  sinks:
    - type: "prometheus"
  textfile: "/tmp/sizing.prom"
report:
  format: "csv"
  trajectory: "traj.csv"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"costs.solar", cfg.Costs.Solar, 1e6},
		{"costs.battery", cfg.Costs.Battery, 3e5},
		{"costs.load", cfg.Costs.Load, 5e6},
		{"iterations", cfg.Optimizer.Iterations, 50},
		{"seed", cfg.Optimizer.Seed != nil && *cfg.Optimizer.Seed == 7, true},
		{"method", cfg.Optimizer.Method, sizing.MethodNelderMead},
		{"boost_factor", cfg.Optimizer.Regime.BoostFactor, 2.0},
		{"regime default", cfg.Optimizer.Regime.Scale, 5e6},
		{"data.path", cfg.Data.Path, "data/Solar_4MW.csv"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "prometheus", true},
		{"textfile", cfg.Metrics.Textfile, "/tmp/sizing.prom"},
		{"report.format", cfg.Report.Format, "csv"},
		{"report.trajectory", cfg.Report.Trajectory, "traj.csv"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"costs":{"solar":1,"battery":2,"load":3},"report":{"path":"out.json"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Costs.Load)
	assert.Equal(t, "out.json", cfg.Report.Path)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, sizing.DefaultIterations, cfg.Optimizer.Iterations)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "costs:\n  load: 1000\n")
	t.Setenv("PV_COSTS__LOAD", "2500000")
	t.Setenv("PV_OPTIMIZER__ITERATIONS", "10")
	t.Setenv("PV_LOGGING__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5e6, cfg.Costs.Load)
	assert.Equal(t, 10, cfg.Optimizer.Iterations)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Optimizer, cfg.Optimizer)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct {
		name, data string
	}{
		"format":     {"config.toml", "costs = 1"},
		"level":      {"config.yaml", "logging:\n  level: loud\n"},
		"report":     {"config.yaml", "report:\n  format: xml\n"},
		"method":     {"config.yaml", "optimizer:\n  method: annealing\n"},
		"capacity":   {"config.yaml", "data:\n  capacity_mw: -4\n"},
		"log format": {"config.yaml", "logging:\n  format: xml\n"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, c.name, c.data)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_ExplicitZeroRegime(t *testing.T) {
	path := writeFile(t, "config.yaml", "optimizer:\n  regime:\n    damp_factor: 0\n    boost_min: 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Optimizer.Regime.DampFactor)
	assert.Equal(t, 0.0, cfg.Optimizer.Regime.BoostMin)
	assert.Equal(t, sizing.DefaultRegime().BoostMax, cfg.Optimizer.Regime.BoostMax)
}
