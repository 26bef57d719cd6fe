package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/schedsim/core/history"
	"github.com/kilianp07/schedsim/core/report"
)

func write(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "config.yaml", `simulation:
  arrival_horizon: 1
  mean_service: 5
  service_stddev: 1
  processes: 3
  seed: 1234
  parallel: false
  policies: [srt]
engine:
  slack: 3
  timeline: false
report:
  format: table
  gantt: true
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: prometheus
    - type: mqtt
      conf:
        broker: tcp://localhost:1883
history:
  backend: sqlite
logging:
  level: DEBUG
tracing:
  enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Simulation.ArrivalHorizon)
	assert.Equal(t, 3, cfg.Simulation.Processes)
	assert.Equal(t, uint64(1234), cfg.Simulation.Seed)
	assert.False(t, cfg.Simulation.Parallel)
	assert.Equal(t, []string{"srt"}, cfg.Simulation.Policies)
	assert.Equal(t, 3.0, cfg.Engine.Slack)
	assert.False(t, cfg.Engine.Timeline)
	assert.Equal(t, report.FormatTable, cfg.Report.Format)
	assert.True(t, cfg.Report.Gantt)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusAddr)
	require.Len(t, cfg.Metrics.Sinks, 2)
	assert.Equal(t, "mqtt", cfg.Metrics.Sinks[1].Type)
	assert.Equal(t, "tcp://localhost:1883", cfg.Metrics.Sinks[1].Conf["broker"])
	assert.Equal(t, history.BackendSQLite, cfg.History.Backend)
	assert.Equal(t, "runs.db", cfg.History.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoadJSON(t *testing.T) {
	path := write(t, "config.json", `{"simulation": {"processes": 7}, "report": {"export": "out.csv"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Simulation.Processes)
	assert.Equal(t, 10, cfg.Simulation.ArrivalHorizon)
	assert.Equal(t, "out.csv", cfg.Report.Export)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Simulation.ArrivalHorizon)
	assert.Equal(t, 5.0, cfg.Simulation.MeanService)
	assert.Equal(t, 2.0, cfg.Simulation.ServiceStdDev)
	assert.Equal(t, 10, cfg.Simulation.Processes)
	assert.True(t, cfg.Simulation.Parallel)
	assert.Equal(t, []string{"fcfs", "sjf", "srt"}, cfg.Simulation.Policies)
	assert.True(t, cfg.Engine.Timeline)
	assert.Equal(t, report.FormatClassic, cfg.Report.Format)
	assert.False(t, cfg.History.Enabled())
	assert.False(t, cfg.Tracing.Enabled)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := write(t, "config.yaml", "simulation:\n  processes: 3\n")
	t.Setenv("SCHEDSIM_SIMULATION__PROCESSES", "25")
	t.Setenv("SCHEDSIM_SIMULATION__MEAN_SERVICE", "2.5")
	t.Setenv("SCHEDSIM_REPORT__FORMAT", "table")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Simulation.Processes)
	assert.Equal(t, 2.5, cfg.Simulation.MeanService)
	assert.Equal(t, report.FormatTable, cfg.Report.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "config.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "load config")

	cases := map[string]string{
		"policy":  "simulation:\n  policies: [lottery]\n",
		"format":  "report:\n  format: html\n",
		"backend": "history:\n  backend: redis\n",
		"level":   "logging:\n  level: loud\n",
		"slack":   "engine:\n  slack: 0.5\n",
		"sink":    "metrics:\n  sinks:\n    - conf: {}\n",
	}
	for name, data := range cases {
		_, err := Load(write(t, name+".yaml", data))
		assert.ErrorContains(t, err, "invalid config", name)
	}
}

func TestLoggingConfig(t *testing.T) {
	c := LoggingConfig{Level: " Warn ", Format: "CONSOLE"}
	c.SetDefaults()
	assert.Equal(t, "warn", c.Level)
	assert.Equal(t, "console", c.Format)
	assert.NoError(t, c.Validate())

	assert.Error(t, LoggingConfig{Format: "xml"}.Validate())
}
