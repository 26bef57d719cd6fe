// Package config loads the schedsim configuration from a YAML or JSON file
// and SCHEDSIM_ environment variables.
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

	"github.com/kilianp07/schedsim/core/history"
	"github.com/kilianp07/schedsim/core/metrics"
	"github.com/kilianp07/schedsim/core/report"
	"github.com/kilianp07/schedsim/core/scheduler"
	"github.com/kilianp07/schedsim/core/simulation"
	"github.com/kilianp07/schedsim/infra/tracing"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore, e.g. SCHEDSIM_SIMULATION__PROCESSES=20.
const EnvPrefix = "SCHEDSIM_"

type Config struct {
	Simulation simulation.Config `json:"simulation"`
	Engine     scheduler.Config  `json:"engine"`
	Report     report.Config     `json:"report"`
	Metrics    metrics.Config    `json:"metrics"`
	History    history.Config    `json:"history"`
	Logging    LoggingConfig     `json:"logging"`
	Tracing    tracing.Config    `json:"tracing"`
}

// Default returns the values decoded configuration is layered on. Fields
// whose default depends on other fields are filled by SetDefaults.
func Default() Config {
	return Config{
		Simulation: simulation.DefaultConfig(),
		Engine:     scheduler.Config{Slack: scheduler.DefaultSlack, Timeline: true},
	}
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.Simulation.SetDefaults()
	c.Engine.SetDefaults()
	c.Report.SetDefaults()
	c.History.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	checks := []func() error{
		c.Simulation.Validate,
		c.Engine.Validate,
		c.Report.Validate,
		c.Metrics.Validate,
		c.History.Validate,
		c.Logging.Validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads path, applies SCHEDSIM_ environment overrides on top and fills
// defaults. An empty path loads the defaults and the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
