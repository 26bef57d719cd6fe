package metrics

import (
	"fmt"

	"github.com/kilianp07/schedsim/core/factory"
)

// Config defines settings for run sinks.
type Config struct {
	// PrometheusAddr serves /metrics while the command runs when not empty.
	PrometheusAddr string `json:"prometheus_addr"`
	// APIToken guards the run history endpoint served next to /metrics.
	APIToken string                 `json:"api_token"`
	Sinks    []factory.ModuleConfig `json:"sinks"`
}

// Validate checks that every sink names a type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
