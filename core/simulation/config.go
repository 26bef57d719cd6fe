package simulation

import (
	"fmt"

	"github.com/kilianp07/schedsim/core/scheduler"
	"github.com/kilianp07/schedsim/core/workload"
)

// Config holds the population parameters and how policies are replayed.
type Config struct {
	ArrivalHorizon int     `json:"arrival_horizon"`
	MeanService    float64 `json:"mean_service"`
	ServiceStdDev  float64 `json:"service_stddev"`
	Processes      int     `json:"processes"`
	// Seed fixes the random source. Zero picks a time based seed that is
	// reported with the results.
	Seed     uint64   `json:"seed"`
	Parallel bool     `json:"parallel"`
	Policies []string `json:"policies"`
	// WorkloadFile replays a saved population instead of generating one.
	WorkloadFile string `json:"workload_file"`
}

// DefaultConfig returns the settings used when nothing is configured.
// Policies stays empty so a configured list replaces it; SetDefaults fills it.
func DefaultConfig() Config {
	return Config{
		ArrivalHorizon: 10,
		MeanService:    5,
		ServiceStdDev:  2,
		Processes:      10,
		Parallel:       true,
	}
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if len(c.Policies) == 0 {
		c.Policies = []string{"fcfs", "sjf", "srt"}
	}
}

// Validate checks the policy names. Population parameters are checked when
// the population is generated so that a workload file can stand in for them.
func (c Config) Validate() error {
	if _, err := scheduler.PoliciesByName(c.Policies); err != nil {
		return fmt.Errorf("simulation.policies: %w", err)
	}
	return nil
}

// Params extracts the population parameters.
func (c Config) Params() workload.Params {
	return workload.Params{
		ArrivalHorizon: c.ArrivalHorizon,
		MeanService:    c.MeanService,
		ServiceStdDev:  c.ServiceStdDev,
		Processes:      c.Processes,
	}
}
