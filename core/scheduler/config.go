package scheduler

import (
	"fmt"
	"math"

	"github.com/kilianp07/schedsim/core/model"
)

// DefaultSlack multiplies the worst-case completion tick of a population to
// obtain the divergence limit.
const DefaultSlack = 2.0

// Config tunes the engine.
type Config struct {
	// TickLimit caps the simulated time explicitly. Zero derives the cap from Slack.
	TickLimit int `json:"tick_limit"`
	// Slack scales maxArrival + sum(total) + 1 when TickLimit is zero.
	Slack float64 `json:"slack"`
	// TraceTicks logs the running process of every tick at debug level.
	TraceTicks bool `json:"trace_ticks"`
	// Timeline records the dispatch segments of the run.
	Timeline bool `json:"timeline"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Slack == 0 {
		c.Slack = DefaultSlack
	}
}

// Validate checks the limits.
func (c Config) Validate() error {
	if c.TickLimit < 0 {
		return fmt.Errorf("tick_limit must not be negative")
	}
	if c.Slack != 0 && c.Slack < 1 {
		return fmt.Errorf("slack must be at least 1, got %g", c.Slack)
	}
	return nil
}

// Limit returns the tick at which a run over reg is declared divergent.
// A work-conserving single CPU finishes by maxArrival + sum(total).
func (c Config) Limit(reg *model.Registry) int {
	if c.TickLimit > 0 {
		return c.TickLimit
	}
	slack := c.Slack
	if slack < 1 {
		slack = DefaultSlack
	}
	bound := float64(reg.MaxArrival() + reg.TotalService() + 1)
	return int(math.Ceil(slack * bound))
}
