package simulation

import (
	"fmt"
	"time"

	"github.com/kilianp07/schedsim/core/logger"
	"github.com/kilianp07/schedsim/core/model"
	"github.com/kilianp07/schedsim/core/workload"
)

// Population is the shared starting state of every policy run.
type Population struct {
	Registry *model.Registry
	Params   workload.Params
	Seed     uint64
	// Source is "generated" or the workload file path.
	Source string
}

// BuildPopulation loads cfg.WorkloadFile when set, otherwise generates a
// population from the configured parameters.
func BuildPopulation(cfg Config, log logger.Logger) (Population, error) {
	if log == nil {
		log = logger.Nop{}
	}
	if cfg.WorkloadFile != "" {
		wf, err := workload.LoadFile(cfg.WorkloadFile)
		if err != nil {
			return Population{}, fmt.Errorf("load workload: %w", err)
		}
		reg, err := wf.Registry()
		if err != nil {
			return Population{}, fmt.Errorf("workload %s: %w", cfg.WorkloadFile, err)
		}
		wf.Params.Processes = reg.Len()
		log.Infof("replaying %d processes from %s", reg.Len(), cfg.WorkloadFile)
		return Population{Registry: reg, Params: wf.Params, Seed: wf.Seed, Source: cfg.WorkloadFile}, nil
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return Generate(cfg.Params(), workload.NewGaussianSampler(seed), seed, log)
}

// Generate draws one population from s.
func Generate(p workload.Params, s workload.Sampler, seed uint64, log logger.Logger) (Population, error) {
	reg, err := workload.NewGenerator(s, log).Generate(p)
	if err != nil {
		return Population{}, err
	}
	return Population{Registry: reg, Params: p, Seed: seed, Source: "generated"}, nil
}
