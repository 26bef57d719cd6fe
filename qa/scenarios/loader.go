// Package scenarios replays hand-written workloads and checks the per-policy
// results declared next to them.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/schedsim/core/model"
	"github.com/kilianp07/schedsim/core/workload"
)

// Expected is the result a policy must produce on the scenario.
type Expected struct {
	Turnarounds []int   `yaml:"turnarounds"`
	Mean        float64 `yaml:"mean"`
	Preemptions int     `yaml:"preemptions"`
}

type Scenario struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description,omitempty"`
	Processes   []workload.Entry    `yaml:"processes"`
	Expected    map[string]Expected `yaml:"expected"`
}

// Registry builds the scenario population.
func (s Scenario) Registry() (*model.Registry, error) {
	return workload.File{Processes: s.Processes}.Registry()
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
