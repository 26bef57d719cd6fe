package scenarios

import (
	"context"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/schedsim/core/scheduler"
	"github.com/kilianp07/schedsim/core/simulation"
	"github.com/kilianp07/schedsim/core/workload"
	"github.com/kilianp07/schedsim/infra/logger"
	"github.com/kilianp07/schedsim/infra/metrics"
)

// RunScenario replays sc under every policy named in its expectations and
// reports mismatches on t.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	names := make([]string, 0, len(sc.Expected))
	for name := range sc.Expected {
		names = append(names, name)
	}
	sort.Strings(names)
	policies, err := scheduler.PoliciesByName(names)
	if err != nil {
		t.Fatalf("policies: %v", err)
	}

	pr, err := sc.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	pop := simulation.Population{
		Registry: pr,
		Params:   workload.Params{Processes: pr.Len()},
		Source:   sc.Name,
	}
	runner := simulation.NewRunner(policies, scheduler.Config{},
		simulation.WithSink(sink),
		simulation.WithLogger(logger.NopLogger{}),
	)
	outcomes, err := runner.Run(context.Background(), pop)
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	for i, o := range outcomes {
		want := sc.Expected[names[i]]
		got := make([]int, o.Registry.Len())
		for j, p := range o.Registry.Processes {
			got[j] = p.Turnaround
		}
		if !equal(got, want.Turnarounds) {
			t.Errorf("scenario %s %s: turnarounds %v, want %v", sc.Name, o.Policy, got, want.Turnarounds)
		}
		if d := o.Summary.MeanTurnaround - want.Mean; d > 1e-4 || d < -1e-4 {
			t.Errorf("scenario %s %s: mean %.4f, want %.4f", sc.Name, o.Policy, o.Summary.MeanTurnaround, want.Mean)
		}
		if o.Stats.Preemptions != want.Preemptions {
			t.Errorf("scenario %s %s: %d preemptions, want %d", sc.Name, o.Policy, o.Stats.Preemptions, want.Preemptions)
		}
	}
	n, err := testutil.GatherAndCount(reg, "scheduler_runs_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != len(policies) {
		t.Errorf("scenario %s: %d run series, want %d", sc.Name, n, len(policies))
	}
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
