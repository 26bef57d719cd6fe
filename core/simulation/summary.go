package simulation

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/schedsim/core/metrics"
	"github.com/kilianp07/schedsim/core/model"
	"github.com/kilianp07/schedsim/core/scheduler"
)

// Summarize aggregates a completed registry into a run summary.
func Summarize(runID string, pop Population, reg *model.Registry, st scheduler.Stats, at time.Time) metrics.RunSummary {
	tt := reg.Turnarounds()
	s := metrics.RunSummary{
		RunID:          runID,
		Policy:         st.Policy,
		Params:         pop.Params,
		Seed:           pop.Seed,
		Processes:      reg.Len(),
		MeanTurnaround: stat.Mean(tt, nil),
		MeanWaiting:    stat.Mean(reg.Waitings(), nil),
		Makespan:       st.Ticks,
		IdleTicks:      st.IdleTicks,
		Dispatches:     st.Dispatches,
		Preemptions:    st.Preemptions,
		Results:        make([]metrics.ProcessResult, reg.Len()),
		Time:           at,
	}
	if len(tt) > 1 {
		s.StdDevTurnaround = stat.StdDev(tt, nil)
	}
	for i, p := range reg.Processes {
		s.Results[i] = metrics.ProcessResult{
			ID:         p.ID,
			Arrival:    p.Arrival,
			Total:      p.Total,
			Turnaround: p.Turnaround,
			Waiting:    p.Waiting(),
		}
	}
	return s
}
