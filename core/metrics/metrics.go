package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/kilianp07/schedsim/core/workload"
)

// ProcessResult is the final state of one process after a run.
type ProcessResult struct {
	ID         int `json:"id"`
	Arrival    int `json:"arrival"`
	Total      int `json:"total"`
	Turnaround int `json:"turnaround"`
	Waiting    int `json:"waiting"`
}

// RunSummary aggregates one policy run. Runs of the same invocation share RunID.
type RunSummary struct {
	RunID            string          `json:"run_id"`
	Policy           string          `json:"policy"`
	Params           workload.Params `json:"params"`
	Seed             uint64          `json:"seed"`
	Processes        int             `json:"processes"`
	MeanTurnaround   float64         `json:"mean_turnaround"`
	StdDevTurnaround float64         `json:"stddev_turnaround"`
	MeanWaiting      float64         `json:"mean_waiting"`
	Makespan         int             `json:"makespan"`
	IdleTicks        int             `json:"idle_ticks"`
	Dispatches       int             `json:"dispatches"`
	Preemptions      int             `json:"preemptions"`
	Results          []ProcessResult `json:"results,omitempty"`
	Time             time.Time       `json:"time"`
}

// RunRecorder records run summaries for observability purposes.
type RunRecorder interface {
	RecordRun(RunSummary) error
}

// NopSink implements RunRecorder with a no-op.
type NopSink struct{}

func (NopSink) RecordRun(RunSummary) error { return nil }

// MultiSink fans out run summaries to multiple sinks.
type MultiSink struct {
	Sinks []RunRecorder
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...RunRecorder) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the summary to every sink. A failing sink does not stop
// the others; the errors are joined.
func (m *MultiSink) RecordRun(s RunSummary) error {
	var errs []error
	for _, sink := range m.Sinks {
		if err := sink.RecordRun(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, sink := range m.Sinks {
		if c, ok := sink.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases rec when it holds resources.
func Close(rec RunRecorder) error {
	if c, ok := rec.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
