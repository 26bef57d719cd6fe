package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/schedsim/core/events"
	coremetrics "github.com/kilianp07/schedsim/core/metrics"
)

// PromSink records run summaries and engine events in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	turnaround  *prometheus.HistogramVec
	meanTT      *prometheus.GaugeVec
	makespan    *prometheus.GaugeVec
	preemptions *prometheus.CounterVec
	events      *prometheus.CounterVec
}

// NewPromSink registers run metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_runs_total",
			Help: "Number of completed policy runs",
		}, []string{"policy"}),
		turnaround: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scheduler_turnaround_ticks",
			Help:    "Turnaround time of completed processes in ticks",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"policy"}),
		meanTT: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scheduler_mean_turnaround_ticks",
			Help: "Mean turnaround of the last run",
		}, []string{"policy"}),
		makespan: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scheduler_makespan_ticks",
			Help: "Ticks elapsed in the last run",
		}, []string{"policy"}),
		preemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_preemptions_total",
			Help: "Number of preemptions across runs",
		}, []string{"policy"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_events_total",
			Help: "Engine lifecycle events by type",
		}, []string{"policy", "type"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.turnaround, err = register(reg, s.turnaround); err != nil {
		return nil, err
	}
	if s.meanTT, err = register(reg, s.meanTT); err != nil {
		return nil, err
	}
	if s.makespan, err = register(reg, s.makespan); err != nil {
		return nil, err
	}
	if s.preemptions, err = register(reg, s.preemptions); err != nil {
		return nil, err
	}
	if s.events, err = register(reg, s.events); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the collector already registered under the same
// descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates the per-policy metrics with s.
func (p *PromSink) RecordRun(s coremetrics.RunSummary) error {
	p.runs.WithLabelValues(s.Policy).Inc()
	p.meanTT.WithLabelValues(s.Policy).Set(s.MeanTurnaround)
	p.makespan.WithLabelValues(s.Policy).Set(float64(s.Makespan))
	p.preemptions.WithLabelValues(s.Policy).Add(float64(s.Preemptions))
	h := p.turnaround.WithLabelValues(s.Policy)
	for _, r := range s.Results {
		h.Observe(float64(r.Turnaround))
	}
	return nil
}

// RecordEvent counts one engine event.
func (p *PromSink) RecordEvent(ev events.Event) error {
	p.events.WithLabelValues(ev.Policy(), events.TypeOf(ev)).Inc()
	return nil
}
