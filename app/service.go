// Package app wires configuration, sinks, tracing and the simulation runner
// into the service driven by the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kilianp07/schedsim/api/runs"
	"github.com/kilianp07/schedsim/config"
	"github.com/kilianp07/schedsim/core/events"
	"github.com/kilianp07/schedsim/core/history"
	coremetrics "github.com/kilianp07/schedsim/core/metrics"
	"github.com/kilianp07/schedsim/core/report"
	"github.com/kilianp07/schedsim/core/scheduler"
	"github.com/kilianp07/schedsim/core/simulation"
	"github.com/kilianp07/schedsim/infra/logger"
	"github.com/kilianp07/schedsim/infra/metrics"
	_ "github.com/kilianp07/schedsim/infra/mqtt" // registers the mqtt sink
	"github.com/kilianp07/schedsim/infra/tracing"
	"github.com/kilianp07/schedsim/internal/eventbus"
	"github.com/kilianp07/schedsim/pkg/export"
)

// Version is reported as the service.version tracing attribute.
var Version = "dev"

// eventBuffer holds the events of a run per subscriber before drops start.
const eventBuffer = 4096

// Service runs simulations with the configured sinks and renders the results.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	sink     coremetrics.RunRecorder
	events   []metrics.EventRecorder
	store    history.Store
	renderer *report.Renderer
	shutdown tracing.Shutdown
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	shutdown, err := tracing.Init(cfg.Tracing, "schedsim", Version)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	sink, err := coremetrics.NewRunSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	sinks := []coremetrics.RunRecorder{sink}
	if cfg.Metrics.PrometheusAddr != "" && !hasSinkType(cfg, "prometheus") {
		prom, err := metrics.NewPromSink()
		if err != nil {
			_ = coremetrics.Close(sink)
			_ = shutdown(context.Background())
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, prom)
	}
	var store history.Store
	if cfg.History.Enabled() {
		store, err = history.Open(cfg.History)
		if err != nil {
			_ = coremetrics.Close(sink)
			_ = shutdown(context.Background())
			return nil, fmt.Errorf("history: %w", err)
		}
		sinks = append(sinks, history.NewRecorder(store))
	}
	if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	return &Service{
		cfg:      cfg,
		log:      logg,
		sink:     sink,
		events:   eventRecorders(sink),
		store:    store,
		renderer: report.NewRenderer(cfg.Report),
		shutdown: shutdown,
	}, nil
}

func hasSinkType(cfg *config.Config, typ string) bool {
	for _, s := range cfg.Metrics.Sinks {
		if s.Type == typ {
			return true
		}
	}
	return false
}

// eventRecorders collects the sinks of rec that also consume engine events.
func eventRecorders(rec coremetrics.RunRecorder) []metrics.EventRecorder {
	switch r := rec.(type) {
	case *coremetrics.MultiSink:
		var out []metrics.EventRecorder
		for _, s := range r.Sinks {
			out = append(out, eventRecorders(s)...)
		}
		return out
	case metrics.EventRecorder:
		return []metrics.EventRecorder{r}
	default:
		return nil
	}
}

// Run builds the population, replays it under every configured policy,
// writes the report to w and exports the rows when configured.
func (s *Service) Run(ctx context.Context, w io.Writer) ([]simulation.Outcome, error) {
	pop, err := simulation.BuildPopulation(s.cfg.Simulation, logger.New("workload"))
	if err != nil {
		return nil, err
	}
	policies, err := scheduler.PoliciesByName(s.cfg.Simulation.Policies)
	if err != nil {
		return nil, err
	}
	s.log.Infow("population ready", map[string]any{
		"processes": pop.Registry.Len(),
		"seed":      pop.Seed,
		"source":    pop.Source,
	})

	opts := []simulation.Option{
		simulation.WithParallel(s.cfg.Simulation.Parallel),
		simulation.WithSink(s.sink),
		simulation.WithLogger(logger.New("simulation")),
	}
	var bus *eventbus.Bus[events.Event]
	var waits []func()
	if len(s.events) > 0 {
		bus = eventbus.NewBuffered[events.Event](eventBuffer)
		for _, rec := range s.events {
			waits = append(waits, metrics.StartEventCollector(ctx, bus, rec))
		}
		opts = append(opts, simulation.WithEvents(bus))
	}

	outcomes, err := simulation.NewRunner(policies, s.cfg.Engine, opts...).Run(ctx, pop)
	if bus != nil {
		bus.Close()
		for _, wait := range waits {
			wait()
		}
		if n := bus.Dropped(); n > 0 {
			s.log.Warnf("dropped %d engine events", n)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := s.renderer.RenderOutcomes(w, outcomes); err != nil {
		return outcomes, fmt.Errorf("render: %w", err)
	}
	if path := s.cfg.Report.Export; path != "" {
		summaries := make([]coremetrics.RunSummary, len(outcomes))
		for i, o := range outcomes {
			summaries[i] = o.Summary
		}
		if err := export.WriteFile(path, summaries); err != nil {
			return outcomes, err
		}
		s.log.Infof("exported %d runs to %s", len(summaries), path)
	}
	return outcomes, nil
}

// ServeMetrics exposes /metrics, and /api/runs when history is enabled, on
// the configured address until ctx is canceled. It returns immediately when
// no address is configured.
func (s *Service) ServeMetrics(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusAddr == "" {
		return nil
	}
	return metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr, s.Routes()...)
}

// Routes returns the HTTP routes served next to /metrics.
func (s *Service) Routes() []metrics.Route {
	if s.store == nil {
		return nil
	}
	return []metrics.Route{{Pattern: runs.Path, Handler: runs.NewHandler(s.store, s.cfg.Metrics.APIToken)}}
}

// Close flushes the sinks and the tracer provider.
func (s *Service) Close() error {
	return errors.Join(
		coremetrics.Close(s.sink),
		s.shutdown(context.Background()),
	)
}
