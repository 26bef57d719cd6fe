package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/schedsim/core/events"
	"github.com/kilianp07/schedsim/core/logger"
	"github.com/kilianp07/schedsim/core/metrics"
	"github.com/kilianp07/schedsim/core/model"
	"github.com/kilianp07/schedsim/core/scheduler"
	"github.com/kilianp07/schedsim/internal/eventbus"
)

// Outcome is the result of one policy run.
type Outcome struct {
	Policy   string
	Registry *model.Registry
	Stats    scheduler.Stats
	Summary  metrics.RunSummary
}

// Runner replays a population under a list of policies.
type Runner struct {
	policies []scheduler.Policy
	engine   scheduler.Config
	parallel bool
	sink     metrics.RunRecorder
	bus      eventbus.Publisher[events.Event]
	log      logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
	newID    func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithParallel runs the policies concurrently.
func WithParallel(on bool) Option { return func(r *Runner) { r.parallel = on } }

// WithSink records every summary to s.
func WithSink(s metrics.RunRecorder) Option { return func(r *Runner) { r.sink = s } }

// WithEvents forwards engine lifecycle events to pub.
func WithEvents(pub eventbus.Publisher[events.Event]) Option {
	return func(r *Runner) { r.bus = pub }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(r *Runner) { r.log = l } }

// WithClock overrides the timestamp source of summaries.
func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }

// WithRunID overrides the run id generator.
func WithRunID(f func() string) Option { return func(r *Runner) { r.newID = f } }

// NewRunner returns a Runner for the given policies.
func NewRunner(policies []scheduler.Policy, engine scheduler.Config, opts ...Option) *Runner {
	r := &Runner{
		policies: policies,
		engine:   engine,
		sink:     metrics.NopSink{},
		log:      logger.Nop{},
		tracer:   otel.Tracer("github.com/kilianp07/schedsim/core/simulation"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	if r.sink == nil {
		r.sink = metrics.NopSink{}
	}
	if r.log == nil {
		r.log = logger.Nop{}
	}
	return r
}

// Run clones pop once per policy and replays each clone. Outcomes follow the
// policy order whatever the completion order. The first failing run cancels
// the others.
func (r *Runner) Run(ctx context.Context, pop Population) ([]Outcome, error) {
	if pop.Registry == nil || pop.Registry.Len() == 0 {
		return nil, fmt.Errorf("empty population")
	}
	runID := r.newID()
	ctx, span := r.tracer.Start(ctx, "simulation.Run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("processes", pop.Registry.Len()),
		attribute.Int("policies", len(r.policies)),
	))
	defer span.End()

	outcomes := make([]Outcome, len(r.policies))
	g, gctx := errgroup.WithContext(ctx)
	if !r.parallel {
		g.SetLimit(1)
	}
	for i, p := range r.policies {
		g.Go(func() error {
			o, err := r.runOne(gctx, runID, pop, p)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, o := range outcomes {
		if err := r.sink.RecordRun(o.Summary); err != nil {
			r.log.Errorf("record run %s/%s: %v", runID, o.Policy, err)
		}
	}
	return outcomes, nil
}

func (r *Runner) runOne(ctx context.Context, runID string, pop Population, p scheduler.Policy) (Outcome, error) {
	ctx, span := r.tracer.Start(ctx, "scheduler.Run", trace.WithAttributes(
		attribute.String("policy", p.Name()),
		attribute.Bool("preemptive", p.Preemptive()),
	))
	defer span.End()

	reg := pop.Registry.Clone()
	start := time.Now()
	st, err := scheduler.NewEngine(p, r.engine, r.log, r.bus).Run(ctx, reg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if err := reg.CheckComplete(); err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name(), err)
	}
	sum := Summarize(runID, pop, reg, st, r.now())
	span.SetAttributes(
		attribute.Int("ticks", st.Ticks),
		attribute.Int("preemptions", st.Preemptions),
		attribute.Float64("mean_turnaround", sum.MeanTurnaround),
	)
	r.log.Infow("policy run complete", map[string]any{
		"run_id":          runID,
		"policy":          p.Name(),
		"ticks":           st.Ticks,
		"preemptions":     st.Preemptions,
		"mean_turnaround": sum.MeanTurnaround,
		"elapsed":         time.Since(start).String(),
	})
	return Outcome{Policy: p.Name(), Registry: reg, Stats: st, Summary: sum}, nil
}
