package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/schedsim/core/events"
	"github.com/kilianp07/schedsim/core/logger"
	"github.com/kilianp07/schedsim/core/model"
	"github.com/kilianp07/schedsim/internal/eventbus"
)

var (
	// ErrSimulationDivergence is returned when a run exceeds its tick limit.
	ErrSimulationDivergence = errors.New("simulation diverged")
	// ErrInvalidSelection is returned when a policy picks a process without work left.
	ErrInvalidSelection = errors.New("policy selected a finished process")
)

// ctxCheckEvery is the number of ticks between two context checks.
const ctxCheckEvery = 1024

// Segment is a contiguous stretch of ticks [Start, End) during which PID ran.
type Segment struct {
	PID   int `json:"pid"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Stats describes one completed run.
type Stats struct {
	Policy      string    `json:"policy"`
	Ticks       int       `json:"ticks"`
	IdleTicks   int       `json:"idle_ticks"`
	Dispatches  int       `json:"dispatches"`
	Preemptions int       `json:"preemptions"`
	Limit       int       `json:"limit"`
	Timeline    []Segment `json:"timeline,omitempty"`
}

// Engine drives the tick loop for one dispatch policy.
type Engine struct {
	policy Policy
	cfg    Config
	log    logger.Logger
	events eventbus.Publisher[events.Event]
}

// NewEngine binds an engine to p. log and pub may be nil.
func NewEngine(p Policy, cfg Config, log logger.Logger, pub eventbus.Publisher[events.Event]) *Engine {
	if log == nil {
		log = logger.Nop{}
	}
	cfg.SetDefaults()
	return &Engine{policy: p, cfg: cfg, log: log, events: pub}
}

// Policy returns the bound policy.
func (e *Engine) Policy() Policy { return e.policy }

func (e *Engine) publish(ev events.Event) {
	if e.events != nil {
		e.events.Publish(ev)
	}
}

// Run replays reg until no process has remaining service, mutating reg in
// place. Processes are admitted at their arrival tick in id order.
//
//gocyclo:ignore
func (e *Engine) Run(ctx context.Context, reg *model.Registry) (Stats, error) {
	name := e.policy.Name()
	stats := Stats{Policy: name, Limit: e.cfg.Limit(reg)}

	arrivals := make(map[int][]int)
	pending := 0
	for _, p := range reg.Processes {
		if p.Remaining > 0 {
			arrivals[p.Arrival] = append(arrivals[p.Arrival], p.ID)
			pending++
		}
	}

	queue := &ReadyQueue{}
	current := NoProcess
	t := 0
	for ; pending > 0; t++ {
		if t >= stats.Limit {
			stats.Ticks = t
			return stats, fmt.Errorf("%w: %s reached tick %d (limit %d) with %d processes pending",
				ErrSimulationDivergence, name, t, stats.Limit, pending)
		}
		if t%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				stats.Ticks = t
				return stats, err
			}
		}

		for _, id := range arrivals[t] {
			queue.Push(id)
			e.publish(events.Admitted{Base: events.Base{PolicyName: name, At: t, PID: id}})
		}

		next := e.policy.Select(queue, current, reg)
		if next != current {
			if current != NoProcess {
				stats.Preemptions++
				e.publish(events.Preempted{
					Base:      events.Base{PolicyName: name, At: t, PID: current},
					By:        next,
					Remaining: reg.Get(current).Remaining,
				})
			}
			if next != NoProcess {
				stats.Dispatches++
				e.publish(events.Dispatched{
					Base:      events.Base{PolicyName: name, At: t, PID: next},
					Remaining: reg.Get(next).Remaining,
				})
			}
		}
		current = next

		if current == NoProcess {
			stats.IdleTicks++
			continue
		}
		p := reg.Get(current)
		if p.Remaining <= 0 {
			stats.Ticks = t
			return stats, fmt.Errorf("%w: %s picked process %d at tick %d", ErrInvalidSelection, name, current, t)
		}
		if e.cfg.TraceTicks {
			e.log.Debugf("%s Time: %d Process: %d", name, t, current)
		}
		if e.cfg.Timeline {
			stats.Timeline = extend(stats.Timeline, current, t)
		}

		p.Remaining--
		if p.Remaining == 0 {
			reg.Complete(current, t)
			pending--
			e.publish(events.Completed{
				Base:       events.Base{PolicyName: name, At: t, PID: current},
				Turnaround: p.Turnaround,
			})
			current = NoProcess
		}
	}
	stats.Ticks = t
	return stats, nil
}

func extend(tl []Segment, pid, t int) []Segment {
	if n := len(tl); n > 0 && tl[n-1].PID == pid && tl[n-1].End == t {
		tl[n-1].End = t + 1
		return tl
	}
	return append(tl, Segment{PID: pid, Start: t, End: t + 1})
}
