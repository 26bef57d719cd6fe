package model

import (
	"errors"
	"fmt"
)

// NoTurnaround marks a process that has not completed yet.
const NoTurnaround = -1

// ErrIncomplete is returned when a registry still holds unserviced work.
var ErrIncomplete = errors.New("registry not fully serviced")

// Process is one CPU-bound job of a simulated population.
type Process struct {
	ID         int  `json:"id" yaml:"id"`
	Arrival    int  `json:"arrival" yaml:"arrival"`
	Total      int  `json:"total" yaml:"total"`
	Remaining  int  `json:"remaining" yaml:"remaining"`
	Active     bool `json:"active" yaml:"active"`
	Turnaround int  `json:"turnaround" yaml:"turnaround"`
}

// NewProcess returns a freshly arrived process that has not received any service.
func NewProcess(id, arrival, total int) Process {
	return Process{
		ID:         id,
		Arrival:    arrival,
		Total:      total,
		Remaining:  total,
		Active:     true,
		Turnaround: NoTurnaround,
	}
}

// Validate checks the static fields of a process.
func (p Process) Validate() error {
	if p.Arrival < 0 {
		return fmt.Errorf("process %d: arrival must not be negative", p.ID)
	}
	if p.Total < 1 {
		return fmt.Errorf("process %d: total service must be at least 1", p.ID)
	}
	if p.Remaining < 0 || p.Remaining > p.Total {
		return fmt.Errorf("process %d: remaining %d outside [0,%d]", p.ID, p.Remaining, p.Total)
	}
	return nil
}

// Done reports whether the process received all of its service.
func (p Process) Done() bool { return p.Remaining == 0 }

// Waiting is the time spent in the ready queue, defined once the process completed.
func (p Process) Waiting() int {
	if p.Turnaround == NoTurnaround {
		return NoTurnaround
	}
	return p.Turnaround - p.Total
}

// Registry holds the mutable state of one population for a single policy run.
// Processes are indexed by ID.
type Registry struct {
	Processes []Process `json:"processes" yaml:"processes"`
}

// NewRegistry builds a registry from processes whose IDs must equal their index.
func NewRegistry(ps []Process) (*Registry, error) {
	for i, p := range ps {
		if p.ID != i {
			return nil, fmt.Errorf("process at index %d has id %d", i, p.ID)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return &Registry{Processes: ps}, nil
}

// Len returns the population size.
func (r *Registry) Len() int { return len(r.Processes) }

// Get returns the process with the given id.
func (r *Registry) Get(id int) *Process { return &r.Processes[id] }

// Clone returns a deep, independent copy of the registry.
func (r *Registry) Clone() *Registry {
	ps := make([]Process, len(r.Processes))
	copy(ps, r.Processes)
	return &Registry{Processes: ps}
}

// Pending counts processes that still require service.
func (r *Registry) Pending() int {
	n := 0
	for _, p := range r.Processes {
		if p.Remaining > 0 {
			n++
		}
	}
	return n
}

// Complete marks p finished at tick t.
func (r *Registry) Complete(id, t int) {
	p := &r.Processes[id]
	p.Turnaround = t - p.Arrival + 1
	p.Active = false
}

// CheckComplete verifies that every process was fully serviced and carries a
// defined turnaround time.
func (r *Registry) CheckComplete() error {
	for _, p := range r.Processes {
		if p.Remaining != 0 {
			return fmt.Errorf("%w: process %d has %d ticks left", ErrIncomplete, p.ID, p.Remaining)
		}
		if p.Turnaround < 1 {
			return fmt.Errorf("%w: process %d has turnaround %d", ErrIncomplete, p.ID, p.Turnaround)
		}
	}
	return nil
}

// Turnarounds returns the turnaround times in id order.
func (r *Registry) Turnarounds() []float64 {
	out := make([]float64, len(r.Processes))
	for i, p := range r.Processes {
		out[i] = float64(p.Turnaround)
	}
	return out
}

// Waitings returns the waiting times in id order.
func (r *Registry) Waitings() []float64 {
	out := make([]float64, len(r.Processes))
	for i, p := range r.Processes {
		out[i] = float64(p.Waiting())
	}
	return out
}

// MaxArrival returns the latest arrival tick, or 0 for an empty registry.
func (r *Registry) MaxArrival() int {
	m := 0
	for _, p := range r.Processes {
		if p.Arrival > m {
			m = p.Arrival
		}
	}
	return m
}

// TotalService sums the service demand of every process.
func (r *Registry) TotalService() int {
	s := 0
	for _, p := range r.Processes {
		s += p.Total
	}
	return s
}
