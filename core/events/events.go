package events

// Event is implemented by every engine event.
type Event interface {
	// Policy returns the name of the dispatch policy that produced the event.
	Policy() string
	// Tick returns the simulated time of the event.
	Tick() int
}

// Base carries the fields common to all events.
type Base struct {
	PolicyName string
	At         int
	PID        int
}

func (b Base) Policy() string { return b.PolicyName }
func (b Base) Tick() int      { return b.At }

// Admitted is published when a process enters the ready queue.
type Admitted struct {
	Base
}

// Dispatched is published when a process starts occupying the CPU.
type Dispatched struct {
	Base
	Remaining int
}

// Preempted is published when a running process is displaced before completion.
type Preempted struct {
	Base
	By        int
	Remaining int
}

// Completed is published at the tick a process finishes.
type Completed struct {
	Base
	Turnaround int
}

// TypeOf returns a short lowercase name for ev, used as a metric label.
func TypeOf(ev Event) string {
	switch ev.(type) {
	case Admitted:
		return "admitted"
	case Dispatched:
		return "dispatched"
	case Preempted:
		return "preempted"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}
