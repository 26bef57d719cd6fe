package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kilianp07/schedsim/core/model"
)

// NoProcess is returned by a Policy when the CPU stays idle.
const NoProcess = -1

// Policy selects the process that occupies the CPU for the current tick.
//
// Select receives the ready queue (processes admitted but not running), the
// id of the currently running process or NoProcess, and the registry. It
// removes the chosen process from the queue and, when it displaces current,
// is responsible for re-queueing it.
type Policy interface {
	Name() string
	Preemptive() bool
	Select(q *ReadyQueue, current int, reg *model.Registry) int
}

// ReadyQueue is an ordered list of process ids. Insertion order is admission order.
type ReadyQueue struct {
	ids []int
}

// Push appends id at the tail.
func (q *ReadyQueue) Push(id int) { q.ids = append(q.ids, id) }

// PopFront removes and returns the head of the queue.
func (q *ReadyQueue) PopFront() (int, bool) {
	if len(q.ids) == 0 {
		return NoProcess, false
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, true
}

// RemoveAt removes and returns the id at position i.
func (q *ReadyQueue) RemoveAt(i int) int {
	id := q.ids[i]
	q.ids = append(q.ids[:i], q.ids[i+1:]...)
	return id
}

// Len returns the number of queued processes.
func (q *ReadyQueue) Len() int { return len(q.ids) }

// At returns the id at position i.
func (q *ReadyQueue) At(i int) int { return q.ids[i] }

// IDs returns a copy of the queued ids in queue order.
func (q *ReadyQueue) IDs() []int {
	out := make([]int, len(q.ids))
	copy(out, q.ids)
	return out
}

// minIndex returns the position of the first entry with the smallest key, or -1.
func (q *ReadyQueue) minIndex(key func(id int) int) int {
	best := -1
	bestKey := 0
	for i, id := range q.ids {
		k := key(id)
		if best < 0 || k < bestKey {
			best, bestKey = i, k
		}
	}
	return best
}

var policies = map[string]func() Policy{
	"fcfs": func() Policy { return FCFS{} },
	"sjf":  func() Policy { return SJF{} },
	"srt":  func() Policy { return SRT{} },
}

// DefaultPolicies returns FCFS, SJF and SRT in report order.
func DefaultPolicies() []Policy {
	return []Policy{FCFS{}, SJF{}, SRT{}}
}

// PolicyByName resolves a policy from its case-insensitive name.
func PolicyByName(name string) (Policy, error) {
	f, ok := policies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (available: %s)", name, strings.Join(PolicyNames(), ", "))
	}
	return f(), nil
}

// PoliciesByName resolves every name, keeping the given order.
func PoliciesByName(names []string) ([]Policy, error) {
	out := make([]Policy, 0, len(names))
	for _, n := range names {
		p, err := PolicyByName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// PolicyNames lists the registered policy names.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for n := range policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
