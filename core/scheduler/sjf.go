package scheduler

import "github.com/kilianp07/schedsim/core/model"

// SJF is non-preemptive shortest job first. Jobs are ranked by their total
// service demand, known up front; ties go to the earliest queued.
type SJF struct{}

func (SJF) Name() string     { return "SJF" }
func (SJF) Preemptive() bool { return false }

// Select keeps the running process regardless of newer, shorter arrivals.
func (SJF) Select(q *ReadyQueue, current int, reg *model.Registry) int {
	if current != NoProcess {
		return current
	}
	i := q.minIndex(func(id int) int { return reg.Get(id).Total })
	if i < 0 {
		return NoProcess
	}
	return q.RemoveAt(i)
}
