package scheduler

import "github.com/kilianp07/schedsim/core/model"

// SRT is preemptive shortest remaining time. The decision is re-evaluated
// every tick.
type SRT struct{}

func (SRT) Name() string     { return "SRT" }
func (SRT) Preemptive() bool { return true }

// Select picks the first queued process with the least remaining service.
// The running process keeps the CPU only when it is strictly shorter;
// otherwise it is appended to the queue tail.
func (SRT) Select(q *ReadyQueue, current int, reg *model.Registry) int {
	i := q.minIndex(func(id int) int { return reg.Get(id).Remaining })
	if i < 0 {
		return current
	}
	if current != NoProcess && reg.Get(current).Remaining < reg.Get(q.At(i)).Remaining {
		return current
	}
	next := q.RemoveAt(i)
	if current != NoProcess {
		q.Push(current)
	}
	return next
}
