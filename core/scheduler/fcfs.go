package scheduler

import "github.com/kilianp07/schedsim/core/model"

// FCFS runs processes to completion in admission order.
type FCFS struct{}

func (FCFS) Name() string     { return "FCFS" }
func (FCFS) Preemptive() bool { return false }

// Select keeps the running process, otherwise pops the queue head.
func (FCFS) Select(q *ReadyQueue, current int, _ *model.Registry) int {
	if current != NoProcess {
		return current
	}
	id, _ := q.PopFront()
	return id
}
