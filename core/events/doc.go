// Package events defines the lifecycle events the scheduler engine publishes
// while replaying a population.
//
// Available event types:
//   - Admitted: a process arrived and joined the ready queue
//   - Dispatched: a process was given the CPU after another one (or idle)
//   - Preempted: the running process was pushed back to the ready queue
//   - Completed: a process received its last tick of service
package events
