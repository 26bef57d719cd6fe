// Package scheduler replays a population of processes on a single simulated CPU.
//
// The Engine owns the tick loop: admission of arriving processes into the
// ready queue, dispatch through a Policy, one tick of service for the
// selected process and completion bookkeeping. Policies only decide which
// process occupies the CPU for the current tick. FCFS, SJF and SRT are
// provided.
package scheduler
