package metrics

import (
	"context"
	"sync"

	"github.com/kilianp07/schedsim/core/events"
)

// EventRecorder is implemented by sinks able to record engine events.
type EventRecorder interface {
	RecordEvent(events.Event) error
}

// EventSource is the subscribing side of the event bus.
type EventSource interface {
	Subscribe() <-chan events.Event
	Unsubscribe(<-chan events.Event)
}

// StartEventCollector subscribes to the event bus and records every event
// until the context is canceled or the bus is closed. The returned function
// waits for the collector to drain.
func StartEventCollector(ctx context.Context, bus EventSource, rec EventRecorder) (wait func()) {
	var wg sync.WaitGroup
	if bus == nil || rec == nil {
		return wg.Wait
	}
	sub := bus.Subscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				bus.Unsubscribe(sub)
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				_ = rec.RecordEvent(ev)
			}
		}
	}()
	return wg.Wait
}
