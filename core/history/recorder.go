package history

import (
	"context"
	"time"

	"github.com/kilianp07/schedsim/core/metrics"
)

// Recorder exposes a Store as a metrics.RunRecorder so that history is fed
// like any other sink.
type Recorder struct {
	store   Store
	timeout time.Duration
}

// NewRecorder wraps store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, timeout: 5 * time.Second}
}

// RecordRun appends s to the store.
func (r *Recorder) RecordRun(s metrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.store.Append(ctx, s)
}

// Close closes the store.
func (r *Recorder) Close() error { return r.store.Close() }
