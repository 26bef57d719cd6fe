package metrics

import "github.com/kilianp07/schedsim/core/factory"

var sinkRegistry = factory.NewRegistry[RunRecorder]("run sink")

// RegisterRunSink adds a sink factory identified by name.
func RegisterRunSink(name string, f factory.Factory[RunRecorder]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewRunSink creates a RunRecorder from the provided configuration.
func NewRunSink(cfgs []factory.ModuleConfig) (RunRecorder, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]RunRecorder, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			_ = NewMultiSink(sinks...).Close()
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return NewMultiSink(sinks...), nil
}
