package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/schedsim/core/factory"
	coremetrics "github.com/kilianp07/schedsim/core/metrics"
)

// init registers built-in run sinks.
func init() {
	_ = coremetrics.RegisterRunSink("nop", func(map[string]any) (coremetrics.RunRecorder, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterRunSink("prometheus", func(map[string]any) (coremetrics.RunRecorder, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterRunSink("influx", func(conf map[string]any) (coremetrics.RunRecorder, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
