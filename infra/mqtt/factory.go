package mqtt

import (
	"github.com/kilianp07/schedsim/core/factory"
	coremetrics "github.com/kilianp07/schedsim/core/metrics"
)

func init() {
	_ = coremetrics.RegisterRunSink("mqtt", func(conf map[string]any) (coremetrics.RunRecorder, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPublisher(c)
	})
}
