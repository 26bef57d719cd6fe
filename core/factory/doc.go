// Package factory instantiates pluggable modules such as run sinks
// from configuration. A module is described by a type string and a map of raw
// settings that the registered constructor decodes into its own struct.
//
//	reg := factory.NewRegistry[metrics.RunRecorder]("run sink")
//	_ = reg.Register("influx", func(conf map[string]any) (metrics.RunRecorder, error) {
//	    var c InfluxConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewInfluxSink(c), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: raw})
package factory
