// Package metrics implements the run sinks backed by Prometheus and InfluxDB
// and registers them, with "nop", in the core sink factory.
package metrics
