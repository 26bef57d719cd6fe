// Package metrics defines the run summary produced for every policy run and
// the sinks that record it. Sinks like the Prometheus, InfluxDB and MQTT
// implementations in infra are created from configuration through a factory
// registry and combined with NewMultiSink when several are configured.
package metrics
