// Package infra holds the adapters behind the core interfaces: the zerolog
// logger, the Prometheus and InfluxDB run sinks, the MQTT publisher and the
// OpenTelemetry setup. Nothing in core imports these packages.
package infra
