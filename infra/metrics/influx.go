package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/schedsim/core/metrics"
	"github.com/kilianp07/schedsim/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving run points.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// Processes also writes one point per process.
	Processes bool `json:"processes"`
}

// InfluxSink writes run summaries to an InfluxDB instance using the official client.
type InfluxSink struct {
	client    influxdb2.Client
	writeAPI  api.WriteAPIBlocking
	processes bool
	log       logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:    client,
		writeAPI:  client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		processes: cfg.Processes,
		log:       logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.RunRecorder {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one scheduler_run point and, when enabled, one
// scheduler_process point per process.
func (s *InfluxSink) RecordRun(r coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := []*write.Point{runPoint(r)}
	if s.processes {
		for _, p := range r.Results {
			points = append(points, write.NewPointWithMeasurement("scheduler_process").
				AddTag("run_id", r.RunID).
				AddTag("policy", r.Policy).
				AddTag("pid", strconv.Itoa(p.ID)).
				AddField("arrival", p.Arrival).
				AddField("total", p.Total).
				AddField("turnaround", p.Turnaround).
				AddField("waiting", p.Waiting).
				SetTime(r.Time))
		}
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func runPoint(r coremetrics.RunSummary) *write.Point {
	return write.NewPointWithMeasurement("scheduler_run").
		AddTag("run_id", r.RunID).
		AddTag("policy", r.Policy).
		AddField("processes", r.Processes).
		AddField("mean_turnaround", round3(r.MeanTurnaround)).
		AddField("stddev_turnaround", round3(r.StdDevTurnaround)).
		AddField("mean_waiting", round3(r.MeanWaiting)).
		AddField("makespan", r.Makespan).
		AddField("idle_ticks", r.IdleTicks).
		AddField("preemptions", r.Preemptions).
		SetTime(r.Time)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
