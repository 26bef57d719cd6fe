package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/schedsim/core/metrics"
)

func TestInfluxSink_RecordRun(t *testing.T) {
	var (
		mu   sync.Mutex
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer func() { _ = sink.Close() }()
	now := time.Now()
	rec := coremetrics.RunSummary{
		RunID:          "r1",
		Policy:         "SJF",
		Processes:      3,
		MeanTurnaround: 10.0 / 3,
		Makespan:       6,
		Time:           now,
	}
	if err := sink.RecordRun(rec); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("scheduler_run").
		AddTag("run_id", "r1").
		AddTag("policy", "SJF").
		AddField("processes", 3).
		AddField("mean_turnaround", 3.333).
		AddField("stddev_turnaround", 0.0).
		AddField("mean_waiting", 0.0).
		AddField("makespan", 6).
		AddField("idle_ticks", 0).
		AddField("preemptions", 0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body:\n%s\nwant:\n%s", body, expected)
	}
}

func TestInfluxSink_RecordProcesses(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		lines = append(lines, strings.Split(strings.TrimSpace(string(data)), "\n")...)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Org: "org", Bucket: "bucket", Processes: true})
	rec := coremetrics.RunSummary{
		RunID:  "r2",
		Policy: "FCFS",
		Results: []coremetrics.ProcessResult{
			{ID: 0, Arrival: 0, Total: 3, Turnaround: 3},
			{ID: 1, Arrival: 0, Total: 1, Turnaround: 4, Waiting: 3},
		},
		Time: time.Now(),
	}
	if err := sink.RecordRun(rec); err != nil {
		t.Fatalf("record error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(lines) != 3 {
		t.Fatalf("expected 3 points, got %d: %v", len(lines), lines)
	}
	for _, want := range []string{"scheduler_process,", "pid=1", "run_id=r2", "turnaround=4i", "waiting=3i"} {
		if !strings.Contains(lines[2], want) {
			t.Errorf("process point %q misses %q", lines[2], want)
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}

func TestFactoryRegistersBuiltins(t *testing.T) {
	for _, name := range []string{"nop", "prometheus", "influx"} {
		found := false
		for _, n := range coremetrics.SinkTypes() {
			if n == name {
				found = true
			}
		}
		if !found {
			t.Errorf("sink %s not registered", name)
		}
	}
}
