package metrics

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremetrics "github.com/kilianp07/schedsim/core/metrics"
)

const (
	itOrg    = "schedsim"
	itBucket = "runs"
	itToken  = "schedsim-test-token"
)

// startInflux starts an InfluxDB 2.7 container initialized with itOrg,
// itBucket and itToken and returns its base URL.
func startInflux(ctx context.Context, t *testing.T) string {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "admin",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "adminpassword",
			"DOCKER_INFLUXDB_INIT_ORG":         itOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      itBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": itToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })
	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "8086")
	require.NoError(t, err)
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestInfluxSinkIntegration(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	url := startInflux(ctx, t)

	rec := NewInfluxSinkWithFallback(InfluxConfig{URL: url, Token: itToken, Org: itOrg, Bucket: itBucket, Processes: true})
	sink, ok := rec.(*InfluxSink)
	require.True(t, ok, "health check failed, got %T", rec)
	defer sink.Close()

	now := time.Now()
	for _, policy := range []string{"FCFS", "SJF", "SRT"} {
		require.NoError(t, sink.RecordRun(coremetrics.RunSummary{
			RunID:          "it-run",
			Policy:         policy,
			Processes:      2,
			MeanTurnaround: 3.5,
			Makespan:       6,
			Results: []coremetrics.ProcessResult{
				{ID: 0, Arrival: 0, Total: 5, Turnaround: 6, Waiting: 1},
				{ID: 1, Arrival: 1, Total: 1, Turnaround: 1, Waiting: 0},
			},
			Time: now,
		}))
	}

	client := influxdb2.NewClient(url, itToken)
	defer client.Close()
	count := func(measurement, field string) int {
		flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: -1h)
  |> filter(fn: (r) => r._measurement == %q and r._field == %q)`, itBucket, measurement, field)
		res, err := client.QueryAPI(itOrg).Query(ctx, flux)
		require.NoError(t, err)
		defer res.Close()
		n := 0
		for res.Next() {
			n++
		}
		require.NoError(t, res.Err())
		return n
	}
	assert.Equal(t, 3, count("scheduler_run", "mean_turnaround"))
	assert.Equal(t, 6, count("scheduler_process", "turnaround"))
}
