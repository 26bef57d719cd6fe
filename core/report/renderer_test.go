package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/schedsim/core/model"
	"github.com/kilianp07/schedsim/core/scheduler"
	"github.com/kilianp07/schedsim/core/simulation"
	"github.com/kilianp07/schedsim/core/workload"
)

type queuedSampler struct {
	services []float64
}

func (q *queuedSampler) Arrival(int) int { return 0 }

func (q *queuedSampler) Service(float64, float64) float64 {
	s := q.services[0]
	q.services = q.services[1:]
	return s
}

func outcomes(t *testing.T) []simulation.Outcome {
	t.Helper()
	p := workload.Params{ArrivalHorizon: 1, MeanService: 5, ServiceStdDev: 1, Processes: 3}
	pop, err := simulation.Generate(p, &queuedSampler{services: []float64{2.5, 0.5, 1.5}}, 1, nil)
	require.NoError(t, err)
	out, err := simulation.NewRunner(scheduler.DefaultPolicies(), scheduler.Config{Timeline: true}).
		Run(context.Background(), pop)
	require.NoError(t, err)
	return out
}

func TestClassicLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(Config{}).RenderOutcomes(&buf, outcomes(t)))
	want := `
**** FCFS ****
No.| A| Arr| CPU| Rem| TT |
---------------------------
0   0    0    3    0    3
1   0    0    1    0    4
2   0    0    2    0    6
Average TT: 4.3333

**** SJF ****
No.| A| Arr| CPU| Rem| TT |
---------------------------
0   0    0    3    0    6
1   0    0    1    0    1
2   0    0    2    0    3
Average TT: 3.3333

**** SRT ****
No.| A| Arr| CPU| Rem| TT |
---------------------------
0   0    0    3    0    6
1   0    0    1    0    1
2   0    0    2    0    3
Average TT: 3.3333
`
	assert.Equal(t, want, buf.String())
}

func TestOutputIsDeterministic(t *testing.T) {
	render := func(format string) string {
		pop, err := simulation.BuildPopulation(simulation.Config{
			ArrivalHorizon: 20, MeanService: 6, ServiceStdDev: 3, Processes: 25, Seed: 1234,
		}, nil)
		require.NoError(t, err)
		out, err := simulation.NewRunner(scheduler.DefaultPolicies(), scheduler.Config{}, simulation.WithParallel(true)).
			Run(context.Background(), pop)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, NewRenderer(Config{Format: format}).RenderOutcomes(&buf, out))
		return buf.String()
	}
	for _, f := range []string{FormatClassic, FormatTable} {
		assert.Equal(t, render(f), render(f), f)
	}
}

func TestTableLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(Config{Format: FormatTable}).RenderOutcomes(&buf, outcomes(t)))
	s := buf.String()
	for _, want := range []string{"FCFS", "SJF", "SRT", "Turnaround", "Average TT: 4.3333", "Average TT: 3.3333", "Comparison", "Preemptions"} {
		assert.Contains(t, s, want)
	}
	assert.Equal(t, 1, strings.Count(s, "Comparison"))
}

func TestGantt(t *testing.T) {
	var buf bytes.Buffer
	out := outcomes(t)
	require.NoError(t, NewRenderer(Config{Gantt: true}).Render(&buf, out[0].Policy, out[0].Registry, out[0].Stats.Timeline))
	assert.Contains(t, buf.String(), "|   P0   |   P1   |   P2   |\n0        3        4        6\n")

	buf.Reset()
	tl := []scheduler.Segment{{PID: 0, Start: 2, End: 4}}
	require.NoError(t, renderGantt(&buf, tl))
	assert.Equal(t, "Gantt schedule\n|  idle  |   P0   |\n0        2        4\n", buf.String())
}

func TestRefusesIncompleteRegistry(t *testing.T) {
	reg, err := model.NewRegistry([]model.Process{model.NewProcess(0, 0, 2)})
	require.NoError(t, err)
	var buf bytes.Buffer
	err = NewRenderer(Config{}).Render(&buf, "FCFS", reg, nil)
	assert.ErrorIs(t, err, model.ErrIncomplete)
	assert.Empty(t, buf.String())

	err = NewRenderer(Config{}).Render(&buf, "FCFS", &model.Registry{}, nil)
	assert.ErrorIs(t, err, model.ErrIncomplete)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Format: FormatTable}.Validate())
	assert.Error(t, Config{Format: "html"}.Validate())
	c := Config{}
	c.SetDefaults()
	assert.Equal(t, FormatClassic, c.Format)
}
