package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/schedsim/config"
	"github.com/kilianp07/schedsim/core/workload"
)

// resetFlags restores every flag of c to its default between executions.
func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
}

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	for _, c := range []*cobra.Command{runCmd, generateCmd, historyCmd} {
		resetFlags(t, c)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(in))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPromptParams(t *testing.T) {
	var out bytes.Buffer
	p, err := promptParams(strings.NewReader("1\n5\n1\n3\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, workload.Params{ArrivalHorizon: 1, MeanService: 5, ServiceStdDev: 1, Processes: 3}, p)
	assert.Equal(t, "Enter max arrival time for all processes (k): "+
		"Enter Avg. CPU time (D): "+
		"Enter Std Dev. of CPU times (V): "+
		"Enter number of processes (N): ", out.String())

	_, err = promptParams(strings.NewReader("1 five"), &out)
	assert.ErrorContains(t, err, "read input")
}

func TestRunInteractiveInvalidParams(t *testing.T) {
	out, err := execute(t, "0 5 1 3", "run", "-i")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "D, V, N and K must be > 0\nOne or more simulation params are invalid"))
	assert.NotContains(t, out, "****")
}

func TestRunInteractive(t *testing.T) {
	out, err := execute(t, "1 5 1 3", "run", "-i", "--seed", "42")
	require.NoError(t, err)
	for _, name := range []string{"FCFS", "SJF", "SRT"} {
		assert.Contains(t, out, "**** "+name+" ****")
	}
	assert.Equal(t, 3, strings.Count(out, "Average TT: "))
}

func TestRunFlagsRejectInvalidParams(t *testing.T) {
	_, err := execute(t, "", "run", "-n", "0")
	assert.ErrorIs(t, err, workload.ErrInvalidParameter)
}

func TestGenerateThenReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pop.yaml")
	_, err := execute(t, "", "generate", "-k", "4", "-n", "5", "--seed", "9", "-o", path)
	require.NoError(t, err)

	wf, err := workload.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, wf.Processes, 5)
	assert.Equal(t, uint64(9), wf.Seed)

	first, err := execute(t, "", "run", "-w", path, "--format", "table")
	require.NoError(t, err)
	second, err := execute(t, "", "run", "-w", path, "--format", "table", "--parallel=false")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Average TT:")
}

func TestGenerateToStdout(t *testing.T) {
	out, err := execute(t, "", "generate", "-n", "2", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "processes:")
	assert.Contains(t, out, "seed: 1")
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("history:\n  backend: jsonl\n  path: "+filepath.Join(dir, "runs.jsonl")+"\n"), 0o644))

	_, err := execute(t, "", "run", "-c", cfgFile, "--seed", "3", "-p", "fcfs,srt")
	require.NoError(t, err)

	out, err := execute(t, "", "history", "-c", cfgFile, "-p", "srt")
	require.NoError(t, err)
	assert.Contains(t, out, "SRT")
	assert.NotContains(t, out, "FCFS")

	out, err = execute(t, "", "history", "-c", cfgFile, "--json")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, `"policy"`))
}

func TestHistoryDisabled(t *testing.T) {
	_, err := execute(t, "", "history")
	assert.ErrorContains(t, err, "history is disabled")
}

func TestApplyRunFlagsOnlyTouchesChangedFlags(t *testing.T) {
	resetFlags(t, runCmd)
	cfg := config.Default()
	require.NoError(t, runCmd.Flags().Parse([]string{"-n", "4", "--gantt"}))
	applyRunFlags(runCmd, &cfg, runOpts)
	assert.Equal(t, 4, cfg.Simulation.Processes)
	assert.True(t, cfg.Report.Gantt)
	assert.Equal(t, 10, cfg.Simulation.ArrivalHorizon)
	assert.True(t, cfg.Simulation.Parallel)
}
