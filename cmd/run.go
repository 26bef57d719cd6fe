package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/schedsim/app"
	"github.com/kilianp07/schedsim/config"
	"github.com/kilianp07/schedsim/core/workload"
	"github.com/kilianp07/schedsim/infra/logger"
)

type runFlags struct {
	horizon     int
	mean        float64
	stddev      float64
	processes   int
	seed        uint64
	policies    []string
	format      string
	gantt       bool
	parallel    bool
	workload    string
	export      string
	interactive bool
	serve       bool
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a population and replay it under every policy",
	RunE:  runSimulation,
}

func init() {
	f := runCmd.Flags()
	f.IntVarP(&runOpts.horizon, "arrival-horizon", "k", 0, "max arrival time for all processes (K)")
	f.Float64VarP(&runOpts.mean, "mean", "d", 0, "average CPU time (D)")
	f.Float64VarP(&runOpts.stddev, "stddev", "v", 0, "standard deviation of CPU times (V)")
	f.IntVarP(&runOpts.processes, "processes", "n", 0, "number of processes (N)")
	f.Uint64Var(&runOpts.seed, "seed", 0, "random seed, 0 picks a time based one")
	f.StringSliceVarP(&runOpts.policies, "policies", "p", nil, "policies to replay, in report order")
	f.StringVar(&runOpts.format, "format", "", "report layout: classic or table")
	f.BoolVar(&runOpts.gantt, "gantt", false, "print the dispatch timeline below each table")
	f.BoolVar(&runOpts.parallel, "parallel", true, "replay the policies concurrently")
	f.StringVarP(&runOpts.workload, "workload", "w", "", "replay a saved workload file instead of generating one")
	f.StringVarP(&runOpts.export, "export", "o", "", "write every process row to a .json or .csv file")
	f.BoolVarP(&runOpts.interactive, "interactive", "i", false, "prompt for K, D, V and N")
	f.BoolVar(&runOpts.serve, "serve", false, "keep serving /metrics after the run until interrupted")
	rootCmd.AddCommand(runCmd)
}

// applyRunFlags overrides cfg with the flags set on the command line.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, o runFlags) {
	set := cmd.Flags().Changed
	if set("arrival-horizon") {
		cfg.Simulation.ArrivalHorizon = o.horizon
	}
	if set("mean") {
		cfg.Simulation.MeanService = o.mean
	}
	if set("stddev") {
		cfg.Simulation.ServiceStdDev = o.stddev
	}
	if set("processes") {
		cfg.Simulation.Processes = o.processes
	}
	if set("seed") {
		cfg.Simulation.Seed = o.seed
	}
	if set("policies") {
		cfg.Simulation.Policies = o.policies
	}
	if set("format") {
		cfg.Report.Format = o.format
	}
	if set("gantt") {
		cfg.Report.Gantt = o.gantt
	}
	if set("parallel") {
		cfg.Simulation.Parallel = o.parallel
	}
	if set("workload") {
		cfg.Simulation.WorkloadFile = o.workload
	}
	if set("export") {
		cfg.Report.Export = o.export
	}
}

// promptParams asks for K, D, V and N the way the interactive simulator does.
func promptParams(in io.Reader, out io.Writer) (workload.Params, error) {
	var p workload.Params
	r := bufio.NewReader(in)
	steps := []struct {
		prompt string
		dst    any
	}{
		{"Enter max arrival time for all processes (k): ", &p.ArrivalHorizon},
		{"Enter Avg. CPU time (D): ", &p.MeanService},
		{"Enter Std Dev. of CPU times (V): ", &p.ServiceStdDev},
		{"Enter number of processes (N): ", &p.Processes},
	}
	for _, s := range steps {
		if _, err := fmt.Fprint(out, s.prompt); err != nil {
			return p, err
		}
		if _, err := fmt.Fscan(r, s.dst); err != nil {
			return p, fmt.Errorf("read input: %w", err)
		}
	}
	return p, nil
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg, runOpts)

	out := cmd.OutOrStdout()
	if runOpts.interactive {
		p, err := promptParams(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			// Invalid interactive input ends the session without results.
			fmt.Fprintln(out, workload.ErrInvalidParameter.Error())
			fmt.Fprint(out, "One or more simulation params are invalid")
			return nil
		}
		cfg.Simulation.ArrivalHorizon = p.ArrivalHorizon
		cfg.Simulation.MeanService = p.MeanService
		cfg.Simulation.ServiceStdDev = p.ServiceStdDev
		cfg.Simulation.Processes = p.Processes
		cfg.Simulation.WorkloadFile = ""
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() { serveErr <- svc.ServeMetrics(ctx) }()

	if _, err := svc.Run(ctx, out); err != nil {
		return err
	}
	if runOpts.serve && cfg.Metrics.PrometheusAddr != "" {
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("prom server: %w", err)
			}
		}
	}
	return nil
}
