package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kilianp07/schedsim/core/history"
	"github.com/kilianp07/schedsim/core/metrics"
	"github.com/kilianp07/schedsim/pkg/export"
)

var histOpts struct {
	since  time.Duration
	policy string
	runID  string
	limit  int
	json   bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query past run summaries from the history store",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.DurationVar(&histOpts.since, "since", 0, "only runs recorded within this duration")
	f.StringVarP(&histOpts.policy, "policy", "p", "", "only runs of this policy")
	f.StringVar(&histOpts.runID, "run", "", "only runs of this invocation id")
	f.IntVarP(&histOpts.limit, "limit", "l", 20, "keep the most recent entries, 0 for all")
	f.BoolVar(&histOpts.json, "json", false, "print the summaries as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled() {
		return fmt.Errorf("history is disabled: set history.backend to %q or %q", history.BackendJSONL, history.BackendSQLite)
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "close history: %v\n", err)
		}
	}()

	q := history.Query{Policy: strings.ToUpper(histOpts.policy), RunID: histOpts.runID, Limit: histOpts.limit}
	if histOpts.since > 0 {
		q.Start = time.Now().Add(-histOpts.since)
	}
	runs, err := store.Query(context.Background(), q)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	if histOpts.json {
		return export.WriteJSON(cmd.OutOrStdout(), runs)
	}
	writeHistoryTable(cmd, runs)
	return nil
}

func writeHistoryTable(cmd *cobra.Command, runs []metrics.RunSummary) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Time", "Run", "Policy", "N", "Seed", "Mean TT", "Mean Wait", "Makespan", "Preempt"})
	table.SetAutoFormatHeaders(false)
	for _, r := range runs {
		table.Append([]string{
			r.Time.Format(time.RFC3339),
			r.RunID,
			r.Policy,
			fmt.Sprint(r.Processes),
			fmt.Sprint(r.Seed),
			fmt.Sprintf("%.4f", r.MeanTurnaround),
			fmt.Sprintf("%.4f", r.MeanWaiting),
			fmt.Sprint(r.Makespan),
			fmt.Sprint(r.Preemptions),
		})
	}
	table.Render()
}
