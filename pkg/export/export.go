// Package export writes per-process run results as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/schedsim/core/metrics"
)

var csvHeader = []string{"run_id", "policy", "id", "arrival", "total", "turnaround", "waiting"}

// WriteJSON writes the run summaries, process rows included, to w as an indented JSON array.
func WriteJSON(w io.Writer, runs []metrics.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}

// WriteCSV writes one record per process and policy to w.
func WriteCSV(w io.Writer, runs []metrics.RunSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range runs {
		for _, p := range r.Results {
			rec := []string{
				r.RunID,
				r.Policy,
				strconv.Itoa(p.ID),
				strconv.Itoa(p.Arrival),
				strconv.Itoa(p.Total),
				strconv.Itoa(p.Turnaround),
				strconv.Itoa(p.Waiting),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and writes runs to it, as CSV when the extension is
// .csv and as JSON otherwise.
func WriteFile(path string, runs []metrics.RunSummary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return WriteCSV(f, runs)
	}
	return WriteJSON(f, runs)
}
