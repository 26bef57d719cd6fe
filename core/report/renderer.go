package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/kilianp07/schedsim/core/model"
	"github.com/kilianp07/schedsim/core/scheduler"
	"github.com/kilianp07/schedsim/core/simulation"
)

// Renderer writes per-policy result tables.
type Renderer struct {
	cfg Config
}

// NewRenderer returns a Renderer for cfg.
func NewRenderer(cfg Config) *Renderer {
	cfg.SetDefaults()
	return &Renderer{cfg: cfg}
}

// Render writes the rows of reg under the policy title followed by the mean
// turnaround. It refuses registries that were not fully serviced.
func (r *Renderer) Render(w io.Writer, policy string, reg *model.Registry, timeline []scheduler.Segment) error {
	if reg.Len() == 0 {
		return fmt.Errorf("%w: empty registry", model.ErrIncomplete)
	}
	if err := reg.CheckComplete(); err != nil {
		return err
	}
	var err error
	switch r.cfg.Format {
	case FormatTable:
		err = renderTable(w, policy, reg)
	default:
		err = renderClassic(w, policy, reg)
	}
	if err != nil {
		return err
	}
	if r.cfg.Gantt && len(timeline) > 0 {
		return renderGantt(w, timeline)
	}
	return nil
}

// RenderOutcomes renders every outcome in order. The table layout ends with a
// comparison of the policies.
func (r *Renderer) RenderOutcomes(w io.Writer, outcomes []simulation.Outcome) error {
	for _, o := range outcomes {
		if err := r.Render(w, o.Policy, o.Registry, o.Stats.Timeline); err != nil {
			return fmt.Errorf("render %s: %w", o.Policy, err)
		}
	}
	if r.cfg.Format == FormatTable && len(outcomes) > 1 {
		return renderComparison(w, outcomes)
	}
	return nil
}

func meanTurnaround(reg *model.Registry) float64 {
	total := 0
	for _, p := range reg.Processes {
		total += p.Turnaround
	}
	return float64(total) / float64(reg.Len())
}

func activeFlag(p model.Process) int {
	if p.Active {
		return 1
	}
	return 0
}

func renderClassic(w io.Writer, policy string, reg *model.Registry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n**** %s ****\n", policy)
	b.WriteString("No.| A| Arr| CPU| Rem| TT |\n")
	b.WriteString("---------------------------\n")
	for _, p := range reg.Processes {
		fmt.Fprintf(&b, "%-3d %1d %4d %4d %4d %4d\n", p.ID, activeFlag(p), p.Arrival, p.Total, p.Remaining, p.Turnaround)
	}
	fmt.Fprintf(&b, "Average TT: %.4f\n", meanTurnaround(reg))
	_, err := io.WriteString(w, b.String())
	return err
}

func renderTable(w io.Writer, policy string, reg *model.Registry) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", policy); err != nil {
		return err
	}
	rows := make([][]string, 0, reg.Len())
	waiting := 0
	for _, p := range reg.Processes {
		waiting += p.Waiting()
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			strconv.Itoa(activeFlag(p)),
			strconv.Itoa(p.Arrival),
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Remaining),
			strconv.Itoa(p.Waiting()),
			strconv.Itoa(p.Turnaround),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"ID", "Active", "Arrival", "CPU", "Remaining", "Wait", "Turnaround"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average %.4f", float64(waiting)/float64(reg.Len())),
		fmt.Sprintf("Average TT: %.4f", meanTurnaround(reg))})
	table.Render()
	return nil
}

func renderComparison(w io.Writer, outcomes []simulation.Outcome) error {
	if _, err := fmt.Fprintln(w, "\nComparison"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Policy", "Avg TT", "StdDev TT", "Avg Wait", "Makespan", "Idle", "Preemptions"})
	for _, o := range outcomes {
		s := o.Summary
		table.Append([]string{
			o.Policy,
			fmt.Sprintf("%.4f", s.MeanTurnaround),
			fmt.Sprintf("%.4f", s.StdDevTurnaround),
			fmt.Sprintf("%.4f", s.MeanWaiting),
			strconv.Itoa(s.Makespan),
			strconv.Itoa(s.IdleTicks),
			strconv.Itoa(s.Preemptions),
		})
	}
	table.Render()
	return nil
}

// renderGantt draws one cell per segment with the segment boundaries below.
// Gaps between segments are shown as idle cells.
func renderGantt(w io.Writer, timeline []scheduler.Segment) error {
	var cells, marks strings.Builder
	cells.WriteString("|")
	prev := 0
	cell := func(label string, start int) {
		pad := strings.Repeat(" ", (8-len(label))/2)
		cells.WriteString(pad + label + pad + "|")
		marks.WriteString(fmt.Sprintf("%-*d", len(pad)*2+len(label)+1, start))
	}
	for _, s := range timeline {
		if s.Start > prev {
			cell("idle", prev)
		}
		cell("P"+strconv.Itoa(s.PID), s.Start)
		prev = s.End
	}
	marks.WriteString(strconv.Itoa(prev))
	_, err := fmt.Fprintf(w, "Gantt schedule\n%s\n%s\n", cells.String(), marks.String())
	return err
}
