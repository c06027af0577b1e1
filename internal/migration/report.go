package migration

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Check compares the row count of one table on both sides.
type Check struct {
	Table       string `json:"table"`
	Source      int64  `json:"source"`
	Destination int64  `json:"destination"`
}

func (c Check) OK() bool {
	return c.Source == c.Destination
}

type Report struct {
	Phase            Phase         `json:"phase"`
	Forced           bool          `json:"forced"`
	NothingToMigrate bool          `json:"nothing_to_migrate"`
	NonEmptyTables   []string      `json:"non_empty_tables,omitempty"`
	Tables           []TableCount  `json:"tables"`
	Total            int64         `json:"total"`
	Checks           []Check       `json:"checks"`
	Warnings         []string      `json:"warnings,omitempty"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
	Error            string        `json:"error,omitempty"`
}

func (r *Report) Succeeded() bool {
	return r.Phase == PhaseCompleted
}

// Rows returns the number of rows copied into table.
func (r *Report) Rows(table string) int64 {
	for _, t := range r.Tables {
		if t.Table == table {
			return t.Rows
		}
	}
	return 0
}

// WriteSummary prints the human-readable summary shown by the CLI.
func (r *Report) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Migration %s in %s\n", r.Phase, r.Duration.Round(time.Millisecond))
	switch {
	case r.NothingToMigrate:
		fmt.Fprintln(tw, "No source database found: no migration needed.")
	case r.Phase == PhaseAborted:
		fmt.Fprintf(tw, "Destination already holds data in: %v. Re-run with --force to replace it.\n", r.NonEmptyTables)
	}
	if r.Error != "" {
		fmt.Fprintf(tw, "Error: %s\n", r.Error)
	}

	if len(r.Tables) > 0 {
		fmt.Fprintln(tw, "\nTABLE\tROWS")
		for _, t := range r.Tables {
			fmt.Fprintf(tw, "%s\t%d\n", t.Table, t.Rows)
		}
		fmt.Fprintf(tw, "total\t%d\n", r.Total)
	}

	if len(r.Checks) > 0 {
		fmt.Fprintln(tw, "\nCHECK\tSOURCE\tDESTINATION\tRESULT")
		for _, c := range r.Checks {
			result := "ok"
			if !c.OK() {
				result = "MISMATCH"
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c.Table, c.Source, c.Destination, result)
		}
	}

	for _, warning := range r.Warnings {
		fmt.Fprintf(tw, "warning: %s\n", warning)
	}
	return tw.Flush()
}
