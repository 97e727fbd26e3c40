package differ

import (
	"fmt"
	"strings"

	"github.com/ethan-huo/env-tool/pkg/reconciler"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Report is the rendered drift between the local file and every target.
type Report struct {
	LocalName string
	Columns   []Column
	Rows      []Row
	// TotalKeys counts every classified key, flagged or not.
	TotalKeys int
	// Failures has one line per unavailable target.
	Failures []string
	// Unverifiable counts keys per target whose value cannot be read.
	Unverifiable map[sources.ID]int
}

// Column describes one target.
type Column struct {
	ID            sources.ID
	ValuesVisible bool
	Available     bool
	Err           error
}

// Row is one flagged key.
type Row struct {
	Key      string
	Local    string
	HasLocal bool
	Cells    []Cell
	Issues   []string
}

// Cell is one target's view of a key.
type Cell struct {
	Target sources.ID
	Class  reconciler.Classification
	Text   string
}

// InSync reports whether nothing is flagged and every target was reachable.
func (r *Report) InSync() bool {
	return len(r.Rows) == 0 && len(r.Failures) == 0
}

// Summary is the single line printed instead of a table when in sync.
func (r *Report) Summary() string {
	return fmt.Sprintf("All %d keys are in sync", r.TotalKeys)
}

// Headers returns the table header: key, local, one per target, status.
func (r *Report) Headers() []string {
	headers := []string{"KEY", r.LocalName}
	for _, c := range r.Columns {
		h := c.ID.String()
		if !c.Available {
			h += " (unavailable)"
		}
		headers = append(headers, h)
	}
	return append(headers, "SYNCED")
}

// Table returns one string row per flagged key matching Headers.
func (r *Report) Table() [][]string {
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		cols := []string{row.Key, row.Local}
		for _, c := range row.Cells {
			cols = append(cols, c.Text)
		}
		cols = append(cols, "✗ "+strings.Join(row.Issues, ", "))
		rows = append(rows, cols)
	}
	return rows
}
