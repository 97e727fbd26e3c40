// Package differ turns reconciliation results into a drift report: one row
// per flagged key, one column per target. It makes no decisions of its own;
// every verdict comes from the reconciler.
package differ

import (
	"fmt"

	"github.com/ethan-huo/env-tool/pkg/reconciler"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// ElideThreshold is the longest value rendered in full.
const ElideThreshold = 16

// Cell markers.
const (
	Absent      = "─"
	Present     = "✓"
	Unverified  = "✓ (cannot verify)"
	Excluded    = "(excluded)"
	Unavailable = "unavailable"
)

// Differ builds reports.
type Differ interface {
	// Report renders a reconciliation result.
	Report(result *reconciler.Result) *Report
}

type differ struct {
	localName    string
	unverifiable bool
	values       bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		localName: "local",
		values:    true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Build is shorthand for New(opts...).Report(result).
func Build(result *reconciler.Result, opts ...Option) *Report {
	return New(opts...).Report(result)
}

// Report implements Differ.
func (d *differ) Report(result *reconciler.Result) *Report {
	report := &Report{
		LocalName:    d.localName,
		Unverifiable: make(map[sources.ID]int),
	}

	for _, t := range result.Targets {
		report.Columns = append(report.Columns, Column{
			ID:            t.ID,
			ValuesVisible: t.ValuesVisible,
			Available:     t.Available(),
			Err:           t.Err,
		})
		if !t.Available() {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: unavailable (%v)", t.ID, t.Err))
			continue
		}
		if n := t.Count(reconciler.UnknownDrift); n > 0 {
			report.Unverifiable[t.ID] = n
		}
	}

	keys := result.Keys()
	report.TotalKeys = len(keys)
	for _, key := range keys {
		issues := d.issues(result, key)
		if len(issues) == 0 {
			continue
		}
		report.Rows = append(report.Rows, d.row(result, key, issues))
	}
	return report
}

// issues collects the de-duplicated issue strings for key across every
// available target, in target order.
func (d *differ) issues(result *reconciler.Result, key string) []string {
	var issues []string
	seen := make(map[string]bool)
	for _, t := range result.Targets {
		if !t.Available() {
			continue
		}
		c, ok := t.Class(key)
		if !ok {
			continue
		}
		issue := Issue(t.ID, c.DiffView())
		if issue == "" || (c == reconciler.UnknownDrift && !d.unverifiable) {
			continue
		}
		if !seen[issue] {
			seen[issue] = true
			issues = append(issues, issue)
		}
	}
	return issues
}

func (d *differ) row(result *reconciler.Result, key string, issues []string) Row {
	row := Row{Key: key, Issues: issues}

	if e, ok := result.Local.Get(key); ok {
		row.Local = d.value(e.Value)
		row.HasLocal = true
	} else {
		row.Local = Absent
	}

	for _, t := range result.Targets {
		row.Cells = append(row.Cells, d.cell(t, key))
	}
	return row
}

func (d *differ) cell(t *reconciler.TargetResult, key string) Cell {
	if !t.Available() {
		return Cell{Target: t.ID, Text: Unavailable}
	}
	c, ok := t.Class(key)
	if !ok {
		return Cell{Target: t.ID, Text: Excluded}
	}
	cell := Cell{Target: t.ID, Class: c}
	switch {
	case c == reconciler.Added:
		cell.Text = Absent
	case c == reconciler.UnknownDrift:
		cell.Text = Unverified
	case t.ValuesVisible:
		cell.Text = d.value(t.Snapshot.Value(key))
	default:
		cell.Text = Present
	}
	return cell
}

func (d *differ) value(v string) string {
	if !d.values {
		return Present
	}
	return Elide(v)
}

// Issue returns the issue string for a diff-view classification, or "" for
// states that are not issues.
func Issue(target sources.ID, c reconciler.Classification) string {
	switch c {
	case reconciler.RemovedLocally:
		return "removed locally"
	case reconciler.MissingRemote, reconciler.Added:
		return "missing in " + target.String()
	case reconciler.Updated:
		return target.String() + " differs"
	case reconciler.UnknownDrift:
		return "cannot verify " + target.String()
	default:
		return ""
	}
}

// Elide shortens values longer than ElideThreshold to first6...last6.
func Elide(v string) string {
	r := []rune(v)
	if len(r) <= ElideThreshold {
		return v
	}
	return string(r[:6]) + "..." + string(r[len(r)-6:])
}
