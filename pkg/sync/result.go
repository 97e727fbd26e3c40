package sync

import (
	"fmt"
	"strings"

	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Result represents the complete result of a sync run.
type Result struct {
	Env     string
	DryRun  bool
	Targets []*TargetResult
}

// TargetResult is what happened to one target.
type TargetResult struct {
	Target sources.ID
	// Err is set when the target could not be listed.
	Err error

	Added   []string
	Updated []string
	Removed []string

	// SkippedRemovals were not applied because the target was unavailable
	// or removals were disabled.
	SkippedRemovals []string

	// FailedWrites and FailedRemovals name keys the store rejected.
	FailedWrites   []string
	FailedRemovals []string
	// Errors are the non-fatal write and remove failures.
	Errors []error
}

// Available reports whether the target could be listed.
func (tr *TargetResult) Available() bool {
	return tr.Err == nil
}

// HasChanges reports whether the target needed any mutation.
func (tr *TargetResult) HasChanges() bool {
	return len(tr.Added) > 0 || len(tr.Updated) > 0 || len(tr.Removed) > 0
}

// HasFailures reports whether any write or remove failed.
func (tr *TargetResult) HasFailures() bool {
	return len(tr.Errors) > 0
}

// Summary returns the compact "+added ~updated -removed" form.
func (tr *TargetResult) Summary() string {
	if !tr.HasChanges() {
		return "no changes"
	}
	return fmt.Sprintf("+%d ~%d -%d", len(tr.Added), len(tr.Updated), len(tr.Removed))
}

// String returns a one-line report for the target.
func (tr *TargetResult) String() string {
	if !tr.Available() {
		return fmt.Sprintf("%s: unavailable (%v), removals skipped", tr.Target, tr.Err)
	}
	line := fmt.Sprintf("%s: %s", tr.Target, tr.Summary())
	if tr.HasFailures() {
		failed := append(append([]string{}, tr.FailedWrites...), tr.FailedRemovals...)
		line += fmt.Sprintf(" (%d failed: %s)", len(failed), strings.Join(failed, ", "))
	}
	return line
}

// Target returns the result for id.
func (r *Result) Target(id sources.ID) (*TargetResult, bool) {
	for _, tr := range r.Targets {
		if tr.Target == id {
			return tr, true
		}
	}
	return nil, false
}

// HasChanges returns true if any target needed a mutation.
func (r *Result) HasChanges() bool {
	for _, tr := range r.Targets {
		if tr.HasChanges() {
			return true
		}
	}
	return false
}

// HasFailures reports whether any target was unavailable or had failures.
func (r *Result) HasFailures() bool {
	for _, tr := range r.Targets {
		if !tr.Available() || tr.HasFailures() {
			return true
		}
	}
	return false
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	parts := make([]string, 0, len(r.Targets))
	for _, tr := range r.Targets {
		parts = append(parts, tr.String())
	}
	summary := strings.Join(parts, "; ")
	if summary == "" {
		summary = "no targets"
	}
	if r.DryRun {
		summary += " (dry run)"
	}
	return summary
}
