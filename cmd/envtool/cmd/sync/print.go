package sync

import (
	"fmt"
	"strings"

	"github.com/ethan-huo/env-tool/internal/cmd/alerts"
	"github.com/ethan-huo/env-tool/internal/cmd/emoji"
	"github.com/ethan-huo/env-tool/internal/config"
	pkgsync "github.com/ethan-huo/env-tool/pkg/sync"
)

// printResult writes one block per target: the summary line, dry-run
// detail lines, skipped removals and failures.
func printResult(w alerts.Writer, env config.Env, result *pkgsync.Result) {
	for _, tr := range result.Targets {
		label := fmt.Sprintf("%s (%s)", tr.Target, env)

		if !tr.Available() {
			a := alerts.Newf(alerts.LevelError, "%s: unavailable", label).WithError(tr.Err)
			if len(tr.SkippedRemovals) > 0 {
				a.WithDetails("removals skipped: " + strings.Join(tr.SkippedRemovals, ", "))
			}
			_ = w.WriteAlert(a)
			if result.DryRun {
				_ = w.WriteAlert(planAlert(label, tr))
			} else if tr.HasChanges() {
				_ = w.WriteAlert(alerts.Newf(alerts.LevelWarning, "%s: wrote %s", label, tr.Summary()))
			}
			continue
		}

		if result.DryRun {
			_ = w.WriteAlert(planAlert(label, tr))
		} else {
			_ = w.WriteAlert(alerts.Newf(alerts.LevelSuccess, "%s: %s", label, tr.Summary()))
		}

		if len(tr.SkippedRemovals) > 0 {
			_ = w.WriteAlert(alerts.Newf(alerts.LevelWarning, "%s: removals skipped: %s",
				label, strings.Join(tr.SkippedRemovals, ", ")))
		}

		if tr.HasFailures() {
			failed := append(append([]string{}, tr.FailedWrites...), tr.FailedRemovals...)
			a := alerts.Newf(alerts.LevelWarning, "%s: %d failed: %s", label, len(failed), strings.Join(failed, ", "))
			for _, err := range tr.Errors {
				a.WithDetails(err.Error())
			}
			_ = w.WriteAlert(a)
		}
	}
}

// planAlert lists what a dry run would change on one target.
func planAlert(label string, tr *pkgsync.TargetResult) *alerts.Alert {
	a := alerts.Newf(alerts.LevelInfo, "[dry-run] %s:", label)
	if !tr.HasChanges() {
		return a.WithDetails("no changes")
	}
	if len(tr.Added) > 0 {
		a.WithDetails(emoji.Added + " " + strings.Join(tr.Added, ", "))
	}
	if len(tr.Updated) > 0 {
		a.WithDetails(emoji.Updated + " " + strings.Join(tr.Updated, ", "))
	}
	if len(tr.Removed) > 0 {
		a.WithDetails(emoji.Removed + " " + strings.Join(tr.Removed, ", "))
	}
	return a
}
