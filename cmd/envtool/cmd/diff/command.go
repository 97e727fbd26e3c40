// Package diff provides the command that reports drift between the local
// env file and every sync target.
package diff

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/alerts"
	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/cmd/globals"
	"github.com/ethan-huo/env-tool/internal/cmd/output"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/pkg/differ"
)

// Flags holds the diff-specific flags.
type Flags struct {
	Unverifiable bool
	HideValues   bool
}

// NewCommand creates the diff command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		envFlags *globals.EnvFlags
		flags    Flags
	)

	cmd := &cobra.Command{
		Use:     "diff",
		GroupID: "sync",
		Short:   "Compare the local env file with sync targets",
		Args:    cobra.NoArgs,
		Long: `Diff lists every key that is out of sync between the local env file and the
configured targets, one column per target. Nothing is changed.

Targets that hide values (Cloudflare secrets) can only confirm a key exists;
such keys are shown as "cannot verify" and only count as drift with
--unverifiable. A target that cannot be listed is reported as unavailable
instead of as missing every key.`,
		Example: `  envtool diff
  envtool diff -e prod
  envtool diff --unverifiable -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envs, err := envFlags.Envs()
			if err != nil {
				return err
			}
			return run(cmd, app, envs, flags)
		},
	}

	envFlags = globals.AddEnvFlag(cmd, config.Dev.String())
	cmd.Flags().BoolVar(&flags.Unverifiable, "unverifiable", false,
		"Flag keys whose remote value cannot be read")
	cmd.Flags().BoolVar(&flags.HideValues, "hide-values", false,
		"Show check marks instead of values")

	return cmd
}

// View is the machine-readable form of one environment's report.
type View struct {
	Env          string         `json:"env" yaml:"env"`
	InSync       bool           `json:"in_sync" yaml:"in_sync"`
	TotalKeys    int            `json:"total_keys" yaml:"total_keys"`
	Rows         []RowView      `json:"rows" yaml:"rows"`
	Failures     []string       `json:"failures,omitempty" yaml:"failures,omitempty"`
	Unverifiable map[string]int `json:"unverifiable,omitempty" yaml:"unverifiable,omitempty"`
}

// RowView is one flagged key.
type RowView struct {
	Key     string            `json:"key" yaml:"key"`
	Local   string            `json:"local" yaml:"local"`
	Targets map[string]string `json:"targets" yaml:"targets"`
	Issues  []string          `json:"issues" yaml:"issues"`
}

func run(cmd *cobra.Command, app application.Application, envs []config.Env, flags Flags) error {
	ctx := cmd.Context()
	format := output.DetectFormat(app.OutputFormat())
	out := cmd.OutOrStdout()
	w := alerts.ForCommand(cmd)

	views := make([]View, 0, len(envs))
	for _, env := range envs {
		client, err := app.Client(env)
		if err != nil {
			return err
		}
		report, err := client.Diff(ctx,
			differ.WithUnverifiable(flags.Unverifiable),
			differ.WithValues(!flags.HideValues),
		)
		if err != nil {
			return err
		}

		if !format.IsTable() {
			views = append(views, newView(env, report))
			continue
		}
		if len(envs) > 1 {
			_ = w.WriteAlert(alerts.Newf(alerts.LevelInfo, "%s (%s)", env, report.LocalName))
		}
		if err := printReport(out, w, format, report); err != nil {
			return err
		}
	}

	if format.IsTable() {
		return nil
	}
	if len(views) == 1 {
		return output.NewFormatter(format).Format(out, views[0])
	}
	return output.NewFormatter(format).Format(out, views)
}

func printReport(out io.Writer, w alerts.Writer, format output.Format, report *differ.Report) error {
	for _, failure := range report.Failures {
		_ = w.WriteAlert(alerts.NewError(failure))
	}

	switch {
	case report.InSync():
		_ = w.WriteAlert(alerts.NewSuccess(report.Summary()))
	case len(report.Rows) == 0:
		// Reachable targets agree; unavailable ones were not checked
		_ = w.WriteAlert(alerts.Newf(alerts.LevelWarning, "No drift on reachable targets (%d keys)", report.TotalKeys))
	default:
		_ = w.WriteAlert(alerts.Newf(alerts.LevelWarning, "%d keys out of sync", len(report.Rows)))
		table := output.Data{Headers: report.Headers(), Rows: report.Table()}
		if err := output.NewFormatter(format).Format(out, table); err != nil {
			return err
		}
	}

	for _, col := range report.Columns {
		if n := report.Unverifiable[col.ID]; n > 0 {
			_ = w.WriteAlert(alerts.Newf(alerts.LevelInfo,
				"%s: %d keys exist but their values cannot be verified", col.ID, n))
		}
	}
	return nil
}

func newView(env config.Env, report *differ.Report) View {
	v := View{
		Env:       env.String(),
		InSync:    report.InSync(),
		TotalKeys: report.TotalKeys,
		Rows:      make([]RowView, 0, len(report.Rows)),
		Failures:  report.Failures,
	}
	for _, row := range report.Rows {
		rv := RowView{
			Key:     row.Key,
			Local:   row.Local,
			Targets: make(map[string]string, len(row.Cells)),
			Issues:  row.Issues,
		}
		for _, cell := range row.Cells {
			rv.Targets[cell.Target.String()] = cell.Text
		}
		v.Rows = append(v.Rows, rv)
	}
	if len(report.Unverifiable) > 0 {
		v.Unverifiable = make(map[string]int, len(report.Unverifiable))
		for id, n := range report.Unverifiable {
			v.Unverifiable[id.String()] = n
		}
	}
	return v
}
