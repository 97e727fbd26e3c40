// Package deps provides the command that checks the external CLIs each sync
// target shells out to.
package deps

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/alerts"
	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/cmd/output"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/internal/deps"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// NewCommand creates the deps command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "deps",
		GroupID: "setup",
		Short:   "Check the CLIs used by sync targets",
		Args:    cobra.NoArgs,
		Long: `Deps verifies that the external tools each configured sync target runs
(the Convex CLI, Wrangler) are installed and on PATH. A target whose CLI is
missing is treated as unavailable by diff and sync.`,
		Example: `  envtool deps
  envtool deps -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}
}

// Status is one dependency of one target.
type Status struct {
	Target     string `json:"target" yaml:"target"`
	Dependency string `json:"dependency" yaml:"dependency"`
	Status     string `json:"status" yaml:"status"`
	Path       string `json:"path" yaml:"path"`
	Install    string `json:"install" yaml:"install"`
}

func run(cmd *cobra.Command, app application.Application) error {
	client, err := app.Client(config.Dev)
	if err != nil {
		return err
	}

	statuses, missing := collect(cmd.Context(), client.Targets())
	w := alerts.ForCommand(cmd)
	if len(statuses) == 0 {
		return w.WriteAlert(alerts.NewInfo("No sync targets configured"))
	}

	format := output.DetectFormat(app.OutputFormat())
	if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), statuses); err != nil {
		return err
	}

	if len(missing) > 0 {
		for _, t := range client.Targets() {
			m, _ := deps.Missing(cmd.Context(), t.Source)
			deps.Summarize(cmd.ErrOrStderr(), t.ID().String(), m)
		}
		return &errors.ValidationError{
			Field:   "dependencies",
			Message: "missing: " + strings.Join(missing, ", "),
		}
	}
	if format.IsTable() {
		return w.WriteAlert(alerts.NewSuccess("All dependencies are installed"))
	}
	return nil
}

// collect checks every dependency of every target, in target order.
func collect(ctx context.Context, targets []sources.Target) ([]Status, []string) {
	var (
		statuses []Status
		missing  []string
	)
	for _, t := range targets {
		results := deps.CheckAll(ctx, t.Source)
		for _, dep := range t.Source.Dependencies() {
			res := results[dep.Name]
			s := Status{
				Target:     t.ID().String(),
				Dependency: dep.DisplayName,
				Status:     "installed",
				Path:       res.Path,
				Install:    dep.InstallURL,
			}
			if !res.Available {
				s.Status = "missing"
				missing = append(missing, dep.DisplayName)
			}
			statuses = append(statuses, s)
		}
	}
	return statuses, missing
}
