// Package initcmd provides the command that writes a starter configuration file.
package initcmd

import (
	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/alerts"
	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/config"
)

// NewCommand creates the init command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		GroupID: "setup",
		Short:   "Create a default " + config.DefaultPath,
		Args:    cobra.NoArgs,
		Long: `Init writes a configuration file with the default env files, a valibot
typegen target and both sync targets. An existing file is left alone unless
--force is given.`,
		Example: `  envtool init
  envtool init --force
  envtool init -c config/env.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := app.ConfigPath()
			if err := config.Write(app.Fs(), path, config.Default(), force); err != nil {
				return err
			}
			app.Logger().Debug().Str("path", path).Bool("force", force).Msg("Configuration written")
			return alerts.ForCommand(cmd).WriteAlert(
				alerts.Newf(alerts.LevelSuccess, "Created %s", path).
					WithDetails("Next: review the sync targets, then run 'envtool diff'"),
			)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}
