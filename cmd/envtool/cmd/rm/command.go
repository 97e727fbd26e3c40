// Package rm provides the command that deletes a variable from the local env files.
package rm

import (
	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/alerts"
	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/cmd/globals"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/pkg/errors"
)

// NewCommand creates the rm command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var envFlags *globals.EnvFlags

	cmd := &cobra.Command{
		Use:     "rm <key>",
		Aliases: []string{"remove", "unset"},
		GroupID: "env",
		Short:   "Delete a variable from the local env file",
		Args:    cobra.ExactArgs(1),
		Long: `Rm deletes every assignment of a variable from the env file of the selected
environment. The next 'envtool sync' removes it from reachable targets.`,
		Example: `  envtool rm OLD_TOKEN
  envtool rm OLD_TOKEN -e all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			envs, err := envFlags.Envs()
			if err != nil {
				return err
			}
			return run(cmd, app, args[0], envs)
		},
	}

	envFlags = globals.AddEnvFlag(cmd, config.Dev.String())

	return cmd
}

func run(cmd *cobra.Command, app application.Application, key string, envs []config.Env) error {
	ctx := cmd.Context()
	w := alerts.ForCommand(cmd)

	for _, env := range envs {
		client, err := app.Client(env)
		if err != nil {
			return err
		}
		local := client.Local()

		snap, err := local.List(ctx)
		switch {
		case errors.IsNotFound(err):
			_ = w.WriteAlert(alerts.Newf(alerts.LevelWarning, "%s: %s is not set", env, key))
			continue
		case err != nil:
			return err
		case !snap.Has(key):
			_ = w.WriteAlert(alerts.Newf(alerts.LevelWarning, "%s: %s is not set", env, key))
			continue
		}

		if err := local.Remove(ctx, key); err != nil {
			_ = w.WriteAlert(alerts.Newf(alerts.LevelError, "%s: %s", env, key).WithError(err))
			return err
		}
		if err := w.WriteAlert(alerts.Newf(alerts.LevelSuccess, "%s: removed %s", env, key)); err != nil {
			return err
		}
	}
	return nil
}
