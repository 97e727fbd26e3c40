// Package set provides the command that writes a variable to the local env files.
package set

import (
	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/alerts"
	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/cmd/globals"
	"github.com/ethan-huo/env-tool/internal/config"
)

// displayLimit is the longest value echoed back in full.
const displayLimit = 30

// NewCommand creates the set command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var envFlags *globals.EnvFlags

	cmd := &cobra.Command{
		Use:     "set <key> <value>",
		GroupID: "env",
		Short:   "Write a variable to the local env file",
		Args:    cobra.ExactArgs(2),
		Long: `Set upserts one variable in the env file of the selected environment.
Existing comments and line order are kept; a new key is appended and a
missing file is created. Remote targets are not touched until 'envtool sync'.`,
		Example: `  envtool set API_URL https://api.example.com
  envtool set API_URL https://api.example.com -e prod
  envtool set FEATURE_FLAG on -e all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			envs, err := envFlags.Envs()
			if err != nil {
				return err
			}
			return run(cmd, app, args[0], args[1], envs)
		},
	}

	envFlags = globals.AddEnvFlag(cmd, config.Dev.String())

	return cmd
}

func run(cmd *cobra.Command, app application.Application, key, value string, envs []config.Env) error {
	ctx := cmd.Context()
	w := alerts.ForCommand(cmd)

	for _, env := range envs {
		client, err := app.Client(env)
		if err != nil {
			return err
		}
		if err := client.Local().SetMany(ctx, map[string]string{key: value}); err != nil {
			_ = w.WriteAlert(alerts.Newf(alerts.LevelError, "%s: %s", env, key).WithError(err))
			return err
		}
		app.Logger().Debug().Str("env", env.String()).Str("key", key).Msg("Variable written")
		if err := w.WriteAlert(alerts.Newf(alerts.LevelSuccess, "%s: %s=%s", env, key, display(value))); err != nil {
			return err
		}
	}
	return nil
}

// display truncates long values for the confirmation line.
func display(value string) string {
	r := []rune(value)
	if len(r) <= displayLimit {
		return value
	}
	return string(r[:displayLimit-3]) + "..."
}
