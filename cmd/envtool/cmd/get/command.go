// Package get provides the command that prints one variable from the local env files.
package get

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/cmd/globals"
	"github.com/ethan-huo/env-tool/internal/cmd/output"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/pkg/errors"
)

// NotSet is shown in place of a value the env file does not define.
const NotSet = "(not set)"

// NewCommand creates the get command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var envFlags *globals.EnvFlags

	cmd := &cobra.Command{
		Use:     "get <key>",
		GroupID: "env",
		Short:   "Print a variable from the local env file",
		Args:    cobra.ExactArgs(1),
		Long: `Get prints the value of one variable from the env file of the selected
environment. With --env all it prints a table with one row per environment.

Asking for a variable that a single environment does not define is an error.`,
		Example: `  envtool get DATABASE_URL             # Value from the dev file
  envtool get DATABASE_URL -e prod     # Value from the prod file
  envtool get DATABASE_URL -e all      # Compare dev and prod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			envs, err := envFlags.Envs()
			if err != nil {
				return err
			}
			return run(cmd, app, args[0], envs, envFlags.Env == config.All)
		},
	}

	envFlags = globals.AddEnvFlag(cmd, config.Dev.String())

	return cmd
}

// Row is one environment's value of the key.
type Row struct {
	Env   string `json:"env" yaml:"env"`
	Value string `json:"value" yaml:"value"`
	Set   bool   `json:"set" yaml:"set"`
}

func run(cmd *cobra.Command, app application.Application, key string, envs []config.Env, all bool) error {
	ctx := cmd.Context()
	logger := app.Logger()

	rows := make([]Row, 0, len(envs))
	for _, env := range envs {
		client, err := app.Client(env)
		if err != nil {
			return err
		}
		snap, err := client.Local().List(ctx)
		if err != nil {
			if !all {
				return err
			}
			// A missing prod file should not hide the dev value
			logger.Warn().Err(err).Str("env", env.String()).Msg("Cannot read env file")
			rows = append(rows, Row{Env: env.String(), Value: NotSet})
			continue
		}
		if e, ok := snap.Get(key); ok {
			rows = append(rows, Row{Env: env.String(), Value: e.Value, Set: true})
		} else {
			rows = append(rows, Row{Env: env.String(), Value: NotSet})
		}
	}

	format := output.DetectFormat(app.OutputFormat())
	w := cmd.OutOrStdout()

	if !all {
		row := rows[0]
		if !row.Set {
			return errors.NewNotFoundError("variable", key)
		}
		if format.IsTable() {
			_, err := fmt.Fprintln(w, row.Value)
			return err
		}
		return output.NewFormatter(format).Format(w, row)
	}

	table := output.Data{Headers: []string{"ENV", "VALUE"}}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{row.Env, row.Value})
	}
	return output.Render(w, format, rows, table)
}
