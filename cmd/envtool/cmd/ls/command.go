// Package ls provides the command that lists the local env files.
package ls

import (
	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/cmd/globals"
	"github.com/ethan-huo/env-tool/internal/cmd/output"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/pkg/differ"
)

// NewCommand creates the ls command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		envFlags *globals.EnvFlags
		reveal   bool
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		GroupID: "env",
		Short:   "List variables in the local env file",
		Args:    cobra.NoArgs,
		Long: `Ls lists every variable in the env file of the selected environment, sorted
by key. Values longer than 16 characters are shortened to their first and last
six characters unless --reveal or --format wide is given.`,
		Example: `  envtool ls
  envtool ls -e all
  envtool ls --reveal -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envs, err := envFlags.Envs()
			if err != nil {
				return err
			}
			return run(cmd, app, envs, reveal)
		},
	}

	envFlags = globals.AddEnvFlag(cmd, config.Dev.String())
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show full values")

	return cmd
}

// Entry is one variable of one environment.
type Entry struct {
	Env   string `json:"env" yaml:"env"`
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func run(cmd *cobra.Command, app application.Application, envs []config.Env, reveal bool) error {
	ctx := cmd.Context()
	format := output.DetectFormat(app.OutputFormat())
	full := reveal || format == output.FormatWide

	var entries []Entry
	for _, env := range envs {
		client, err := app.Client(env)
		if err != nil {
			return err
		}
		snap, err := client.Local().List(ctx)
		if err != nil {
			return err
		}
		for _, key := range snap.Keys() {
			value := snap.Value(key)
			if !full {
				value = differ.Elide(value)
			}
			entries = append(entries, Entry{Env: env.String(), Key: key, Value: value})
		}
	}

	table := output.Data{Headers: []string{"ENV", "KEY", "VALUE"}}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{e.Env, e.Key, e.Value})
	}
	if entries == nil {
		entries = []Entry{}
	}
	return output.Render(cmd.OutOrStdout(), format, entries, table)
}
