package app

import (
	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/cmd/envtool/cmd/deps"
	"github.com/ethan-huo/env-tool/cmd/envtool/cmd/diff"
	"github.com/ethan-huo/env-tool/cmd/envtool/cmd/get"
	"github.com/ethan-huo/env-tool/cmd/envtool/cmd/initcmd"
	"github.com/ethan-huo/env-tool/cmd/envtool/cmd/ls"
	"github.com/ethan-huo/env-tool/cmd/envtool/cmd/rm"
	"github.com/ethan-huo/env-tool/cmd/envtool/cmd/set"
	synccmd "github.com/ethan-huo/env-tool/cmd/envtool/cmd/sync"
	"github.com/ethan-huo/env-tool/internal/config"
)

const defaultConfigName = config.DefaultPath

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Env file commands
	rootCmd.AddCommand(get.NewCommand(a))
	rootCmd.AddCommand(set.NewCommand(a))
	rootCmd.AddCommand(rm.NewCommand(a))
	rootCmd.AddCommand(ls.NewCommand(a))

	// Sync commands
	rootCmd.AddCommand(diff.NewCommand(a))
	rootCmd.AddCommand(synccmd.NewCommand(a))

	// Setup commands
	rootCmd.AddCommand(initcmd.NewCommand(a))
	rootCmd.AddCommand(deps.NewCommand(a))

	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("envtool %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
