package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/cmd/output"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/logging"
)

// Execute builds the command tree and runs it with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand builds the root command and registers every subcommand.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "envtool",
		Short:   "Keep env files in sync with Convex and Cloudflare Workers",
		Version: a.version,
		Long: `envtool treats a local env file as the source of truth and reconciles it
against remote configuration stores.

It reads the Convex deployment's environment (values visible) and the Worker's
secrets (names only), reports drift key by key, and pushes additions, updates
and removals. A target that cannot be listed never has anything deleted.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "env", Title: "Env File Commands:"},
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)

	// Flag values are read in setupCommand so unset flags leave the
	// environment-derived config alone.
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./"+defaultConfigName+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, wide")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("envtool {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand applies the root flags to the config and installs the
// logger before any subcommand runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	verbose, _ := f.GetBool("verbose")
	quiet, _ := f.GetBool("quiet")
	noColor, _ := f.GetBool("no-color")
	format, _ := f.GetString("format")
	logLevel, _ := f.GetString("log-level")
	configFile, _ := f.GetString("config")

	if _, err := output.ParseFormat(format); err != nil {
		return errors.WrapValidation("format", err)
	}
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel, configFile)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, a.logger))
	return nil
}

// ExitOnError prints err and exits with status 1. Nil is a no-op.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
