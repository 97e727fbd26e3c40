// Package application provides the application interface for env-tool commands.
//
// Commands accept an Application rather than the concrete app type so they
// can be tested against a Mock backed by an in-memory filesystem and a fake
// command runner.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client(config.Dev)
//	            if err != nil {
//	                return err
//	            }
//	            report, err := client.Diff(cmd.Context())
//	            // ...
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	envtool "github.com/ethan-huo/env-tool"
	"github.com/ethan-huo/env-tool/internal/config"
)

// Application provides the application interface that commands need.
// All methods must be safe for concurrent access.
type Application interface {
	// Config returns the tool configuration, loading it on first use.
	Config() (*config.Config, error)

	// ConfigPath returns the configuration file path commands read and write.
	ConfigPath() string

	// Client returns a reconciliation client for one environment.
	Client(env config.Env) (envtool.Client, error)

	// Fs returns the filesystem env files and generated code live on.
	Fs() afero.Fs

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
