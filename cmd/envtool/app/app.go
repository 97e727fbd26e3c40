// Package app provides the application context and dependency management
// for the envtool CLI. It centralizes configuration, logging and the
// per-environment clients so commands only depend on application.Application.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	envtool "github.com/ethan-huo/env-tool"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// App represents the envtool application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// CLI configuration (flags, env vars)
	config *Config

	logger *zerolog.Logger
	fs     afero.Fs
	runner transport.Runner

	// Tool configuration and clients, lazy-initialized
	mu      sync.RWMutex
	tool    *config.Config
	clients map[config.Env]envtool.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		fs:      afero.NewOsFs(),
		clients: make(map[config.Env]envtool.Client),
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "load CLI configuration", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Settings returns the CLI configuration.
func (a *App) Settings() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Fs returns the filesystem the app reads and writes.
func (a *App) Fs() afero.Fs {
	return a.fs
}

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ConfigPath returns the --config value, or the default path.
func (a *App) ConfigPath() string {
	if a.config.ConfigFile != "" {
		return a.config.ConfigFile
	}
	return config.DefaultPath
}

// Config returns the tool configuration, loading it once.
func (a *App) Config() (*config.Config, error) {
	a.mu.RLock()
	if a.tool != nil {
		cfg := a.tool
		a.mu.RUnlock()
		return cfg, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadLocked()
}

func (a *App) loadLocked() (*config.Config, error) {
	if a.tool != nil {
		return a.tool, nil
	}
	cfg, err := config.Load(a.config.ConfigFile, config.WithFs(a.fs))
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("path", a.ConfigPath()).
		Bool("convex", cfg.Sync.Convex != nil).
		Bool("wrangler", cfg.Sync.Wrangler != nil).
		Msg("Loaded configuration")
	a.tool = cfg
	return cfg, nil
}

// Client returns the client for env, creating it on first use.
func (a *App) Client(env config.Env) (envtool.Client, error) {
	a.mu.RLock()
	if c, ok := a.clients[env]; ok {
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.clients[env]; ok {
		return c, nil
	}

	cfg, err := a.loadLocked()
	if err != nil {
		return nil, err
	}

	runner := a.runner
	if runner == nil {
		runner = transport.New(transport.WithTimeout(cfg.Timeout()))
	}

	opts, err := envtool.FromConfig(cfg, env, runner, a.fs)
	if err != nil {
		return nil, err
	}
	opts = append(opts, envtool.WithDependencyCheck(a.runner == nil))

	c, err := envtool.New(opts...)
	if err != nil {
		return nil, err
	}

	logger := a.logger.With().Str("env", env.String()).Logger()
	c.OnKeyWritten(func(target sources.ID, key string) {
		logger.Debug().Str("target", target.String()).Str("key", key).Msg("Key written")
	})
	c.OnKeyRemoved(func(target sources.ID, key string) {
		logger.Debug().Str("target", target.String()).Str("key", key).Msg("Key removed")
	})

	a.clients[env] = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clients = make(map[config.Env]envtool.Client)
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom CLI configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithFs sets the filesystem (useful for testing).
func WithFs(fs afero.Fs) Option {
	return func(a *App) error {
		a.fs = fs
		return nil
	}
}

// WithRunner sets the command runner used by every target. Dependency
// checks are skipped when a runner is injected.
func WithRunner(runner transport.Runner) Option {
	return func(a *App) error {
		a.runner = runner
		return nil
	}
}
