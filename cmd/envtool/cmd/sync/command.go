// Package sync provides the command that regenerates types and pushes the
// local env file to every sync target, once or on every change.
package sync

import (
	"context"
	"strings"
	gosync "sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ethan-huo/env-tool/internal/cmd/alerts"
	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/cmd/globals"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/sources"
	pkgsync "github.com/ethan-huo/env-tool/pkg/sync"
	"github.com/ethan-huo/env-tool/pkg/typegen"
	"github.com/ethan-huo/env-tool/pkg/watcher"
)

// Flags holds the sync-specific flags.
type Flags struct {
	Watch     bool
	DryRun    bool
	NoRemove  bool
	NoTypegen bool
	Targets   []string
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		envFlags *globals.EnvFlags
		flags    Flags
	)

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "sync",
		Short:   "Generate types and push the local env file to sync targets",
		Args:    cobra.NoArgs,
		Long: `Sync makes every configured target match the local env file.

For each environment it first regenerates the typed env module (when typegen
is configured), then reconciles each target and applies the plan: additions
and updates first, removals last. A target that cannot be listed still gets
its writes but never has anything removed.

With --watch the sync reruns whenever an env file changes. Changes that
arrive during a run are collapsed into a single rerun.`,
		Example: `  envtool sync                      # Sync dev once
  envtool sync -e prod --dry-run    # Preview the prod plan
  envtool sync -e all --watch       # Keep both environments in sync
  envtool sync --target convex      # Only sync Convex`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envs, err := envFlags.Envs()
			if err != nil {
				return err
			}
			return run(cmd, app, envs, flags)
		},
	}

	envFlags = globals.AddEnvFlag(cmd, config.Dev.String())
	cmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "Watch env files and sync on change")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Preview the plan without applying it")
	cmd.Flags().BoolVar(&flags.NoRemove, "no-remove", false, "Never remove keys from targets")
	cmd.Flags().BoolVar(&flags.NoTypegen, "no-typegen", false, "Skip type generation")
	cmd.Flags().StringSliceVarP(&flags.Targets, "target", "t", nil, "Only sync these targets (convex, wrangler)")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, envs []config.Env, flags Flags) error {
	cfg, err := app.Config()
	if err != nil {
		return err
	}
	if !cfg.HasTargets() && (cfg.Typegen == nil || flags.NoTypegen) {
		return errors.NewConfigError("sync", "configure sync targets or typegen in "+app.ConfigPath(), nil)
	}

	opts, err := syncOptions(flags)
	if err != nil {
		return err
	}

	s := &syncer{
		app:   app,
		cfg:   cfg,
		flags: flags,
		opts:  opts,
		out:   alerts.ForCommand(cmd),
	}

	ctx := cmd.Context()
	if !flags.Watch {
		for _, env := range envs {
			if err := s.run(ctx, env); err != nil {
				return err
			}
		}
		return nil
	}
	return s.watch(ctx, envs)
}

func syncOptions(flags Flags) ([]pkgsync.Option, error) {
	opts := []pkgsync.Option{
		pkgsync.WithDryRun(flags.DryRun),
		pkgsync.WithNoRemove(flags.NoRemove),
	}
	if len(flags.Targets) == 0 {
		return opts, nil
	}

	ids := make([]sources.ID, 0, len(flags.Targets))
	for _, t := range flags.Targets {
		id := sources.ID(strings.ToLower(strings.TrimSpace(t)))
		if !id.IsRemote() {
			return nil, errors.NewValidationError("target", t, "must be convex or wrangler")
		}
		ids = append(ids, id)
	}
	return append(opts, pkgsync.WithTargets(ids...)), nil
}

// syncer runs typegen and target sync for one environment. In watch mode
// environments run concurrently; mu serializes the shared typegen output
// file and keeps each environment's summary together.
type syncer struct {
	app   application.Application
	cfg   *config.Config
	flags Flags
	opts  []pkgsync.Option
	out   alerts.Writer

	mu gosync.Mutex
}

func (s *syncer) run(ctx context.Context, env config.Env) error {
	client, err := s.app.Client(env)
	if err != nil {
		return err
	}

	if s.cfg.Typegen != nil && !s.flags.NoTypegen {
		snap, err := client.Local().List(ctx)
		if err != nil {
			return err
		}
		if err := s.typegen(snap.Values()); err != nil {
			return err
		}
	}

	if !s.cfg.HasTargets() {
		return nil
	}
	result, err := client.Sync(ctx, s.opts...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	printResult(s.out, env, result)
	return nil
}

// typegen writes the typed env module. With several environments the last
// one to run wins.
func (s *syncer) typegen(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tg := s.cfg.Typegen
	vars := typegen.Vars(values, tg.PublicPrefix)
	public, private := typegen.Count(vars)

	if s.flags.DryRun {
		return s.out.WriteAlert(alerts.Newf(alerts.LevelInfo,
			"[dry-run] would generate types to %s (%d public, %d private)", tg.Output, public, private))
	}
	if err := typegen.Write(s.app.Fs(), tg.Output, vars, tg.Schema); err != nil {
		return err
	}
	return s.out.WriteAlert(alerts.Newf(alerts.LevelSuccess,
		"Generated types: %s (%d public, %d private)", tg.Output, public, private))
}

// watch runs every environment once, then reruns an environment whenever
// its env file changes, until the context is cancelled.
func (s *syncer) watch(ctx context.Context, envs []config.Env) error {
	_ = s.out.WriteAlert(alerts.NewInfo("Starting watch mode..."))

	g, gctx := errgroup.WithContext(ctx)
	for _, env := range envs {
		path := s.cfg.EnvFile(env)
		_ = s.out.WriteAlert(alerts.Newf(alerts.LevelInfo, "watching: %s", path))

		w := watcher.New(
			func(ctx context.Context) error { return s.run(ctx, env) },
			watcher.WithOnDone(func(err error) {
				if err != nil {
					_ = s.out.WriteAlert(alerts.Newf(alerts.LevelError, "%s", env).WithError(err))
				}
				_ = s.out.WriteAlert(alerts.NewInfo("Waiting for changes..."))
			}),
		)
		w.Trigger(gctx)

		g.Go(func() error {
			return w.Watch(gctx, path)
		})
	}
	return g.Wait()
}
