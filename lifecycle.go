package envtool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ethan-huo/env-tool/internal/deps"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/logging"
	"github.com/ethan-huo/env-tool/pkg/reconciler"
	"github.com/ethan-huo/env-tool/pkg/snapshot"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Fetcher reads the local file and every remote target.
type Fetcher interface {
	// Snapshots reads the local file and lists every target concurrently.
	// A local failure is returned as is; target failures are recorded on
	// the target's Remote.
	Snapshots(ctx context.Context) (*Snapshots, error)

	// Reconcile classifies every key per target.
	Reconcile(ctx context.Context) (*reconciler.Result, error)
}

// Snapshots is the state of every source at one point in time.
type Snapshots struct {
	Local   *snapshot.Snapshot
	Remotes []reconciler.Remote
}

// Snapshots implements Fetcher.
func (c *client) Snapshots(ctx context.Context) (*Snapshots, error) {
	return c.fetch(ctx, c.Targets())
}

// Reconcile implements Fetcher.
func (c *client) Reconcile(ctx context.Context) (*reconciler.Result, error) {
	return c.reconcile(ctx, c.Targets())
}

func (c *client) reconcile(ctx context.Context, targets []sources.Target) (*reconciler.Result, error) {
	snaps, err := c.fetch(ctx, targets)
	if err != nil {
		return nil, err
	}
	return reconciler.Reconcile(snaps.Local, snaps.Remotes...), nil
}

// fetch lists the local source and all targets concurrently. Target
// goroutines never fail the group, so one unreachable store cannot cancel
// the others.
func (c *client) fetch(ctx context.Context, targets []sources.Target) (*Snapshots, error) {
	logger := logging.FromContext(ctx)
	snaps := &Snapshots{Remotes: make([]reconciler.Remote, len(targets))}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		local, err := c.options.local.List(gctx)
		if err != nil {
			return err
		}
		snaps.Local = local
		return nil
	})

	for i, t := range targets {
		g.Go(func() error {
			snaps.Remotes[i] = c.list(gctx, t)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Local source unreadable")
		return nil, err
	}

	logger.Debug().
		Int("local_keys", snaps.Local.Len()).
		Int("targets", len(targets)).
		Msg("Fetched snapshots")
	return snaps, nil
}

// list fetches one target. Failures degrade to an empty snapshot with Err set.
func (c *client) list(ctx context.Context, t sources.Target) reconciler.Remote {
	id := t.ID()
	ctx = logging.WithTarget(ctx, id.String())
	logger := logging.FromContext(ctx)

	remote := reconciler.Remote{
		ID:            id,
		ValuesVisible: t.Source.Capabilities().ValuesVisible,
		Rules:         t.Rules(),
		Snapshot:      snapshot.Empty(),
	}

	if c.options.checkDeps {
		if missing, err := deps.Missing(ctx, t.Source); len(missing) > 0 {
			logger.Warn().Err(err).Msg("Target CLI not installed, treating as unavailable")
			remote.Err = errors.WrapRemote(id.String(), err)
			return remote
		}
	}

	logger.Debug().Msg("Listing")
	snap, err := t.Source.List(ctx)
	if err != nil {
		if !errors.IsRemoteUnavailable(err) {
			err = errors.WrapRemote(id.String(), err)
		}
		logger.Warn().Err(err).Msg("Target unavailable")
		remote.Err = err
		return remote
	}
	if snap != nil {
		remote.Snapshot = snap
	}

	logger.Debug().Int("keys", remote.Snapshot.Len()).Msg("Listed")
	return remote
}
