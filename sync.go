package envtool

import (
	"context"
	stderrors "errors"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/logging"
	"github.com/ethan-huo/env-tool/pkg/reconciler"
	"github.com/ethan-huo/env-tool/pkg/sources"
	pkgsync "github.com/ethan-huo/env-tool/pkg/sync"
)

// Syncer applies mutation plans.
type Syncer interface {
	// Sync makes every selected target match the local file.
	Sync(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error)
}

// Sync implements Syncer. Only a local failure or invalid options return an
// error; target failures are reported on the result.
func (c *client) Sync(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error) {
	options := pkgsync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}
	ctx = logging.WithOperation(logging.WithEnv(ctx, c.options.env), "sync")
	logger := logging.FromContext(ctx)

	targets := c.filterTargets(options)
	reconciled, err := c.reconcile(ctx, targets)
	if err != nil {
		return nil, err
	}

	result := &pkgsync.Result{Env: c.options.env, DryRun: options.DryRun}
	for i, tr := range reconciled.Targets {
		plan := tr.Plan(reconciled.Local)
		out := newTargetResult(tr, plan)

		if options.NoRemove && len(plan.Remove) > 0 {
			out.SkippedRemovals = append(out.SkippedRemovals, plan.Remove...)
			out.Removed = nil
			plan.Remove = nil
		}

		if len(out.SkippedRemovals) > 0 {
			logger.Warn().
				Str("target", tr.ID.String()).
				Strs("keys", out.SkippedRemovals).
				Msg("Removals skipped")
		}

		if !options.DryRun && !plan.Empty() {
			c.apply(ctx, targets[i].Source, plan, out)
		}
		result.Targets = append(result.Targets, out)
	}

	if options.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Dry run completed - no changes applied")
	} else {
		logger.Info().Str("summary", result.Summary()).Msg("Sync completed")
	}
	return result, nil
}

// filterTargets returns the configured targets selected by options.
func (c *client) filterTargets(options *pkgsync.Options) []sources.Target {
	all := c.Targets()
	filtered := make([]sources.Target, 0, len(all))
	for _, t := range all {
		if options.Includes(t.ID()) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func newTargetResult(tr *reconciler.TargetResult, plan *reconciler.Plan) *pkgsync.TargetResult {
	out := &pkgsync.TargetResult{
		Target:          tr.ID,
		Err:             tr.Err,
		Removed:         plan.Remove,
		SkippedRemovals: plan.SkippedRemovals,
	}
	for _, m := range plan.Add {
		out.Added = append(out.Added, m.Key)
	}
	for _, m := range plan.Update {
		out.Updated = append(out.Updated, m.Key)
	}
	return out
}

// apply writes before it removes. Failures are recorded on out and never
// stop the remaining mutations.
func (c *client) apply(ctx context.Context, src sources.Source, plan *reconciler.Plan, out *pkgsync.TargetResult) {
	ctx = logging.WithTarget(ctx, src.ID().String())
	logger := logging.FromContext(ctx)

	if writes := plan.Writes(); len(writes) > 0 {
		failed := make(map[string]bool)
		if err := src.SetMany(ctx, writes); err != nil {
			var partial *errors.PartialWriteError
			if stderrors.As(err, &partial) {
				for _, key := range partial.Keys {
					failed[key] = true
				}
			} else {
				for key := range writes {
					failed[key] = true
				}
			}
			logger.Warn().Err(err).Msg("Write failures")
			out.Errors = append(out.Errors, err)
		}

		for _, key := range plan.WriteKeys() {
			if failed[key] {
				out.FailedWrites = append(out.FailedWrites, key)
				continue
			}
			c.hooks.keyWritten(src.ID(), key)
		}
	}

	for _, key := range plan.Remove {
		if err := src.Remove(ctx, key); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Remove failed")
			out.FailedRemovals = append(out.FailedRemovals, key)
			out.Errors = append(out.Errors, err)
			continue
		}
		c.hooks.keyRemoved(src.ID(), key)
	}
}
