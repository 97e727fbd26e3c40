package envtool

import (
	"github.com/spf13/afero"

	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/internal/sources/convex"
	"github.com/ethan-huo/env-tool/internal/sources/local"
	"github.com/ethan-huo/env-tool/internal/sources/wrangler"
	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/exclude"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// FromConfig builds the client options for env: the env's local file and
// one target per configured store.
func FromConfig(cfg *config.Config, env config.Env, runner transport.Runner, fs afero.Fs) ([]Option, error) {
	opts := []Option{
		WithEnv(env.String()),
		WithLocal(local.New(cfg.EnvFile(env), local.WithFs(fs))),
	}

	if cv := cfg.Sync.Convex; cv != nil {
		rules, err := exclude.Parse(cv.Exclude...)
		if err != nil {
			return nil, err
		}
		src := convex.New(runner,
			convex.WithCommand(cv.Command...),
			convex.WithProd(env == config.Prod),
		)
		opts = append(opts, WithTargets(sources.Target{Source: src, Exclude: rules}))
	}

	if w := cfg.Sync.Wrangler; w != nil {
		rules, err := exclude.Parse(w.Exclude...)
		if err != nil {
			return nil, err
		}
		src := wrangler.New(runner,
			wrangler.WithCommand(w.Command...),
			wrangler.WithConfig(w.Config),
			wrangler.WithEnv(w.WorkerEnv(env)),
			wrangler.WithFs(fs),
		)
		opts = append(opts, WithTargets(sources.Target{Source: src, Exclude: rules}))
	}

	return opts, nil
}
