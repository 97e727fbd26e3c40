// Package envtool reconciles a local env file against remote configuration
// stores. It fetches every snapshot, classifies each key per target and
// either reports the drift or applies the mutation plan.
//
// Example usage:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := envtool.FromConfig(cfg, config.Dev, transport.New(), afero.NewOsFs())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := envtool.New(opts...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Report drift
//	report, err := client.Diff(ctx)
//
//	// Make every target match the local file
//	result, err := client.Sync(ctx, sync.WithDryRun(false))
//	fmt.Println(result.Summary())
package envtool

import (
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Compile-time interface checks to ensure proper implementation.
var (
	_ Fetcher = (*client)(nil)
	_ Differ  = (*client)(nil)
	_ Syncer  = (*client)(nil)
	_ Hooks   = (*client)(nil)
	_ Client  = (*client)(nil)
)

// Client reconciles one local env file against its targets.
type Client interface {

	// Fetcher reads the local file and every target
	Fetcher

	// Differ reports drift without changing anything
	Differ

	// Syncer applies the mutation plans
	Syncer

	// Hooks provides access to event callback registration
	Hooks

	// Env returns the logical environment the client was built for
	Env() string

	// Local returns the local source
	Local() sources.Source

	// Targets returns the configured remote targets in reporting order
	Targets() []sources.Target
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	hooks   *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o := defaults().apply(opts...)
	if o.local == nil {
		return nil, errors.NewConfigError("envtool", "a local source is required", nil)
	}
	return &client{
		options: o,
		hooks:   newHooks(),
	}, nil
}

// Env implements Client.
func (c *client) Env() string {
	return c.options.env
}

// Local implements Client.
func (c *client) Local() sources.Source {
	return c.options.local
}

// Targets implements Client.
func (c *client) Targets() []sources.Target {
	return c.options.targets.List()
}
