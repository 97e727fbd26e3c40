package envtool

import (
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// options holds the client configuration.
type options struct {
	env       string
	local     sources.Source
	targets   *sources.Sources
	checkDeps bool
}

// Option is a function that configures a Client.
type Option func(*options)

func defaults() *options {
	return &options{
		env:     "dev",
		targets: sources.NewSources(),
	}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithEnv names the logical environment, used for logging and results.
func WithEnv(env string) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithLocal sets the local source of truth.
func WithLocal(src sources.Source) Option {
	return func(o *options) {
		o.local = src
	}
}

// WithTargets adds remote targets. A later target with the same id replaces
// an earlier one.
func WithTargets(targets ...sources.Target) Option {
	return func(o *options) {
		for _, t := range targets {
			o.targets.Set(t)
		}
	}
}

// WithDependencyCheck verifies each target's CLI is on PATH before listing.
// A target with a missing CLI is treated as unavailable.
func WithDependencyCheck(enabled bool) Option {
	return func(o *options) {
		o.checkDeps = enabled
	}
}
