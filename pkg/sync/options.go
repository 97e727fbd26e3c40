// Package sync holds the options and result types of a sync run.
package sync

import (
	"time"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Options controls one sync run.
type Options struct {
	DryRun  bool          // Compute and report the plan without applying it
	Timeout time.Duration // Timeout for the entire run, zero for none

	// Targets restricts the run to these ids. Empty means all configured.
	Targets []sources.ID

	// NoRemove never applies removals, even for reachable targets.
	NoRemove bool
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	return nil
}

// Includes reports whether id is selected by Targets.
func (s *Options) Includes(id sources.ID) bool {
	if len(s.Targets) == 0 {
		return true
	}
	for _, t := range s.Targets {
		if t == id {
			return true
		}
	}
	return false
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithTargets restricts the run to the given targets.
func WithTargets(ids ...sources.ID) Option {
	return func(opts *Options) {
		opts.Targets = ids
	}
}

// WithNoRemove disables removals.
func WithNoRemove(noRemove bool) Option {
	return func(opts *Options) {
		opts.NoRemove = noRemove
	}
}
