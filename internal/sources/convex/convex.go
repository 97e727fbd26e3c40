// Package convex adapts the Convex deployment environment store.
//
// The store reveals values, so reconciliation against it is exact. Writes
// are one `env set` call per key.
package convex

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/exclude"
	"github.com/ethan-huo/env-tool/pkg/logging"
	"github.com/ethan-huo/env-tool/pkg/snapshot"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// DefaultCommand is the CLI used when none is configured.
var DefaultCommand = []string{"convex"}

// Reserved is the store's own namespace.
var Reserved = exclude.MustParse("CONVEX_*")

var listLine = regexp.MustCompile(`^([A-Z_][A-Z0-9_]*)=(.*)$`)

// Source talks to one Convex deployment.
type Source struct {
	runner  transport.Runner
	command []string
	prod    bool
}

// Option configures a Convex source.
type Option func(*Source)

// WithCommand overrides the CLI prefix, for example ["npx", "convex"].
func WithCommand(command ...string) Option {
	return func(s *Source) {
		if len(command) > 0 {
			s.command = command
		}
	}
}

// WithProd targets the production deployment.
func WithProd(prod bool) Option {
	return func(s *Source) {
		s.prod = prod
	}
}

// New creates a Convex source.
func New(runner transport.Runner, opts ...Option) *Source {
	s := &Source{runner: runner, command: DefaultCommand}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.ConvexID }

// Capabilities implements sources.Source.
func (s *Source) Capabilities() sources.Capabilities {
	return sources.Capabilities{ValuesVisible: true}
}

// Reserved implements sources.Source.
func (s *Source) Reserved() exclude.Rules { return Reserved }

// Dependencies implements sources.Source.
func (s *Source) Dependencies() []sources.Dependency {
	return []sources.Dependency{{
		Name:          "convex",
		DisplayName:   "Convex CLI",
		CheckCommands: []string{s.command[0]},
		InstallURL:    "https://docs.convex.dev/cli",
		Description:   "Reads and writes deployment environment variables",
	}}
}

// List runs `env list`. On failure it returns an empty snapshot and a
// *errors.RemoteUnavailableError.
func (s *Source) List(ctx context.Context) (*snapshot.Snapshot, error) {
	cmd := s.cmd("env", "list")
	res, err := s.runner.Run(ctx, cmd)
	if err := transport.Check("list", cmd, res, err); err != nil {
		return snapshot.Empty(), errors.WrapRemote(s.ID().String(), err)
	}
	return snapshot.New(parseList(res.Stdout)), nil
}

// SetMany runs `env set` for each key in sorted order. Failed keys are
// collected into a *errors.PartialWriteError.
func (s *Source) SetMany(ctx context.Context, values map[string]string) error {
	var (
		merr   *multierror.Error
		failed []string
	)
	for _, key := range snapshot.New(values).Keys() {
		cmd := s.cmd("env", "set", key, values[key])
		cmd.Redact = []int{len(s.command[1:]) + 3}
		res, err := s.runner.Run(ctx, cmd)
		if err := transport.Check("set", cmd, res, err); err != nil {
			logging.FromContext(ctx).Warn().Str("key", key).Err(err).Msg("convex env set failed")
			failed = append(failed, key)
			merr = multierror.Append(merr, err)
		}
	}
	if len(failed) > 0 {
		return errors.NewPartialWriteError(s.ID().String(), failed, merr.ErrorOrNil())
	}
	return nil
}

// Remove runs `env remove`. A "not found" response counts as success.
func (s *Source) Remove(ctx context.Context, key string) error {
	cmd := s.cmd("env", "remove", key)
	res, err := s.runner.Run(ctx, cmd)
	if err == nil && !res.Success() && isNotFound(res.Output()) {
		return nil
	}
	return transport.Check("remove", cmd, res, err)
}

func (s *Source) cmd(args ...string) transport.Command {
	full := append(slices.Clone(s.command[1:]), args...)
	if s.prod {
		full = append(full, "--prod")
	}
	return transport.Command{Name: s.command[0], Args: full}
}

func parseList(out []byte) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := listLine.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if m != nil {
			values[m[1]] = m[2]
		}
	}
	return values
}

func isNotFound(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "does not exist")
}
