// Package wrangler adapts the Cloudflare Workers secret store.
//
// Secrets are write-only: `secret list` returns names but never values, so
// the reconciler can only confirm existence. Writes go through a single
// `secret bulk` upload of a temporary JSON file.
package wrangler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/exclude"
	"github.com/ethan-huo/env-tool/pkg/logging"
	"github.com/ethan-huo/env-tool/pkg/snapshot"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// DefaultCommand is the CLI used when none is configured.
var DefaultCommand = []string{"bunx", "wrangler"}

// DefaultConfig is the wrangler config file looked up when none is set.
const DefaultConfig = "./wrangler.jsonc"

// Source talks to one worker's secret store.
type Source struct {
	runner  transport.Runner
	fs      afero.Fs
	command []string
	config  string
	env     string
	tempDir string
}

// Option configures a wrangler source.
type Option func(*Source)

// WithCommand overrides the CLI prefix.
func WithCommand(command ...string) Option {
	return func(s *Source) {
		if len(command) > 0 {
			s.command = command
		}
	}
}

// WithConfig sets the wrangler config path. Commands run in its directory.
func WithConfig(path string) Option {
	return func(s *Source) {
		if path != "" {
			s.config = path
		}
	}
}

// WithEnv sets the wrangler environment passed as --env. Empty means the
// top-level worker.
func WithEnv(env string) Option {
	return func(s *Source) {
		s.env = env
	}
}

// WithFs sets the filesystem used for the bulk upload file.
func WithFs(fs afero.Fs) Option {
	return func(s *Source) {
		s.fs = fs
	}
}

// WithTempDir sets where bulk upload files are written.
func WithTempDir(dir string) Option {
	return func(s *Source) {
		s.tempDir = dir
	}
}

// New creates a wrangler source.
func New(runner transport.Runner, opts ...Option) *Source {
	s := &Source{
		runner:  runner,
		fs:      afero.NewOsFs(),
		command: DefaultCommand,
		config:  DefaultConfig,
		tempDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.WranglerID }

// Capabilities implements sources.Source.
func (s *Source) Capabilities() sources.Capabilities {
	return sources.Capabilities{ValuesVisible: false, BulkWrite: true}
}

// Reserved implements sources.Source.
func (s *Source) Reserved() exclude.Rules { return nil }

// Dependencies implements sources.Source.
func (s *Source) Dependencies() []sources.Dependency {
	return []sources.Dependency{{
		Name:          "wrangler",
		DisplayName:   "Wrangler",
		CheckCommands: []string{s.command[0]},
		InstallURL:    "https://developers.cloudflare.com/workers/wrangler/install-and-update/",
		Description:   "Manages Cloudflare Workers secrets",
	}}
}

// List runs `secret list --format json` and keeps only the names.
func (s *Source) List(ctx context.Context) (*snapshot.Snapshot, error) {
	cmd := s.cmd("secret", "list", "--format", "json")
	res, err := s.runner.Run(ctx, cmd)
	if err := transport.Check("list", cmd, res, err); err != nil {
		return snapshot.Empty(), errors.WrapRemote(s.ID().String(), err)
	}

	names, err := parseNames(res.Stdout)
	if err != nil {
		return snapshot.Empty(), errors.WrapRemote(s.ID().String(), err)
	}
	return snapshot.FromKeys(names), nil
}

// SetMany uploads every pair in one `secret bulk` call. The temporary file
// holds plaintext secrets and is removed whether or not the upload works.
func (s *Source) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	data, err := json.Marshal(values)
	if err != nil {
		return errors.WrapParse("json", "bulk upload", err)
	}

	path := filepath.Join(s.tempDir, "envtool-secrets-"+uuid.NewString()+".json")
	if err := afero.WriteFile(s.fs, path, data, 0o600); err != nil {
		return errors.WrapIO("write", path, err)
	}
	defer func() {
		if err := s.fs.Remove(path); err != nil {
			logging.FromContext(ctx).Warn().Str("path", path).Err(err).Msg("failed to remove bulk upload file")
		}
	}()

	cmd := s.cmd("secret", "bulk", path)
	res, err := s.runner.Run(ctx, cmd)
	if err := transport.Check("bulk", cmd, res, err); err != nil {
		return errors.NewPartialWriteError(s.ID().String(), snapshot.New(values).Keys(), err)
	}
	return nil
}

// Remove runs `secret delete --force`. A "not found" response counts as success.
func (s *Source) Remove(ctx context.Context, key string) error {
	cmd := s.cmd("secret", "delete", key, "--force")
	res, err := s.runner.Run(ctx, cmd)
	if err == nil && !res.Success() && isNotFound(res.Output()) {
		return nil
	}
	return transport.Check("delete", cmd, res, err)
}

func (s *Source) cmd(args ...string) transport.Command {
	full := append(slices.Clone(s.command[1:]), args...)
	if s.env != "" {
		full = append(full, "--env", s.env)
	}
	return transport.Command{Name: s.command[0], Args: full, Dir: s.dir()}
}

func (s *Source) dir() string {
	dir := filepath.Dir(s.config)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// parseNames extracts the name of every secret from the JSON array wrangler
// prints. Any leading banner text before the array is skipped.
func parseNames(out []byte) ([]string, error) {
	text := string(out)
	if i := strings.Index(text, "["); i > 0 {
		text = text[i:]
	}
	if !gjson.Valid(text) {
		return nil, errors.NewParseError("json", "secret list", "output is not valid JSON", nil)
	}
	parsed := gjson.Parse(text)
	if !parsed.IsArray() {
		return nil, errors.NewParseError("json", "secret list", "expected a JSON array", nil)
	}

	var names []string
	for _, name := range parsed.Get("#.name").Array() {
		if n := name.String(); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

func isNotFound(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "does not exist")
}
