package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-huo/env-tool/cmd/envtool/app"
	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/errors"
)

// project is a temp directory holding a config file and env files on the
// real filesystem, driven through the CLI with a scripted runner.
type project struct {
	dir    string
	config string
	fake   *transport.Fake
}

func newProject(t *testing.T) *project {
	t.Helper()
	dir := t.TempDir()
	p := &project{dir: dir, config: filepath.Join(dir, "env.config.yaml"), fake: transport.NewFake()}

	cfg := strings.Join([]string{
		"envFiles:",
		"  dev: " + p.path(".env.development"),
		"  prod: " + p.path(".env.production"),
		"typegen:",
		"  output: " + p.path("src/lib/env.ts"),
		"  schema: zod",
		"sync:",
		"  convex: {}",
		"  wrangler:",
		"    config: " + p.path("wrangler.jsonc"),
		"    exclude: [\"VITE_*\"]",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(p.config, []byte(cfg), 0o644))
	return p
}

func (p *project) path(name string) string {
	return filepath.Join(p.dir, name)
}

func (p *project) run(t *testing.T, args ...string) error {
	t.Helper()
	logger := zerolog.Nop()
	a, err := app.New("test", "none", "unknown", "test",
		app.WithLogger(&logger),
		app.WithRunner(p.fake),
	)
	require.NoError(t, err)
	return a.Execute(context.Background(), append([]string{"--config", p.config, "--log-level", "error"}, args...))
}

func (p *project) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(p.path(name))
	require.NoError(t, err)
	return string(data)
}

func TestSetSyncRemoveCycle(t *testing.T) {
	p := newProject(t)
	p.fake.
		On("convex env list", transport.FakeResponse{Stdout: ""}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[]`})

	require.NoError(t, p.run(t, "set", "API_KEY", "secret"))
	require.NoError(t, p.run(t, "set", "VITE_URL", "https://example.com"))
	env := p.read(t, ".env.development")
	assert.Contains(t, env, `API_KEY="secret"`)
	assert.Contains(t, env, `VITE_URL="https://example.com"`)

	require.NoError(t, p.run(t, "sync"))
	assert.Len(t, p.fake.CallsWithPrefix("convex env set API_KEY secret"), 1)
	assert.Len(t, p.fake.CallsWithPrefix("convex env set VITE_URL"), 1)
	assert.Len(t, p.fake.CallsWithPrefix("bunx wrangler secret bulk"), 1)

	generated := p.read(t, "src/lib/env.ts")
	assert.Contains(t, generated, "zod")
	assert.Contains(t, generated, "API_KEY")

	// Remotes now hold both keys; dropping one locally removes it everywhere.
	p.fake.
		On("convex env list", transport.FakeResponse{Stdout: "API_KEY=secret\nVITE_URL=https://example.com\n"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[{"name":"API_KEY"}]`})

	require.NoError(t, p.run(t, "rm", "API_KEY"))
	assert.NotContains(t, p.read(t, ".env.development"), "API_KEY")

	require.NoError(t, p.run(t, "sync", "--no-typegen"))
	assert.Len(t, p.fake.CallsWithPrefix("convex env remove API_KEY"), 1)
	assert.Len(t, p.fake.CallsWithPrefix("bunx wrangler secret delete API_KEY"), 1)
}

func TestProdUsesProdDeployment(t *testing.T) {
	p := newProject(t)
	require.NoError(t, os.WriteFile(p.path(".env.production"), []byte("A=1\n"), 0o600))
	p.fake.
		On("convex env list", transport.FakeResponse{Stdout: ""}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[]`})

	require.NoError(t, p.run(t, "sync", "-e", "prod", "--no-typegen", "--target", "convex"))
	for _, line := range p.fake.CallsWithPrefix("convex env") {
		assert.Contains(t, line, "--prod")
	}
	assert.Empty(t, p.fake.CallsWithPrefix("bunx wrangler"))
}

func TestDiffMissingEnvFile(t *testing.T) {
	p := newProject(t)

	err := p.run(t, "diff")
	require.Error(t, err)
	assert.True(t, errors.IsLocalSourceUnreadable(err))
	assert.Empty(t, p.fake.CallsWithPrefix("convex env set"))
	assert.Empty(t, p.fake.CallsWithPrefix("bunx wrangler secret bulk"))
}

func TestInitThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	logger := zerolog.Nop()

	a, err := app.New("test", "none", "unknown", "test", app.WithLogger(&logger))
	require.NoError(t, err)
	require.NoError(t, a.Execute(context.Background(), []string{"init", "--config", path, "-q"}))

	cfg, err := a.Config()
	require.NoError(t, err)
	assert.True(t, cfg.HasTargets())
	assert.Equal(t, ".env.development", cfg.EnvFiles.Dev)
}
