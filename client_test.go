package envtool

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/internal/deps"
	"github.com/ethan-huo/env-tool/internal/sources/convex"
	"github.com/ethan-huo/env-tool/internal/sources/local"
	"github.com/ethan-huo/env-tool/internal/sources/wrangler"
	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/exclude"
	"github.com/ethan-huo/env-tool/pkg/sources"
	pkgsync "github.com/ethan-huo/env-tool/pkg/sync"
)

const envPath = ".env.development"

type fixture struct {
	fs     afero.Fs
	fake   *transport.Fake
	client Client
}

// newFixture builds a client over an in-memory env file with a Convex and a
// Wrangler target sharing one fake runner.
func newFixture(t *testing.T, envFile string, opts ...Option) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	if envFile != "" {
		require.NoError(t, afero.WriteFile(fs, envPath, []byte(envFile), 0o600))
	}
	require.NoError(t, fs.MkdirAll("/tmp", 0o755))
	fake := transport.NewFake()

	base := []Option{
		WithLocal(local.New(envPath, local.WithFs(fs))),
		WithTargets(
			sources.Target{Source: convex.New(fake)},
			sources.Target{
				Source:  wrangler.New(fake, wrangler.WithFs(fs), wrangler.WithTempDir("/tmp")),
				Exclude: exclude.MustParse("VITE_*"),
			},
		),
	}
	client, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return &fixture{fs: fs, fake: fake, client: client}
}

func indexOf(lines []string, prefix string) int {
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return i
		}
	}
	return -1
}

func TestNewRequiresLocal(t *testing.T) {
	_, err := New()
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSnapshots(t *testing.T) {
	f := newFixture(t, "A=1\nB=2\n")
	f.fake.
		On("convex env list", transport.FakeResponse{Stdout: "A=1\n"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[{"name":"A","type":"secret_text"}]`})

	snaps, err := f.client.Snapshots(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, snaps.Local.Keys())
	require.Len(t, snaps.Remotes, 2)
	assert.Equal(t, sources.ConvexID, snaps.Remotes[0].ID)
	assert.True(t, snaps.Remotes[0].ValuesVisible)
	assert.Equal(t, sources.WranglerID, snaps.Remotes[1].ID)
	assert.False(t, snaps.Remotes[1].ValuesVisible)
	assert.True(t, snaps.Remotes[1].Snapshot.Has("A"))
}

func TestLocalSourceUnreadableIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing file"},
		{name: "malformed file", content: "A=\"unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.content)

			_, err := f.client.Sync(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsLocalSourceUnreadable(err))

			_, err = f.client.Diff(context.Background())
			assert.True(t, errors.IsLocalSourceUnreadable(err))

			assert.Empty(t, f.fake.CallsWithPrefix("convex env set"))
			assert.Empty(t, f.fake.CallsWithPrefix("bunx wrangler secret bulk"))
		})
	}
}

func TestSyncAppliesPlans(t *testing.T) {
	f := newFixture(t, "A=1\nB=2\nCONVEX_SITE=x\nDOTENV_PUBLIC_KEY=k\nVITE_URL=u\n")
	f.fake.
		On("convex env list", transport.FakeResponse{Stdout: "A=1\nB=old\nC=3\n"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[{"name":"A"},{"name":"GONE"}]`})

	var written, removed []string
	f.client.OnKeyWritten(func(target sources.ID, key string) {
		written = append(written, target.String()+":"+key)
	})
	f.client.OnKeyRemoved(func(target sources.ID, key string) {
		removed = append(removed, target.String()+":"+key)
	})

	result, err := f.client.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, result.DryRun)
	assert.False(t, result.HasFailures())

	cv, ok := result.Target(sources.ConvexID)
	require.True(t, ok)
	assert.Equal(t, []string{"VITE_URL"}, cv.Added)
	assert.Equal(t, []string{"B"}, cv.Updated)
	assert.Equal(t, []string{"C"}, cv.Removed)

	wr, ok := result.Target(sources.WranglerID)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "CONVEX_SITE"}, wr.Added)
	assert.Equal(t, []string{"A"}, wr.Updated, "existence-only stores always re-upload")
	assert.Equal(t, []string{"GONE"}, wr.Removed)

	lines := f.fake.Lines()
	assert.Contains(t, lines, "convex env set B 2")
	assert.Contains(t, lines, "convex env set VITE_URL u")
	assert.NotContains(t, lines, "convex env set A 1")
	assert.Empty(t, f.fake.CallsWithPrefix("convex env set CONVEX_SITE"))
	assert.Empty(t, f.fake.CallsWithPrefix("convex env set DOTENV_PUBLIC_KEY"))

	assert.Less(t, indexOf(lines, "convex env set"), indexOf(lines, "convex env remove C"))
	assert.Less(t, indexOf(lines, "bunx wrangler secret bulk"), indexOf(lines, "bunx wrangler secret delete GONE --force"))

	assert.ElementsMatch(t, []string{
		"convex:B", "convex:VITE_URL",
		"wrangler:A", "wrangler:B", "wrangler:CONVEX_SITE",
	}, written)
	assert.ElementsMatch(t, []string{"convex:C", "wrangler:GONE"}, removed)

	tmp, err := afero.ReadDir(f.fs, "/tmp")
	require.NoError(t, err)
	assert.Empty(t, tmp, "bulk upload file is cleaned up")
}

func TestSyncUnavailableTargetNeverDeletes(t *testing.T) {
	f := newFixture(t, "A=1\n")
	f.fake.
		On("convex env list", transport.FakeResponse{ExitCode: 1, Stderr: "network error"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[{"name":"A"},{"name":"OLD"}]`})

	result, err := f.client.Sync(context.Background())
	require.NoError(t, err)

	cv, _ := result.Target(sources.ConvexID)
	assert.False(t, cv.Available())
	assert.True(t, errors.IsRemoteUnavailable(cv.Err))
	assert.Empty(t, cv.Removed)
	assert.Contains(t, cv.String(), "unavailable")
	assert.Empty(t, f.fake.CallsWithPrefix("convex env remove"))

	wr, _ := result.Target(sources.WranglerID)
	assert.True(t, wr.Available())
	assert.Equal(t, []string{"OLD"}, wr.Removed, "other targets continue")
	assert.True(t, result.HasFailures())
}

func TestSyncDryRun(t *testing.T) {
	f := newFixture(t, "A=1\n")
	f.fake.
		On("convex env list", transport.FakeResponse{Stdout: "B=2\n"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[]`})

	result, err := f.client.Sync(context.Background(), pkgsync.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.True(t, result.HasChanges())

	cv, _ := result.Target(sources.ConvexID)
	assert.Equal(t, []string{"A"}, cv.Added)
	assert.Equal(t, []string{"B"}, cv.Removed)

	assert.Empty(t, f.fake.CallsWithPrefix("convex env set"))
	assert.Empty(t, f.fake.CallsWithPrefix("convex env remove"))
	assert.Empty(t, f.fake.CallsWithPrefix("bunx wrangler secret bulk"))
	assert.Contains(t, result.Summary(), "(dry run)")
}

func TestSyncNoRemove(t *testing.T) {
	f := newFixture(t, "A=1\n")
	f.fake.
		On("convex env list", transport.FakeResponse{Stdout: "A=1\nB=2\n"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[]`})

	result, err := f.client.Sync(context.Background(), pkgsync.WithNoRemove(true), pkgsync.WithTargets(sources.ConvexID))
	require.NoError(t, err)
	require.Len(t, result.Targets, 1)

	cv := result.Targets[0]
	assert.Empty(t, cv.Removed)
	assert.Equal(t, []string{"B"}, cv.SkippedRemovals)
	assert.Empty(t, f.fake.CallsWithPrefix("convex env remove"))
	assert.Empty(t, f.fake.CallsWithPrefix("bunx wrangler"), "unselected targets are not touched")
}

func TestSyncPartialWriteIsReported(t *testing.T) {
	f := newFixture(t, "A=1\nB=2\n")
	f.fake.
		On("convex env list", transport.FakeResponse{Stdout: "OLD=x\n"}).
		On("convex env set B", transport.FakeResponse{ExitCode: 1, Stderr: "rejected"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[]`})

	var written []string
	f.client.OnKeyWritten(func(target sources.ID, key string) {
		if target == sources.ConvexID {
			written = append(written, key)
		}
	})

	result, err := f.client.Sync(context.Background())
	require.NoError(t, err)

	cv, _ := result.Target(sources.ConvexID)
	assert.Equal(t, []string{"B"}, cv.FailedWrites)
	require.Len(t, cv.Errors, 1)
	assert.True(t, errors.IsPartialWrite(cv.Errors[0]))
	assert.Equal(t, []string{"A"}, written)
	assert.Equal(t, []string{"OLD"}, cv.Removed, "removals continue after a failed write")
	assert.NotEmpty(t, f.fake.CallsWithPrefix("convex env remove OLD"))
}

func TestSyncInvalidOptions(t *testing.T) {
	f := newFixture(t, "A=1\n")
	_, err := f.client.Sync(context.Background(), pkgsync.WithTimeout(-1))
	assert.True(t, errors.IsValidationError(err))
}

func TestDiff(t *testing.T) {
	f := newFixture(t, "A=1\nB=2\n")
	f.fake.
		On("convex env list", transport.FakeResponse{Stdout: "A=1\nB=3\n"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[{"name":"A"},{"name":"B"}]`})

	report, err := f.client.Diff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, envPath, report.LocalName)
	assert.False(t, report.InSync())
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "B", report.Rows[0].Key)
	assert.Contains(t, report.Rows[0].Issues, "convex differs")

	assert.Empty(t, f.fake.CallsWithPrefix("convex env set"), "diff never mutates")
}

func TestDiffInSync(t *testing.T) {
	f := newFixture(t, "A=1\n")
	f.fake.
		On("convex env list", transport.FakeResponse{Stdout: "A=1\n"}).
		On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[{"name":"A"}]`})

	report, err := f.client.Diff(context.Background())
	require.NoError(t, err)
	assert.True(t, report.InSync())
	assert.Equal(t, "All 1 keys are in sync", report.Summary())
}

func TestDiffWithoutTargets(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, envPath, []byte("A=1\n"), 0o600))
	client, err := New(WithLocal(local.New(envPath, local.WithFs(fs))))
	require.NoError(t, err)

	_, err = client.Diff(context.Background())
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestDependencyCheckMarksTargetUnavailable(t *testing.T) {
	orig := deps.LookPath
	t.Cleanup(func() { deps.LookPath = orig })
	deps.LookPath = func(file string) (string, error) {
		if file == "bunx" {
			return "/usr/bin/bunx", nil
		}
		return "", exec.ErrNotFound
	}

	f := newFixture(t, "A=1\n", WithDependencyCheck(true))
	f.fake.On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[]`})

	result, err := f.client.Sync(context.Background())
	require.NoError(t, err)

	cv, _ := result.Target(sources.ConvexID)
	assert.False(t, cv.Available())
	assert.ErrorIs(t, cv.Err, errors.ErrDependencyMissing)
	assert.Empty(t, f.fake.CallsWithPrefix("convex env list"), "missing CLI is never run for listing")
}

func TestFromConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env.production", []byte("A=1\n"), 0o600))

	cfg := config.Default()
	cfg.Sync.Convex.Exclude = []string{"LOCAL_ONLY"}
	cfg.Sync.Wrangler.EnvMapping = &config.EnvMapping{Prod: "production"}
	fake := transport.NewFake().On("bunx wrangler secret list", transport.FakeResponse{Stdout: `[]`})

	opts, err := FromConfig(cfg, config.Prod, fake, fs)
	require.NoError(t, err)
	client, err := New(opts...)
	require.NoError(t, err)

	assert.Equal(t, "prod", client.Env())
	targets := client.Targets()
	require.Len(t, targets, 2)
	assert.Equal(t, sources.ConvexID, targets[0].ID())
	assert.True(t, targets[0].Rules().Match("LOCAL_ONLY"))
	assert.True(t, targets[0].Rules().Match("CONVEX_URL"))
	assert.True(t, targets[1].Rules().Match("VITE_API"))

	_, err = client.Snapshots(context.Background())
	require.NoError(t, err)
	assert.Contains(t, fake.Lines(), "convex env list --prod")
	assert.Contains(t, fake.Lines(), "bunx wrangler secret list --format json --env production")
}

func TestFromConfigInvalidExclude(t *testing.T) {
	cfg := config.Default()
	cfg.Sync.Convex.Exclude = []string{"["}
	_, err := FromConfig(cfg, config.Dev, transport.NewFake(), afero.NewMemMapFs())
	assert.True(t, errors.IsValidationError(err))
}
