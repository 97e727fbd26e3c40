package wrangler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

func TestList(t *testing.T) {
	fake := transport.NewFake().On("bunx wrangler secret list", transport.FakeResponse{
		Stdout: `[{"name":"API_KEY","type":"secret_text"},{"name":"DB_URL","type":"secret_text"}]`,
	})
	src := New(fake, WithConfig("apps/worker/wrangler.jsonc"))

	snap, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"API_KEY", "DB_URL"}, snap.Keys())

	e, ok := snap.Get("API_KEY")
	require.True(t, ok)
	assert.False(t, e.Known)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "bunx wrangler secret list --format json", calls[0].String())
	assert.True(t, filepath.IsAbs(calls[0].Dir))
	assert.True(t, strings.HasSuffix(calls[0].Dir, filepath.Join("apps", "worker")))
}

func TestListEnvMapping(t *testing.T) {
	fake := transport.NewFake().On("wrangler secret list", transport.FakeResponse{Stdout: "[]"})
	src := New(fake, WithCommand("wrangler"), WithEnv("production"))

	snap, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.Len())
	assert.Equal(t, []string{"wrangler secret list --format json --env production"}, fake.Lines())
}

func TestListSkipsBanner(t *testing.T) {
	fake := transport.NewFake().On("bunx wrangler secret list", transport.FakeResponse{
		Stdout: "⛅️ wrangler 3.0.0\n-----\n[{\"name\":\"A\"}]",
	})
	snap, err := New(fake).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, snap.Keys())
}

func TestListFailureDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp transport.FakeResponse
	}{
		{name: "non-zero exit", resp: transport.FakeResponse{ExitCode: 1, Stderr: "Authentication error"}},
		{name: "not json", resp: transport.FakeResponse{Stdout: "You are not logged in"}},
		{name: "json object", resp: transport.FakeResponse{Stdout: `{"error":"nope"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(transport.NewFake().On("bunx wrangler secret list", tt.resp))
			snap, err := src.List(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsRemoteUnavailable(err))
			assert.Zero(t, snap.Len())
		})
	}
}

func TestSetManyBulkUpload(t *testing.T) {
	fs := afero.NewMemMapFs()
	var uploaded string
	fake := transport.NewFake().On("bunx wrangler secret bulk", transport.FakeResponse{
		Hook: func(cmd transport.Command) {
			path := cmd.Args[len(cmd.Args)-1]
			data, err := afero.ReadFile(fs, path)
			require.NoError(t, err)
			uploaded = string(data)
		},
	})
	src := New(fake, WithFs(fs), WithTempDir("/tmp"))

	require.NoError(t, src.SetMany(context.Background(), map[string]string{"A": "1", "B": "two"}))

	require.Len(t, fake.Calls(), 1)
	assert.Equal(t, "1", gjson.Get(uploaded, "A").String())
	assert.Equal(t, "two", gjson.Get(uploaded, "B").String())

	files, err := afero.ReadDir(fs, "/tmp")
	require.NoError(t, err)
	assert.Empty(t, files, "bulk file must be removed")
}

func TestSetManyFailureRemovesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	fake := transport.NewFake().On("bunx wrangler secret bulk", transport.FakeResponse{ExitCode: 1, Stderr: "quota"})
	src := New(fake, WithFs(fs), WithTempDir("/tmp"), WithEnv("staging"))

	err := src.SetMany(context.Background(), map[string]string{"B": "2", "A": "1"})
	require.Error(t, err)

	var pw *errors.PartialWriteError
	require.ErrorAs(t, err, &pw)
	assert.Equal(t, []string{"A", "B"}, pw.Keys)
	assert.Contains(t, fake.Lines()[0], "--env staging")

	files, _ := afero.ReadDir(fs, "/tmp")
	assert.Empty(t, files)
}

func TestSetManyEmptyIsNoop(t *testing.T) {
	fake := transport.NewFake()
	require.NoError(t, New(fake).SetMany(context.Background(), nil))
	assert.Empty(t, fake.Calls())
}

func TestRemove(t *testing.T) {
	fake := transport.NewFake()
	require.NoError(t, New(fake).Remove(context.Background(), "OLD"))
	assert.Equal(t, []string{"bunx wrangler secret delete OLD --force"}, fake.Lines())

	missing := transport.NewFake().On("bunx wrangler secret delete", transport.FakeResponse{
		ExitCode: 1, Stderr: "Secret \"OLD\" not found",
	})
	assert.NoError(t, New(missing).Remove(context.Background(), "OLD"))
}

func TestDescriptor(t *testing.T) {
	src := New(transport.NewFake())
	assert.Equal(t, sources.WranglerID, src.ID())
	assert.False(t, src.Capabilities().ValuesVisible)
	assert.True(t, src.Capabilities().BulkWrite)
	assert.Empty(t, src.Reserved())
	assert.Equal(t, []string{"bunx"}, src.Dependencies()[0].CheckCommands)
}
