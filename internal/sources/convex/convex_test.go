package convex

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-huo/env-tool/internal/transport"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/logging"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

func TestList(t *testing.T) {
	fake := transport.NewFake().On("convex env list", transport.FakeResponse{
		Stdout: "API_URL=https://api.example.com\nEMPTY=\nnot a var line\nlower=skipped\nWITH_EQ=a=b\r\n",
	})
	src := New(fake)

	snap, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"API_URL", "EMPTY", "WITH_EQ"}, snap.Keys())
	assert.Equal(t, "https://api.example.com", snap.Value("API_URL"))
	assert.Equal(t, "a=b", snap.Value("WITH_EQ"))
	assert.True(t, snap.Has("EMPTY"))
	assert.Equal(t, []string{"convex env list"}, fake.Lines())
}

func TestListProd(t *testing.T) {
	fake := transport.NewFake()
	src := New(fake, WithProd(true), WithCommand("npx", "convex"))

	_, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"npx convex env list --prod"}, fake.Lines())
}

func TestListFailureDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp transport.FakeResponse
	}{
		{name: "non-zero exit", resp: transport.FakeResponse{ExitCode: 1, Stderr: "not logged in"}},
		{name: "spawn failure", resp: transport.FakeResponse{Err: errors.New("exec: convex: not found")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(transport.NewFake().On("convex env list", tt.resp))
			snap, err := src.List(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsRemoteUnavailable(err))
			require.NotNil(t, snap)
			assert.Zero(t, snap.Len())
		})
	}
}

func TestSetMany(t *testing.T) {
	fake := transport.NewFake()
	src := New(fake, WithProd(true))

	err := src.SetMany(context.Background(), map[string]string{"B": "2", "A": "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"convex env set A 1 --prod",
		"convex env set B 2 --prod",
	}, fake.Lines())
}

func TestSetManyPartialFailure(t *testing.T) {
	fake := transport.NewFake().
		On("convex env set BAD", transport.FakeResponse{ExitCode: 1, Stderr: "invalid name"})
	src := New(fake)

	err := src.SetMany(context.Background(), map[string]string{"BAD": "secret-value", "GOOD": "1"})
	require.Error(t, err)
	assert.True(t, errors.IsPartialWrite(err))

	var pw *errors.PartialWriteError
	require.ErrorAs(t, err, &pw)
	assert.Equal(t, []string{"BAD"}, pw.Keys)
	assert.NotContains(t, err.Error(), "secret-value")
	assert.Len(t, fake.Lines(), 2)
}

func TestSetManyRedactsValueWhenProcessFails(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	const secret = "sk-live-TOPSECRET"

	tests := []struct {
		name    string
		command []string
	}{
		{name: "timeout", command: []string{"sh", "-c", "sleep 5"}},
		{name: "missing binary", command: []string{"envtool-missing-convex-cli"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := logging.Capture(t)
			runner := transport.New(transport.WithTimeout(100 * time.Millisecond))
			src := New(runner, WithCommand(tt.command...))

			start := time.Now()
			err := src.SetMany(context.Background(), map[string]string{"API_KEY": secret})
			require.Error(t, err)
			assert.Less(t, time.Since(start), 3*time.Second)

			var pw *errors.PartialWriteError
			require.ErrorAs(t, err, &pw)
			assert.Equal(t, []string{"API_KEY"}, pw.Keys)
			assert.Contains(t, err.Error(), "env set API_KEY "+transport.Masked)
			assert.NotContains(t, err.Error(), secret)
			assert.True(t, rec.Contains("convex env set failed"))
			assert.False(t, rec.Contains(secret), rec.String())
		})
	}
}

func TestRemove(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := transport.NewFake()
		require.NoError(t, New(fake).Remove(context.Background(), "OLD"))
		assert.Equal(t, []string{"convex env remove OLD"}, fake.Lines())
	})

	t.Run("absent key is idempotent", func(t *testing.T) {
		fake := transport.NewFake().On("convex env remove", transport.FakeResponse{
			ExitCode: 1, Stderr: "Environment variable OLD not found",
		})
		assert.NoError(t, New(fake).Remove(context.Background(), "OLD"))
	})

	t.Run("other failure", func(t *testing.T) {
		fake := transport.NewFake().On("convex env remove", transport.FakeResponse{ExitCode: 1, Stderr: "unauthorized"})
		assert.Error(t, New(fake).Remove(context.Background(), "OLD"))
	})
}

func TestDescriptor(t *testing.T) {
	src := New(transport.NewFake())
	assert.Equal(t, sources.ConvexID, src.ID())
	assert.Equal(t, sources.Capabilities{ValuesVisible: true}, src.Capabilities())
	assert.True(t, src.Reserved().Match("CONVEX_DEPLOYMENT"))
	require.Len(t, src.Dependencies(), 1)
	assert.Equal(t, []string{"convex"}, src.Dependencies()[0].CheckCommands)
}
