package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-huo/env-tool/pkg/errors"
)

func writeConfig(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, DefaultPath, []byte(content), 0o644))
	return fs
}

func TestLoadMissingDefaultUsesDefaults(t *testing.T) {
	cfg, err := Load("", WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)

	assert.Equal(t, ".env.development", cfg.EnvFile(Dev))
	assert.Equal(t, ".env.production", cfg.EnvFile(Prod))
	assert.False(t, cfg.HasTargets())
	assert.Nil(t, cfg.Typegen)
	assert.Equal(t, DefaultCommandTimeout, cfg.Timeout())
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load("custom.yaml", WithFs(afero.NewMemMapFs()))
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadFull(t *testing.T) {
	fs := writeConfig(t, `
envFiles:
  dev: .env.dev
  prod: .env.prod
typegen:
  output: src/env.ts
  schema: zod
sync:
  convex:
    exclude: [SECRET_ONLY_LOCAL]
  wrangler:
    config: ./worker/wrangler.jsonc
    exclude: ["VITE_*"]
    envMapping:
      dev: staging
      prod: production
    command: [npx, wrangler]
commandTimeout: 30s
`)

	cfg, err := Load("", WithFs(fs))
	require.NoError(t, err)

	assert.Equal(t, ".env.dev", cfg.EnvFile(Dev))
	assert.Equal(t, ".env.prod", cfg.EnvFile(Prod))

	require.NotNil(t, cfg.Typegen)
	assert.Equal(t, "src/env.ts", cfg.Typegen.Output)
	assert.Equal(t, SchemaZod, cfg.Typegen.Schema)
	assert.Equal(t, DefaultPublicPrefixes, cfg.Typegen.PublicPrefix)

	require.NotNil(t, cfg.Sync.Convex)
	assert.Equal(t, []string{"SECRET_ONLY_LOCAL"}, cfg.Sync.Convex.Exclude)

	require.NotNil(t, cfg.Sync.Wrangler)
	assert.Equal(t, "./worker/wrangler.jsonc", cfg.Sync.Wrangler.Config)
	assert.Equal(t, []string{"npx", "wrangler"}, cfg.Sync.Wrangler.Command)
	assert.Equal(t, "staging", cfg.Sync.Wrangler.WorkerEnv(Dev))
	assert.Equal(t, "production", cfg.Sync.Wrangler.WorkerEnv(Prod))

	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoadEmptyTargetMapping(t *testing.T) {
	fs := writeConfig(t, `
sync:
  convex: {}
`)
	cfg, err := Load("", WithFs(fs))
	require.NoError(t, err)

	assert.NotNil(t, cfg.Sync.Convex)
	assert.Nil(t, cfg.Sync.Wrangler)
	assert.True(t, cfg.HasTargets())
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "sync: [unclosed"},
		{"unknown schema", "typegen:\n  output: a.ts\n  schema: yup\n"},
		{"typegen without output", "typegen:\n  schema: zod\n"},
		{"bad exclude pattern", "sync:\n  convex:\n    exclude: [\"[\"]\n"},
		{"negative timeout", "commandTimeout: -5s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", WithFs(writeConfig(t, tt.content)))
			assert.Error(t, err)
		})
	}
}

func TestWorkerEnvWithoutMapping(t *testing.T) {
	var nilWrangler *Wrangler
	assert.Empty(t, nilWrangler.WorkerEnv(Dev))
	assert.Empty(t, (&Wrangler{}).WorkerEnv(Prod))
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.HasTargets())
}

func TestWriteRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Write(fs, "", Default(), false))

	cfg, err := Load("", WithFs(fs))
	require.NoError(t, err)
	assert.Equal(t, Default().EnvFiles, cfg.EnvFiles)
	assert.NotNil(t, cfg.Sync.Convex)
	require.NotNil(t, cfg.Sync.Wrangler)
	assert.Equal(t, []string{"VITE_*", "PUBLIC_*"}, cfg.Sync.Wrangler.Exclude)
}

func TestWriteRefusesOverwrite(t *testing.T) {
	fs := writeConfig(t, "envFiles: {}\n")

	err := Write(fs, "", Default(), false)
	assert.True(t, errors.IsValidationError(err))

	require.NoError(t, Write(fs, "", Default(), true))
}

func TestParseEnvs(t *testing.T) {
	tests := []struct {
		in      string
		want    []Env
		wantErr bool
	}{
		{"dev", []Env{Dev}, false},
		{"", []Env{Dev}, false},
		{"prod", []Env{Prod}, false},
		{"PROD", []Env{Prod}, false},
		{"production", []Env{Prod}, false},
		{"all", []Env{Dev, Prod}, false},
		{"staging", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEnvs(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
