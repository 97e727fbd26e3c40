package application

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	envtool "github.com/ethan-huo/env-tool"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/internal/transport"
)

var _ Application = (*Mock)(nil)

// Mock is an Application for command tests. Zero fields fall back to
// config.Default, config.DefaultPath, a MemMapFs, a Nop logger and the
// "table" format.
type Mock struct {
	Cfg    *config.Config
	CfgErr error
	Path   string
	FS     afero.Fs
	Log    *zerolog.Logger
	Format string

	// ClientFunc builds the client for env. Nil returns a nil client.
	ClientFunc func(env config.Env) (envtool.Client, error)
}

// NewMock returns a Mock whose clients are built from cfg the way the real
// app builds them: env files come from fs and every CLI command goes to runner.
func NewMock(cfg *config.Config, fs afero.Fs, runner transport.Runner) *Mock {
	return &Mock{
		Cfg: cfg,
		FS:  fs,
		ClientFunc: func(env config.Env) (envtool.Client, error) {
			opts, err := envtool.FromConfig(cfg, env, runner, fs)
			if err != nil {
				return nil, err
			}
			return envtool.New(opts...)
		},
	}
}

func (m *Mock) Config() (*config.Config, error) {
	if m.CfgErr != nil {
		return nil, m.CfgErr
	}
	if m.Cfg == nil {
		return config.Default(), nil
	}
	return m.Cfg, nil
}

func (m *Mock) ConfigPath() string {
	if m.Path == "" {
		return config.DefaultPath
	}
	return m.Path
}

func (m *Mock) Client(env config.Env) (envtool.Client, error) {
	if m.ClientFunc == nil {
		return nil, nil
	}
	return m.ClientFunc(env)
}

func (m *Mock) Fs() afero.Fs {
	if m.FS == nil {
		m.FS = afero.NewMemMapFs()
	}
	return m.FS
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.Log == nil {
		nop := zerolog.Nop()
		m.Log = &nop
	}
	return m.Log
}

func (m *Mock) OutputFormat() string {
	if m.Format == "" {
		return "table"
	}
	return m.Format
}

func (m *Mock) Version() string { return "dev" }
func (m *Mock) Commit() string  { return "unknown" }
func (m *Mock) Date() string    { return "unknown" }
func (m *Mock) BuiltBy() string { return "test" }
