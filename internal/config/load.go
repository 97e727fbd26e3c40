package config

import (
	"bytes"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/ethan-huo/env-tool/pkg/errors"
)

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs afero.Fs
}

// WithFs reads the config from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) LoadOption {
	return func(o *loadOptions) {
		o.fs = fs
	}
}

// Load reads path. An empty path means DefaultPath, and a missing default
// file yields the defaults with no targets. A missing explicit path is an error.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := &loadOptions{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(o)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	exists, err := afero.Exists(o.fs, path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	if !exists {
		if explicit {
			return nil, errors.NewConfigError("config", "file "+path+" not found", &fs.PathError{Op: "open", Path: path, Err: os.ErrNotExist})
		}
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}

	v := viper.New()
	v.SetFs(o.fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigError("config", "cannot read "+path, errors.WrapParse("yaml", path, err))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("config", "cannot decode "+path, err)
	}

	// An empty mapping such as `convex: {}` enables the target but carries
	// no keys for Unmarshal to see.
	if cfg.Sync.Convex == nil && v.IsSet("sync.convex") {
		cfg.Sync.Convex = &Convex{}
	}
	if cfg.Sync.Wrangler == nil && v.IsSet("sync.wrangler") {
		cfg.Sync.Wrangler = &Wrangler{}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# env-tool configuration\n")
	enc := yaml.NewEncoder(&buf, yaml.Indent(2), yaml.IndentSequence(true))
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path, refusing to replace an existing file unless force is set.
func Write(fsys afero.Fs, path string, cfg *Config, force bool) error {
	if path == "" {
		path = DefaultPath
	}
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return errors.WrapIO("stat", path, err)
	}
	if exists && !force {
		return errors.NewValidationError("path", path, "already exists (use --force to overwrite)")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
