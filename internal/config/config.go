// Package config loads and validates env.config.yaml.
package config

import (
	"slices"
	"time"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/exclude"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "env.config.yaml"

// DefaultCommandTimeout bounds every external CLI call.
const DefaultCommandTimeout = 2 * time.Minute

// Schema flavors for generated TypeScript.
const (
	SchemaValibot = "valibot"
	SchemaZod     = "zod"
	SchemaNone    = "none"
)

// Schemas lists the supported schema flavors.
var Schemas = []string{SchemaValibot, SchemaZod, SchemaNone}

// DefaultPublicPrefixes mark keys that are safe to ship to a browser bundle.
var DefaultPublicPrefixes = []string{"VITE_", "PUBLIC_"}

// Config is the tool configuration.
type Config struct {
	EnvFiles       EnvFiles      `mapstructure:"envFiles" yaml:"envFiles"`
	Typegen        *Typegen      `mapstructure:"typegen" yaml:"typegen,omitempty"`
	Sync           Sync          `mapstructure:"sync" yaml:"sync"`
	CommandTimeout time.Duration `mapstructure:"commandTimeout" yaml:"commandTimeout,omitempty"`
}

// EnvFiles maps each environment to its local dotenv file.
type EnvFiles struct {
	Dev  string `mapstructure:"dev" yaml:"dev"`
	Prod string `mapstructure:"prod" yaml:"prod"`
}

// Typegen configures TypeScript schema generation.
type Typegen struct {
	Output       string   `mapstructure:"output" yaml:"output"`
	Schema       string   `mapstructure:"schema" yaml:"schema,omitempty"`
	PublicPrefix []string `mapstructure:"publicPrefix" yaml:"publicPrefix,omitempty"`
}

// Sync holds the remote targets. A nil target is not synced.
type Sync struct {
	Convex   *Convex   `mapstructure:"convex" yaml:"convex,omitempty"`
	Wrangler *Wrangler `mapstructure:"wrangler" yaml:"wrangler,omitempty"`
}

// Convex configures the value-visible store.
type Convex struct {
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	Command []string `mapstructure:"command" yaml:"command,omitempty"`
}

// Wrangler configures the existence-only store.
type Wrangler struct {
	Config     string      `mapstructure:"config" yaml:"config,omitempty"`
	Exclude    []string    `mapstructure:"exclude" yaml:"exclude,omitempty"`
	EnvMapping *EnvMapping `mapstructure:"envMapping" yaml:"envMapping,omitempty"`
	Command    []string    `mapstructure:"command" yaml:"command,omitempty"`
}

// EnvMapping names the worker environment for each local environment.
// Without a mapping the worker is single-environment and no --env is passed.
type EnvMapping struct {
	Dev  string `mapstructure:"dev" yaml:"dev,omitempty"`
	Prod string `mapstructure:"prod" yaml:"prod,omitempty"`
}

// Default returns the configuration written by `init`.
func Default() *Config {
	return &Config{
		EnvFiles: EnvFiles{Dev: ".env.development", Prod: ".env.production"},
		Typegen: &Typegen{
			Output:       "src/lib/env.ts",
			Schema:       SchemaValibot,
			PublicPrefix: slices.Clone(DefaultPublicPrefixes),
		},
		Sync: Sync{
			Convex: &Convex{Exclude: []string{}},
			Wrangler: &Wrangler{
				Config:  "./wrangler.jsonc",
				Exclude: []string{"VITE_*", "PUBLIC_*"},
			},
		},
	}
}

// EnvFile returns the local file for env.
func (c *Config) EnvFile(env Env) string {
	if env == Prod {
		return c.EnvFiles.Prod
	}
	return c.EnvFiles.Dev
}

// HasTargets reports whether any remote target is configured.
func (c *Config) HasTargets() bool {
	return c.Sync.Convex != nil || c.Sync.Wrangler != nil
}

// Timeout returns the command timeout, falling back to the default.
func (c *Config) Timeout() time.Duration {
	if c.CommandTimeout <= 0 {
		return DefaultCommandTimeout
	}
	return c.CommandTimeout
}

// WorkerEnv returns the worker environment mapped to env, or "" when the
// worker is single-environment.
func (w *Wrangler) WorkerEnv(env Env) string {
	if w == nil || w.EnvMapping == nil {
		return ""
	}
	if env == Prod {
		return w.EnvMapping.Prod
	}
	return w.EnvMapping.Dev
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.EnvFiles.Dev == "" {
		return errors.NewValidationError("envFiles.dev", c.EnvFiles.Dev, "must not be empty")
	}
	if c.EnvFiles.Prod == "" {
		return errors.NewValidationError("envFiles.prod", c.EnvFiles.Prod, "must not be empty")
	}

	if t := c.Typegen; t != nil {
		if t.Output == "" {
			return errors.NewValidationError("typegen.output", t.Output, "is required")
		}
		if !slices.Contains(Schemas, t.Schema) {
			return errors.NewValidationError("typegen.schema", t.Schema, "must be one of valibot, zod, none")
		}
	}

	if cv := c.Sync.Convex; cv != nil {
		if _, err := exclude.Parse(cv.Exclude...); err != nil {
			return errors.WrapValidation("sync.convex.exclude", err)
		}
		if len(cv.Command) > 0 && cv.Command[0] == "" {
			return errors.NewValidationError("sync.convex.command", cv.Command, "program must not be empty")
		}
	}

	if w := c.Sync.Wrangler; w != nil {
		if _, err := exclude.Parse(w.Exclude...); err != nil {
			return errors.WrapValidation("sync.wrangler.exclude", err)
		}
		if w.Config == "" {
			return errors.NewValidationError("sync.wrangler.config", w.Config, "must not be empty")
		}
		if len(w.Command) > 0 && w.Command[0] == "" {
			return errors.NewValidationError("sync.wrangler.command", w.Command, "program must not be empty")
		}
	}

	if c.CommandTimeout < 0 {
		return errors.NewValidationError("commandTimeout", c.CommandTimeout, "must not be negative")
	}
	return nil
}

// applyDefaults fills optional fields left empty by the file.
func (c *Config) applyDefaults() {
	if c.EnvFiles.Dev == "" {
		c.EnvFiles.Dev = ".env.development"
	}
	if c.EnvFiles.Prod == "" {
		c.EnvFiles.Prod = ".env.production"
	}
	if t := c.Typegen; t != nil {
		if t.Schema == "" {
			t.Schema = SchemaValibot
		}
		if t.PublicPrefix == nil {
			t.PublicPrefix = slices.Clone(DefaultPublicPrefixes)
		}
	}
	if w := c.Sync.Wrangler; w != nil && w.Config == "" {
		w.Config = "./wrangler.jsonc"
	}
}
