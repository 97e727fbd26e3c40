package globals

import (
	"github.com/spf13/cobra"

	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/pkg/errors"
)

var errSingleEnv = errors.NewValidationError("env", config.All, "this command needs a single environment")

// EnvFlags holds the environment selector shared by every env command.
type EnvFlags struct {
	Env string
}

// AddEnvFlag adds -e/--env to cmd with def as its default.
func AddEnvFlag(cmd *cobra.Command, def string) *EnvFlags {
	flags := &EnvFlags{}
	cmd.Flags().StringVarP(&flags.Env, "env", "e", def,
		"Environment: dev, prod, or all")
	return flags
}

// Envs resolves the flag to the environments it names.
func (f *EnvFlags) Envs() ([]config.Env, error) {
	return config.ParseEnvs(f.Env)
}

// Single resolves the flag and rejects "all".
func (f *EnvFlags) Single() (config.Env, error) {
	envs, err := f.Envs()
	if err != nil {
		return "", err
	}
	if len(envs) != 1 {
		return "", errSingleEnv
	}
	return envs[0], nil
}
