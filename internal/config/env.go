package config

import (
	"strings"

	"github.com/ethan-huo/env-tool/pkg/errors"
)

// Env is a local environment.
type Env string

// Environments.
const (
	Dev  Env = "dev"
	Prod Env = "prod"
)

// All is the --env value selecting every environment.
const All = "all"

// String implements fmt.Stringer.
func (e Env) String() string { return string(e) }

// ParseEnvs parses an --env flag value. "all" expands to dev then prod.
func ParseEnvs(s string) ([]Env, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Dev), "development":
		return []Env{Dev}, nil
	case string(Prod), "production":
		return []Env{Prod}, nil
	case All:
		return []Env{Dev, Prod}, nil
	default:
		return nil, errors.NewValidationError("env", s, "must be dev, prod or all")
	}
}
