package app

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables the CLI reads.
const EnvPrefix = "ENVTOOL"

// Config holds the CLI configuration loaded from environment variables
// and later overridden by flags.
//
// Unlike most CLIs, envtool never loads .env files into its own process:
// those files are the data it reconciles, not its settings.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Tool config file (env.config.yaml by default)
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. ENVTOOL_* environment variables
//  3. LOG_* environment variables for logging
//  4. Defaults
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no-color") || os.Getenv("NO_COLOR") != "",
		Format:     v.GetString("format"),
		ConfigFile: v.GetString("config"),

		// An empty level lets -v and -q decide
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Only flags the user actually set override the environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, configFile string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if configFile != "" {
		c.ConfigFile = configFile
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
