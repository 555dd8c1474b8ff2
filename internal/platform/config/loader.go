package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	perrors "sauc-client-go/internal/platform/errors"
)

// Environment variable names honoured by the loader. They override whatever
// the YAML file provides.
const (
	EnvAppKey      = "VOLCENGINE_APP_KEY"
	EnvAccessToken = "VOLCENGINE_ACCESS_TOKEN"
	EnvResourceID  = "VOLCENGINE_ASR_RESOURCE_ID"
)

// Loader reads configuration from an optional YAML file plus the environment.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader reading the given YAML path. An empty path means
// environment-only configuration.
func NewLoader(path string) *Loader {
	return &Loader{
		path:      path,
		useDotEnv: true,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Load assembles the config: defaults, then file, then environment overrides,
// then validation.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		// Missing .env is fine; the process environment still applies.
		_ = godotenv.Load()
	}

	cfg := Default()

	if l.path != "" {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, perrors.Wrap(perrors.KindConfig, "load", "read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, perrors.Wrap(perrors.KindConfig, "load", "parse config file", err)
		}
	}

	applyEnv(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the credentials required before any network I/O are
// present.
func (c *Config) Validate() error {
	if c.Credentials.AppKey == "" {
		return perrors.New(perrors.KindConfig, "validate", "missing app key")
	}
	if c.Credentials.AccessToken == "" {
		return perrors.New(perrors.KindConfig, "validate", "missing access token")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAppKey); v != "" {
		cfg.Credentials.AppKey = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		cfg.Credentials.AccessToken = v
	}
	if v := os.Getenv(EnvResourceID); v != "" {
		cfg.Credentials.ResourceID = v
	}
}
