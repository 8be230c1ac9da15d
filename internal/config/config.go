// Package config loads the client configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Remote store modes.
const (
	RemoteNone     = "none"
	RemoteDocstore = "docstore"
	RemotePostgres = "postgres"
)

// Identity provider modes.
const (
	IdentityNone  = "none"
	IdentityLocal = "local"
	IdentityOIDC  = "oidc"
)

// Config is the full client configuration.
type Config struct {
	Addr      string         `yaml:"addr"`
	CachePath string         `yaml:"cachePath"`
	Remote    RemoteConfig   `yaml:"remote"`
	Identity  IdentityConfig `yaml:"identity"`
}

// RemoteConfig selects and configures the remote document store.
type RemoteConfig struct {
	Mode        string `yaml:"mode"`
	BaseURL     string `yaml:"baseUrl"`
	PostgresURL string `yaml:"postgresUrl"`
}

// IdentityConfig selects and configures the identity provider.
type IdentityConfig struct {
	Mode         string `yaml:"mode"`
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
}

// Default returns a configuration that runs entirely on the local cache.
func Default() Config {
	return Config{
		Addr:      ":8080",
		CachePath: "caltrack.db",
		Remote:    RemoteConfig{Mode: RemoteNone},
		Identity:  IdentityConfig{Mode: IdentityLocal},
	}
}

// Load reads the YAML file at path (skipped when path is empty or absent),
// then applies environment overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = env("CALTRACK_ADDR", cfg.Addr)
	cfg.CachePath = env("CALTRACK_CACHE", cfg.CachePath)
	cfg.Remote.Mode = env("CALTRACK_REMOTE_MODE", cfg.Remote.Mode)
	cfg.Remote.BaseURL = env("CALTRACK_REMOTE_URL", cfg.Remote.BaseURL)
	cfg.Remote.PostgresURL = env("DATABASE_URL", cfg.Remote.PostgresURL)
	cfg.Identity.Mode = env("CALTRACK_IDENTITY_MODE", cfg.Identity.Mode)
	cfg.Identity.Issuer = env("CALTRACK_OIDC_ISSUER", cfg.Identity.Issuer)
	cfg.Identity.ClientID = env("CALTRACK_OIDC_CLIENT_ID", cfg.Identity.ClientID)
	cfg.Identity.ClientSecret = env("CALTRACK_OIDC_CLIENT_SECRET", cfg.Identity.ClientSecret)
}

// Validate checks mode selections and their required settings.
func (c Config) Validate() error {
	switch c.Remote.Mode {
	case RemoteNone:
	case RemoteDocstore:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote.baseUrl is required for docstore mode")
		}
	case RemotePostgres:
		if c.Remote.PostgresURL == "" {
			return fmt.Errorf("remote.postgresUrl is required for postgres mode")
		}
	default:
		return fmt.Errorf("unknown remote mode %q", c.Remote.Mode)
	}

	switch c.Identity.Mode {
	case IdentityNone, IdentityLocal:
	case IdentityOIDC:
		if c.Identity.Issuer == "" || c.Identity.ClientID == "" {
			return fmt.Errorf("identity.issuer and identity.clientId are required for oidc mode")
		}
	default:
		return fmt.Errorf("unknown identity mode %q", c.Identity.Mode)
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
