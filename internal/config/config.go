// Package config loads client configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config carries everything the client needs to reach the auth server and
// persist its session.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`

	// AllowedRoles restricts which roles may log in to this application.
	// Empty admits every role the server issues.
	AllowedRoles []string `yaml:"allowed_roles" env:"AUTH_ALLOWED_ROLES" env-separator:","`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"AUTH_API_BASE_URL" env-default:"http://localhost:3000/api/v1"`
	Timeout time.Duration `yaml:"timeout" env:"AUTH_API_TIMEOUT" env-default:"30s"`
}

type StoreConfig struct {
	// Driver selects the credential store backend: sqlite, redis, or
	// memory (no persistence across restarts).
	Driver    string      `yaml:"driver" env:"AUTH_STORE_DRIVER" env-default:"sqlite"`
	Path      string      `yaml:"path" env:"AUTH_STORE_PATH" env-default:"auth-client.db"`
	Namespace string      `yaml:"namespace" env:"AUTH_STORE_NAMESPACE" env-default:"default"`
	Redis     RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"AUTH_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"AUTH_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"AUTH_REDIS_DB" env-default:"0"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"AUTH_LOG_LEVEL" env-default:"info"`
}

// Load reads the YAML file at path when given, then applies environment
// overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch c.Store.Driver {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("store.driver must be sqlite, redis, or memory, got %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite driver")
	}
	return nil
}
