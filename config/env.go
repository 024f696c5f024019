package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Env      string         `env:"APP_ENV" envDefault:"prod"`
	HTTPAddr string         `env:"HTTP_ADDR" envDefault:":8080"`
	LogDebug bool           `env:"LOG_DEBUG" envDefault:"false"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Imagery  ImageryConfig  `envPrefix:"IMAGERY_"`
	Fetch    FetchConfig    `envPrefix:"FETCH_"`
	Cache    CacheConfig    `envPrefix:"CACHE_"`
	Profiles ProfilesConfig `envPrefix:"PROXY_"`
}

type RedisConfig struct {
	Address  string `env:"ADDRESS" envDefault:"redis:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type ImageryConfig struct {
	BaseURL      string        `env:"BASE_URL" envDefault:"https://imagery.backwater-guard.dev/api/v1"`
	TokenURL     string        `env:"TOKEN_URL"`
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type FetchConfig struct {
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"45s"`
	Concurrency int           `env:"CONCURRENCY" envDefault:"6"`
}

type CacheConfig struct {
	TTL time.Duration `env:"TTL" envDefault:"1h"`
}

type ProfilesConfig struct {
	Path   string `env:"PROFILES_PATH"`
	Active string `env:"PROFILE" envDefault:"ratio-v2"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load(dotenvPaths ...string) (*Config, error) {
	if len(dotenvPaths) == 0 {
		dotenvPaths = []string{".env"}
	}
	for _, p := range dotenvPaths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.Profiles.Path == "" {
		cfg.Profiles.Path = GetResourcePath(PROXY_PROFILES_RESOURCE)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Env != "prod" && c.Env != "dev" && c.Env != "test" {
		return fmt.Errorf("APP_ENV must be one of prod, dev, test, got %q", c.Env)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.Fetch.Concurrency)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.Cache.TTL)
	}
	if c.Env == "prod" {
		if c.Imagery.BaseURL == "" {
			return fmt.Errorf("IMAGERY_BASE_URL is required")
		}
		if c.Imagery.TokenURL == "" || c.Imagery.ClientID == "" || c.Imagery.ClientSecret == "" {
			return fmt.Errorf("IMAGERY_TOKEN_URL, IMAGERY_CLIENT_ID and IMAGERY_CLIENT_SECRET are required in prod")
		}
	}
	return nil
}
