package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load(missingDotenv(t))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 6, cfg.Fetch.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "ratio-v2", cfg.Profiles.Active)
	assert.Equal(t, filepath.Join(RESOURCES_PATH_PREFIX, PROXY_PROFILES_RESOURCE), filepath.Join(filepath.Base(filepath.Dir(cfg.Profiles.Path)), filepath.Base(cfg.Profiles.Path)))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("FETCH_CONCURRENCY", "2")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("PROXY_PROFILE", "red-v1")

	cfg, err := Load(missingDotenv(t))

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Fetch.Concurrency)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "red-v1", cfg.Profiles.Active)
}

func TestLoad_Dotenv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_DEBUG=true\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LOG_DEBUG") })

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.LogDebug)
}

func TestLoad_ProdRequiresCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("IMAGERY_CLIENT_ID", "")

	_, err := Load(missingDotenv(t))

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:      "dev",
			HTTPAddr: ":8080",
			Fetch:    FetchConfig{Timeout: time.Second, Concurrency: 1},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"unknown env":      func(c *Config) { c.Env = "staging" },
		"empty addr":       func(c *Config) { c.HTTPAddr = "" },
		"zero timeout":     func(c *Config) { c.Fetch.Timeout = 0 },
		"zero concurrency": func(c *Config) { c.Fetch.Concurrency = 0 },
		"negative ttl":     func(c *Config) { c.Cache.TTL = -time.Second },
		"prod no secrets":  func(c *Config) { c.Env = "prod"; c.Imagery.BaseURL = "https://example.test" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
