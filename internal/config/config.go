// Package config loads process configuration from the environment and the
// optional global analysis configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/dshills/esmapper/internal/cache"
	"github.com/dshills/esmapper/pkg/mapping"
)

// Config is the esmapper process configuration, decoded from environment
// variables.
type Config struct {
	// CacheDriver selects the metadata cache backend: memory, sqlite, redis.
	CacheDriver string `env:"ESMAPPER_CACHE_DRIVER,default=sqlite"`

	// CachePath is the SQLite database path. Empty means
	// ~/.esmapper/metadata.db.
	CachePath string `env:"ESMAPPER_CACHE_PATH"`

	// RedisAddr is the Redis address for the redis driver.
	RedisAddr string `env:"ESMAPPER_REDIS_ADDR,default=localhost:6379"`

	// RedisDB is the Redis database number.
	RedisDB int `env:"ESMAPPER_REDIS_DB,default=0"`

	// AnalysisPath points at a YAML file holding the global analysis
	// configuration. Empty means no analysis components are available.
	AnalysisPath string `env:"ESMAPPER_ANALYSIS_CONFIG"`
}

// Load decodes the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}

// OpenStore opens the configured metadata cache backend.
func (c *Config) OpenStore() (cache.Store, error) {
	switch c.CacheDriver {
	case "memory":
		return cache.NewMemory(), nil

	case "sqlite":
		path := c.CachePath
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			dir := filepath.Join(home, ".esmapper")
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
			path = filepath.Join(dir, "metadata.db")
		}
		return cache.NewSQLite(path)

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr, DB: c.RedisDB})
		return cache.NewRedis(cache.RedisConfig{Client: client})

	default:
		return nil, fmt.Errorf("unknown cache driver %q", c.CacheDriver)
	}
}

// LoadAnalysis parses the global analysis configuration file. An empty
// path yields a nil configuration, which compiles to indexes without an
// analysis section.
func (c *Config) LoadAnalysis() (mapping.AnalysisConfig, error) {
	if c.AnalysisPath == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(c.AnalysisPath)
	if err != nil {
		return nil, fmt.Errorf("read analysis config: %w", err)
	}
	var cfg mapping.AnalysisConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse analysis config: %w", err)
	}
	return cfg, nil
}
