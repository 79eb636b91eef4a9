package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/nidhogg/agentmatch/internal/cache"
	"github.com/nidhogg/agentmatch/internal/scoring"
)

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Catalog  CatalogConfig  `json:"catalog"`
	Taxonomy TaxonomyConfig `json:"taxonomy"`
	Scoring  ScoringConfig  `json:"scoring"`
	Cache    CacheConfig    `json:"cache"`
}

type ServerConfig struct {
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
}

// CatalogConfig points at a YAML agent catalog. An empty path serves the
// built-in catalog.
type CatalogConfig struct {
	Path  string `json:"path"`
	Watch bool   `json:"watch"`
}

type TaxonomyConfig struct {
	Path string `json:"path"`
}

type ScoringConfig struct {
	Weights     scoring.Weights `json:"weights"`
	MaxFeatures int             `json:"max_features"`
}

type CacheConfig struct {
	Backend    string `json:"backend"`
	RedisURL   string `json:"redis_url"`
	TTLSeconds int    `json:"ttl_seconds"`
	MaxEntries int64  `json:"max_entries"`
}

// Options converts the section into cache options.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{
		Backend:    c.Backend,
		RedisURL:   c.RedisURL,
		TTL:        time.Duration(c.TTLSeconds) * time.Second,
		MaxEntries: c.MaxEntries,
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8000, LogLevel: "info"},
		Scoring: ScoringConfig{Weights: scoring.DefaultWeights(), MaxFeatures: 5},
		Cache:   CacheConfig{Backend: cache.BackendNone, TTLSeconds: 300, MaxEntries: 10000},
	}
}

// envVarRe matches ${VAR} and ${VAR:default} patterns.
var envVarRe = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// Load reads a JSON config file and substitutes environment variable
// references. Fields absent from the file keep their defaults; an empty
// path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Substitute ${VAR} and ${VAR:default} with environment values.
	resolved := envVarRe.ReplaceAllStringFunc(string(data), func(match string) string {
		parts := envVarRe.FindStringSubmatch(match)
		name := parts[1]
		defaultVal := parts[2]
		if v := os.Getenv(name); v != "" {
			return v
		}
		return defaultVal
	})

	if err := json.Unmarshal([]byte(resolved), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendMemory:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend %q: %w", c.Cache.Backend, cache.ErrUnknownBackend)
	}
	return nil
}
