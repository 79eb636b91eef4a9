package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nidhogg/agentmatch/internal/cache"
	"github.com/nidhogg/agentmatch/internal/scoring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agentmatch.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8000 || cfg.Scoring.Weights != scoring.DefaultWeights() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadSubstitutesEnv(t *testing.T) {
	t.Setenv("AGENTMATCH_TEST_PORT", "9100")
	path := writeConfig(t, `{
		"server": {"port": ${AGENTMATCH_TEST_PORT}, "log_level": "${AGENTMATCH_TEST_LEVEL:debug}"},
		"catalog": {"path": "${AGENTMATCH_TEST_CATALOG:configs/agents.yaml}", "watch": true},
		"cache": {"backend": "memory", "ttl_seconds": 60}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("log level = %q, want default debug", cfg.Server.LogLevel)
	}
	if cfg.Catalog.Path != "configs/agents.yaml" || !cfg.Catalog.Watch {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	// Untouched sections keep their defaults.
	if cfg.Scoring.Weights != scoring.DefaultWeights() || cfg.Scoring.MaxFeatures != 5 {
		t.Errorf("scoring defaults lost: %+v", cfg.Scoring)
	}
	opts := cfg.Cache.Options()
	if opts.Backend != cache.BackendMemory || opts.TTL != time.Minute || opts.MaxEntries != 10000 {
		t.Errorf("cache options = %+v", opts)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{"server": `,
		"bad weights":    `{"scoring": {"weights": {"task": 0.9, "skill": 0.9, "language": 0, "complexity": 0}}}`,
		"bad port":       `{"server": {"port": 70000}}`,
		"redis no url":   `{"cache": {"backend": "redis"}}`,
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	_, err := Load(writeConfig(t, `{"cache": {"backend": "memcached"}}`))
	if !errors.Is(err, cache.ErrUnknownBackend) {
		t.Errorf("unknown backend err = %v, want ErrUnknownBackend", err)
	}
	_, err = Load(writeConfig(t, `{"scoring": {"weights": {"task": 1, "skill": 1}}}`))
	if !errors.Is(err, scoring.ErrInvalidWeights) {
		t.Errorf("weights err = %v, want ErrInvalidWeights", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
