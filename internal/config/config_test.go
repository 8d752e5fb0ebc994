package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval %s, got %s", defaultPollInterval, cfg.PollInterval)
	}
	if cfg.SourceTimeout != defaultSourceTimeout || cfg.SourceRetries != defaultSourceRetries {
		t.Fatalf("unexpected source defaults: %s / %d", cfg.SourceTimeout, cfg.SourceRetries)
	}
	if cfg.CustomStore.Backend != BackendFixture {
		t.Fatalf("expected fixture backend by default, got %s", cfg.CustomStore.Backend)
	}
	if cfg.APISports.BaseURL != defaultAPISportsBaseURL || cfg.FootballData.BaseURL != defaultFootballDataBaseURL {
		t.Fatalf("unexpected upstream base urls: %+v %+v", cfg.APISports, cfg.FootballData)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors by default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("expected default service name, got %s", cfg.Metrics.ServiceName)
	}
}

func TestSourcesWithoutKeysAreInactive(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APISports.Active() || cfg.FootballData.Active() {
		t.Fatalf("expected api sources inactive without keys")
	}

	t.Setenv(envAPISportsKey, "key")
	t.Setenv(envFootballDataToken, "token")
	t.Setenv(envFootballDataEnabled, "false")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.APISports.Active() {
		t.Fatalf("expected api-sports active with a key")
	}
	if cfg.FootballData.Active() {
		t.Fatalf("expected football-data disabled by flag")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envPollInterval, "45s")
	t.Setenv(envSourceRetries, "2")
	t.Setenv(envTimezone, "Europe/Berlin")
	t.Setenv(envCORSOrigins, "https://a.example, https://b.example")
	t.Setenv(envCustomStore, BackendFirestore)
	t.Setenv(envFirestoreProject, "scores-prod")
	t.Setenv(envRedisURL, "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Fatalf("expected poll interval 45s, got %s", cfg.PollInterval)
	}
	if cfg.SourceRetries != 2 {
		t.Fatalf("expected two retries, got %d", cfg.SourceRetries)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Fatalf("expected timezone override, got %s", cfg.Timezone)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected two cors origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CustomStore.ProjectID != "scores-prod" || cfg.Redis.URL == "" {
		t.Fatalf("unexpected overrides: %+v %+v", cfg.CustomStore, cfg.Redis)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on invalid value, got %s", cfg.PollInterval)
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on non-positive value, got %s", cfg.PollInterval)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		envTimezone:    "Mars/Olympus",
		envCustomStore: "postgres",
		envLogLevel:    "verbose",
		envPort:        "http",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", key, val)
			}
		})
	}
}

func TestFirestoreRequiresProject(t *testing.T) {
	t.Setenv(envCustomStore, BackendFirestore)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when firestore project is missing")
	}
}

func TestLoadFileOverlayThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
port: "8080"
poll_interval: 30s
timezone: Asia/Tokyo
apisports:
  enabled: true
  base_url: https://proxy.example/apisports
  api_key: from-file
  host: v3.football.api-sports.io
log:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigFile, path)
	t.Setenv(envPort, "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Fatalf("expected env to win over file, got %s", cfg.Port)
	}
	if cfg.PollInterval != 30*time.Second || cfg.Timezone != "Asia/Tokyo" {
		t.Fatalf("expected file values, got %s %s", cfg.PollInterval, cfg.Timezone)
	}
	if cfg.APISports.APIKey != "from-file" || cfg.APISports.BaseURL != "https://proxy.example/apisports" {
		t.Fatalf("expected api-sports from file, got %+v", cfg.APISports)
	}
	if cfg.FootballData.BaseURL != defaultFootballDataBaseURL {
		t.Fatalf("expected untouched sections to keep defaults, got %s", cfg.FootballData.BaseURL)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Fatalf("expected log settings from file, got %+v", cfg.Log)
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Setenv(envConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigFile, path)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed file")
	}
}

func TestDefaultMakesNoInCycleRetries(t *testing.T) {
	if got := Default().SourceRetries; got != 0 {
		t.Fatalf("expected failed sources to wait for the next cycle, got %d retries", got)
	}
}
