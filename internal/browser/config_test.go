package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vulpes.yaml")
	data := []byte(`
userAgent: "test-agent/1.0"
fetch:
  maxAttempts: 3
  hostRPS: 2.5
cache:
  dir: /tmp/vulpes-cache
  clear: true
history:
  disable: true
verbose: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.UserAgent != "test-agent/1.0" || fc.Fetch.MaxAttempts != 3 || fc.Fetch.HostRPS != 2.5 {
		t.Fatalf("unexpected file config: %+v", fc)
	}
	if fc.Cache.Dir != "/tmp/vulpes-cache" || !fc.Cache.Clear || !fc.History.Disable || !fc.Verbose {
		t.Fatalf("unexpected file config: %+v", fc)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vulpes.json")
	data := []byte(`{"userAgent":"json-agent","fetch":{"maxAttempts":5}}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.UserAgent != "json-agent" || fc.Fetch.MaxAttempts != 5 {
		t.Fatalf("unexpected file config: %+v", fc)
	}
}

func TestApplyFileConfig_DoesNotOverrideExplicit(t *testing.T) {
	var fc FileConfig
	fc.UserAgent = "from-file"
	fc.Fetch.MaxAttempts = 7
	fc.Cache.Dir = "file-cache"

	cfg := Config{UserAgent: "from-flag"}
	ApplyFileConfig(&cfg, fc)
	if cfg.UserAgent != "from-flag" {
		t.Fatalf("flag value overridden: %q", cfg.UserAgent)
	}
	if cfg.MaxAttempts != 7 || cfg.CacheDir != "file-cache" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestApplyEnvToConfig(t *testing.T) {
	t.Setenv("VULPES_USER_AGENT", "env-agent")
	t.Setenv("VULPES_TIMEOUT", "7s")
	t.Setenv("VULPES_HOST_RPS", "1.5")
	t.Setenv("VULPES_HISTORY_OFF", "true")

	cfg := Config{}
	ApplyEnvToConfig(&cfg)
	if cfg.UserAgent != "env-agent" {
		t.Fatalf("expected env user agent, got %q", cfg.UserAgent)
	}
	if cfg.RequestTimeout != 7*time.Second {
		t.Fatalf("expected 7s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.HostRPS != 1.5 || !cfg.DisableHistory {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestApplyEnvToConfig_ExplicitWins(t *testing.T) {
	t.Setenv("VULPES_USER_AGENT", "env-agent")
	cfg := Config{UserAgent: "explicit"}
	ApplyEnvToConfig(&cfg)
	if cfg.UserAgent != "explicit" {
		t.Fatalf("expected explicit value kept, got %q", cfg.UserAgent)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	if cfg.UserAgent == "" || cfg.RequestTimeout == 0 || cfg.MaxAttempts == 0 || cfg.MaxConcurrent == 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
