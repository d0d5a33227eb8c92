package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Fatalf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "./campusmart.db" {
		t.Fatalf("unexpected default db path %q", cfg.Database.Path)
	}
	if !cfg.Seed.Enabled {
		t.Fatal("seeding defaults to enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
version: 1
server:
  addr: ":9000"
database:
  path: /var/lib/campusmart/store.db
  log_retention: 250
seed:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got != path {
		t.Fatalf("expected path %q, got %q", path, got)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "/var/lib/campusmart/store.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Database.LogRetention != 250 {
		t.Fatalf("unexpected log retention %d", cfg.Database.LogRetention)
	}
	if cfg.Seed.Enabled {
		t.Fatal("seed must be disabled by file")
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("missing addr must default, got %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "./campusmart.db" {
		t.Fatalf("missing db path must default, got %q", cfg.Database.Path)
	}
}

func TestLoadFromPathRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("version: [not a number"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := LoadFromPath(badYAML); err == nil {
		t.Fatal("expected parse error")
	}

	badVersion := filepath.Join(dir, "version.yaml")
	if err := os.WriteFile(badVersion, []byte("version: 9\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := LoadFromPath(badVersion); err == nil {
		t.Fatal("expected version error")
	}

	badRetention := filepath.Join(dir, "retention.yaml")
	if err := os.WriteFile(badRetention, []byte("version: 1\ndatabase:\n  log_retention: -5\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := LoadFromPath(badRetention); err == nil {
		t.Fatal("expected retention error")
	}

	if _, _, err := LoadFromPath(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CAMPUSMART_ADDR", ":7777")
	t.Setenv("CAMPUSMART_DB", "/tmp/env.db")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Server.Addr != ":7777" {
		t.Fatalf("env addr not applied, got %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Fatalf("env db path not applied, got %q", cfg.Database.Path)
	}
}

func TestFindConfigPathEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	if got := FindConfigPath(); got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":6060"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save config: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if loaded.Server.Addr != ":6060" {
		t.Fatalf("round trip lost addr, got %q", loaded.Server.Addr)
	}
}
