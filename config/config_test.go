package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bamboo-mc/bamboo/config"
)

func TestLoadProxyConfigWritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.toml")

	cfg, err := config.LoadProxyConfig(path)
	if err != nil {
		t.Fatalf("LoadProxyConfig: %v", err)
	}
	if cfg != config.DefaultProxyConfig() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}
}

func TestLoadProxyConfigReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.toml")
	contents := "listen_to = \":25566\"\nonline_mode = false\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := config.LoadProxyConfig(path)
	if err != nil {
		t.Fatalf("LoadProxyConfig: %v", err)
	}
	if cfg.ListenTo != ":25566" || cfg.OnlineMode {
		t.Fatalf("got %+v, want overrides applied on top of defaults", cfg)
	}
	// Fields not present in the fixture should keep their defaults.
	if cfg.Workers.BackpressureHi != config.DefaultProxyConfig().Workers.BackpressureHi {
		t.Fatalf("expected unset fields to retain defaults, got %+v", cfg)
	}
}

func TestLoadServerConfigWritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")

	cfg, err := config.LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg != config.DefaultServerConfig() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}
}
