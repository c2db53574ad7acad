package config_test

import (
	"testing"

	"github.com/horizonapp/core/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.App.Name != "Horizon" {
		t.Fatalf("expected app name Horizon, got %q", cfg.App.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Path != "data/horizon.db" || cfg.Storage.Bucket != "collections" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if !cfg.Seed.Enabled {
		t.Fatal("seeding must default to enabled")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_PATH", "/tmp/horizon-test.db")
	t.Setenv("SEED_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/tmp/horizon-test.db" {
		t.Fatalf("expected overridden storage path, got %q", cfg.Storage.Path)
	}
	if cfg.Seed.Enabled {
		t.Fatal("seed override did not take")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected an error for an out-of-range port")
	}
}
