package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFile_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")

	_, err := LoadFile("")
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "APP_NAME") || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected both keys in error, got %q", err.Error())
	}
}

func TestLoadFile_EnvAndDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "skill-alert")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DISPATCH_WORKERS", "0")
	t.Setenv("DISPATCH_LOCK_TTL", "10m")
	t.Setenv("DISPATCH_LINK_BASE_URL", "https://example.com/")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Name != "skill-alert" || cfg.App.HTTPPort != "8080" {
		t.Fatalf("unexpected app config: %+v", cfg.App)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != "5432" || cfg.Database.PoolMaxConns != 10 {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Dispatch.Workers != 1 {
		t.Fatalf("expected worker count to be raised to 1, got %d", cfg.Dispatch.Workers)
	}
	if cfg.Dispatch.LockTTL != 10*time.Minute {
		t.Fatalf("expected lock ttl 10m, got %v", cfg.Dispatch.LockTTL)
	}
	if cfg.Dispatch.Spec != "@every 4h" || cfg.Dispatch.DigestSpec != "@hourly" {
		t.Fatalf("unexpected schedule defaults: %+v", cfg.Dispatch)
	}
	if cfg.Dispatch.LinkBaseURL != "https://example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Dispatch.LinkBaseURL)
	}
	if cfg.AMQP.Enabled() {
		t.Fatalf("expected amqp disabled without url")
	}
}

func TestLoadFile_ConfigFile(t *testing.T) {
	t.Setenv("APP_NAME", "skill-alert")
	t.Setenv("APP_ENV", "test")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "redis_host: cache\nredis_ttl: 2h\namqp_url: amqp://guest:guest@mq:5672/\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.Host != "cache" || cfg.Redis.TTL != 2*time.Hour {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if !cfg.AMQP.Enabled() || cfg.AMQP.Exchange != "notifications" {
		t.Fatalf("unexpected amqp config: %+v", cfg.AMQP)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
