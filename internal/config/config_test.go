package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeYAML(t, "app:\n  app_env: dev\n"))
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr default: %q", cfg.Server.Addr)
	}
	if cfg.Cache.Kind != "memory" {
		t.Fatalf("cache default: %q", cfg.Cache.Kind)
	}
	if cfg.Webhook.Tolerance != 5*time.Minute {
		t.Fatalf("tolerance default: %v", cfg.Webhook.Tolerance)
	}
	if cfg.Webhook.ReplayTTL != 24*time.Hour {
		t.Fatalf("replay ttl default: %v", cfg.Webhook.ReplayTTL)
	}
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_abc")

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Storage.DSN != "postgres://env" {
		t.Fatalf("dsn: %q", cfg.Storage.DSN)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate err: %v", err)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_env")
	t.Setenv("HTTP_ADDR", ":9999")

	path := writeYAML(t, "server:\n  addr: \":8080\"\nwebhook:\n  clerk_secret: whsec_yaml\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Webhook.ClerkSecret != "whsec_env" {
		t.Fatalf("env should win: %q", cfg.Webhook.ClerkSecret)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr: %q", cfg.Server.Addr)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg, err := Load(writeYAML(t, "app: {}\n"))
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	// Sin secret ni DSN: fatal, no degradable.
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without secret")
	}

	cfg.Webhook.ClerkSecret = "whsec_x"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without dsn")
	}

	cfg.Storage.DSN = "postgres://x"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate err: %v", err)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeYAML(t, "storage:\n  postgres:\n    conn_max_lifetime: \"not-a-duration\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duration parse error")
	}
}
