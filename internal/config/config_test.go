package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChargilyMode != "test" {
		t.Fatalf("ChargilyMode = %q", cfg.ChargilyMode)
	}
	if cfg.WebhookPath != "/webhooks/chargily" {
		t.Fatalf("WebhookPath = %q", cfg.WebhookPath)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.StorageTTL != 7*24*time.Hour {
		t.Fatalf("StorageTTL = %v", cfg.StorageTTL)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CHARGILY_MODE", "live")
	t.Setenv("CHARGILY_SECRET_KEY", "live_sk_abc")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("STORAGE_TYPE", "none")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChargilyMode != "live" || cfg.ChargilySecretKey != "live_sk_abc" {
		t.Fatalf("unexpected chargily settings: %+v", cfg)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if err := cfg.RequireSecretKey(); err != nil {
		t.Fatalf("RequireSecretKey: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"mode":    {"CHARGILY_MODE", "staging"},
		"timeout": {"HTTP_TIMEOUT_SECONDS", "0"},
		"storage": {"STORAGE_TYPE", "redis"},
		"path":    {"WEBHOOK_PATH", "webhooks"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestRequireSecretKey(t *testing.T) {
	var cfg *Config
	if err := cfg.RequireSecretKey(); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if err := (&Config{}).RequireSecretKey(); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
