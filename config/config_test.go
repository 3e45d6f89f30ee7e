package config

import "testing"

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/takziv")
	t.Setenv("PORT", "8080")
	t.Setenv("STRICT_BUDGET", "true")
	t.Setenv("WEBHOOK_TOKEN_HASH", "$2a$10$abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/takziv" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if !cfg.StrictBudget {
		t.Error("StrictBudget = false, want true")
	}
	if cfg.WebhookTokenHash != "$2a$10$abc" {
		t.Errorf("WebhookTokenHash = %q", cfg.WebhookTokenHash)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want the default 5000", cfg.Port)
	}
}
