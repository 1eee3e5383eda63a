package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if !strings.Contains(cfg.DatabaseURL, "postgres://") {
		t.Errorf("DatabaseURL = %q, want a postgres URL", cfg.DatabaseURL)
	}
	if cfg.DocumentDir == "" || cfg.StaticDir == "" {
		t.Error("directory defaults must not be empty")
	}
	if !strings.Contains(cfg.AllowedOrigins, ",") {
		t.Errorf("AllowedOrigins = %q, want a comma list", cfg.AllowedOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.JWTSecret != "prod-secret" {
		t.Errorf("JWTSecret = %q, want override", cfg.JWTSecret)
	}
	if cfg.AllowedOrigins != "https://app.example.com" {
		t.Errorf("AllowedOrigins = %q, want override", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("Load accepted a non-numeric PORT")
	}
}
