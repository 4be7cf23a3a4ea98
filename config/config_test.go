package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RedirectBaseURL != "http://localhost:8080" {
		t.Errorf("Expected default redirect base, got %s", cfg.RedirectBaseURL)
	}
	if cfg.DBPath == "" {
		t.Error("Expected a default database path")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("GOOGLE_CLIENT_ID", "env-client-id")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("Expected port 9999 from env, got %s", cfg.Port)
	}
	if cfg.GoogleClientID != "env-client-id" {
		t.Errorf("Expected client id from env, got %s", cfg.GoogleClientID)
	}
}
