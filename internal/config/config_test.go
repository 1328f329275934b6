package config

import (
	"strings"
	"testing"
)

func TestResolvedAuthMode_ExplicitWins(t *testing.T) {
	cfg := &Config{AuthMode: "external", AuthIssuer: ""}
	if got := cfg.ResolvedAuthMode(); got != "external" {
		t.Errorf("expected explicit mode to win, got %q", got)
	}
}

func TestResolvedAuthMode_InferredFromIssuer(t *testing.T) {
	cfg := &Config{AuthIssuer: "https://id.example.com"}
	if got := cfg.ResolvedAuthMode(); got != "external" {
		t.Errorf("expected external when issuer set, got %q", got)
	}

	cfg = &Config{}
	if got := cfg.ResolvedAuthMode(); got != "standalone" {
		t.Errorf("expected standalone without issuer, got %q", got)
	}
}

func TestValidate_RejectsUnknownMode(t *testing.T) {
	cfg := &Config{AuthMode: "mystery", SessionTimeoutMinutes: 30}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown auth mode")
	}
	if !strings.Contains(err.Error(), "AUTH_MODE") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ExternalRequiresIssuer(t *testing.T) {
	cfg := &Config{AuthMode: "external", SessionTimeoutMinutes: 30}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when external mode has no issuer")
	}

	cfg.AuthIssuer = "https://id.example.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_StandaloneProductionRequiresKey(t *testing.T) {
	cfg := &Config{Env: "production", SessionTimeoutMinutes: 30}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error in production without signing key")
	}

	cfg.JWTSigningKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_DevAllowsMissingKey(t *testing.T) {
	cfg := &Config{Env: "development", SessionTimeoutMinutes: 30}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected dev config without key to validate, got %v", err)
	}
}

func TestValidate_SessionTimeoutMustBePositive(t *testing.T) {
	cfg := &Config{Env: "development", SessionTimeoutMinutes: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero session timeout")
	}

	cfg.SessionTimeoutMinutes = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative session timeout")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/healconnect")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.SessionTimeoutMinutes != 30 {
		t.Errorf("expected default session timeout 30, got %d", cfg.SessionTimeoutMinutes)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
}
