package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultsWithoutSettingsFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.CachePath != filepath.Join(dir, "stats.json") {
		t.Fatalf("unexpected cache path: %s", cfg.CachePath)
	}
	if cfg.DBPath != filepath.Join(dir, "pomo.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if !cfg.DarkScheme() {
		t.Fatalf("dark scheme must be the default")
	}
	token, err := cfg.Credential()
	if err != nil || token != "" {
		t.Fatalf("expected no credential, got %q %v", token, err)
	}
}

func TestNewReadsSettings(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := "theme: light\ntoken: abc123\nprovider_binary: /usr/local/bin/pomo-provider\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DarkScheme() {
		t.Fatalf("light theme must switch the scheme")
	}
	token, err := cfg.Credential()
	if err != nil || token != "abc123" {
		t.Fatalf("unexpected credential: %q %v", token, err)
	}
	if cfg.Settings.ProviderBinary != "/usr/local/bin/pomo-provider" {
		t.Fatalf("unexpected provider binary: %s", cfg.Settings.ProviderBinary)
	}
}

func TestCredentialPrefersInlineToken(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write token file: %v", err)
	}

	cfg := Config{Settings: Settings{Token: "inline", TokenFile: tokenFile}}
	token, err := cfg.Credential()
	if err != nil || token != "inline" {
		t.Fatalf("inline token must win, got %q %v", token, err)
	}

	cfg.Settings.Token = ""
	token, err = cfg.Credential()
	if err != nil || token != "from-file" {
		t.Fatalf("token file must be read and trimmed, got %q %v", token, err)
	}
}
