package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bjg/skeduleslive-streamlit/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("SKEDULESLIVE_API_KEY", "skd-test")
	t.Setenv("SKEDULESLIVE_BASE_URL", "")
	t.Setenv("SKEDULESLIVE_EMAIL", "")
	t.Setenv("SKEDULESLIVE_PASSWORD", "")
	// point SKD_CONFIG at a file that exists only when a test writes it
	t.Setenv("SKD_CONFIG", "")
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("base url: want %q, got %q", config.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("timeout: want 30s, got %v", cfg.HTTPTimeout)
	}
	if cfg.Retry.MaxRetries != 1 {
		t.Errorf("retry: want 1, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.MaxRounds != 0 {
		t.Errorf("maxRounds should be unset by default, got %d", cfg.MaxRounds)
	}
}

func TestLoad_MissingCredentialsFatal(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("expected ANTHROPIC_API_KEY error, got %v", err)
	}

	setRequiredEnv(t)
	t.Setenv("SKEDULESLIVE_API_KEY", "")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "SKEDULESLIVE_API_KEY") {
		t.Fatalf("expected SKEDULESLIVE_API_KEY error, got %v", err)
	}
}

func TestLoad_FileOverlay(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	yaml := `
model: claude-3-5-haiku-latest
maxRounds: 4
httpTimeoutMs: 5000
retry:
  maxRetries: 0
  backoffMs: 100
  maxBackoffMs: 1000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKD_CONFIG", path)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "claude-3-5-haiku-latest" {
		t.Errorf("model: got %q", cfg.Model)
	}
	if cfg.MaxRounds != 4 {
		t.Errorf("maxRounds: want 4, got %d", cfg.MaxRounds)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("timeout: want 5s, got %v", cfg.HTTPTimeout)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("retry maxRetries: want 0 (explicit), got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.Backoff != 100*time.Millisecond {
		t.Errorf("retry backoff: got %v", cfg.Retry.Backoff)
	}
}

func TestLoad_ExplicitMissingFileFatal(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SKD_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := config.Load(); err == nil {
		t.Fatal("an explicitly named missing config file should be fatal")
	}
}

func TestLoad_AbsentDefaultFileIgnored(t *testing.T) {
	setRequiredEnv(t)
	// cwd is an empty temp dir; assistant.yaml does not exist there
	if _, err := config.Load(); err != nil {
		t.Fatalf("absent default file must be ignored: %v", err)
	}
}

func TestClientConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SKEDULESLIVE_BASE_URL", "https://skdl.es")
	t.Setenv("SKEDULESLIVE_EMAIL", "owner@skdl.es")
	t.Setenv("SKEDULESLIVE_PASSWORD", "hunter2")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cc := cfg.ClientConfig()
	if cc.BaseURL != "https://skdl.es" || cc.APIKey != "skd-test" {
		t.Fatalf("client config mismatch: %+v", cc)
	}
	if cc.Email != "owner@skdl.es" || cc.Password != "hunter2" {
		t.Fatalf("credentials must reach the client config: %+v", cc)
	}
	if err := cc.Validate(); err != nil {
		t.Fatalf("derived client config should validate: %v", err)
	}
}
