package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	perrors "sauc-client-go/internal/platform/errors"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
credentials:
  app_key: "app-123"
  access_token: "token-456"
endpoint:
  variant: "streaming_input"
timeouts:
  connect_ms: 5000
  poll_ms: 50
log:
  log_level: "DEBUG"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader(configFile).WithDotEnv(false)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Credentials.AppKey != "app-123" {
		t.Errorf("expected app key app-123, got %s", cfg.Credentials.AppKey)
	}
	if cfg.Endpoint.Variant != "streaming_input" {
		t.Errorf("expected variant streaming_input, got %s", cfg.Endpoint.Variant)
	}
	if cfg.Timeouts.Connect() != 5*time.Second {
		t.Errorf("expected connect timeout 5s, got %v", cfg.Timeouts.Connect())
	}
	if cfg.Timeouts.Poll() != 50*time.Millisecond {
		t.Errorf("expected poll timeout 50ms, got %v", cfg.Timeouts.Poll())
	}
	// Omitted fields fall back to defaults.
	if cfg.Credentials.ResourceID != "volc.bigasr.sauc.duration" {
		t.Errorf("expected default resource id, got %s", cfg.Credentials.ResourceID)
	}
	if cfg.Timeouts.Final() != 10*time.Second {
		t.Errorf("expected default final timeout 10s, got %v", cfg.Timeouts.Final())
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
credentials:
  app_key: "file-key"
  access_token: "file-token"
`
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(EnvAppKey, "env-key")
	t.Setenv(EnvResourceID, "volc.bigasr.sauc.concurrent")

	cfg, err := NewLoader(configFile).WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Credentials.AppKey != "env-key" {
		t.Errorf("environment should override file, got %s", cfg.Credentials.AppKey)
	}
	if cfg.Credentials.AccessToken != "file-token" {
		t.Errorf("file value should survive when env unset, got %s", cfg.Credentials.AccessToken)
	}
	if cfg.Credentials.ResourceID != "volc.bigasr.sauc.concurrent" {
		t.Errorf("expected env resource id, got %s", cfg.Credentials.ResourceID)
	}
}

func TestLoader_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "missing app key",
			config: &Config{Credentials: CredentialsConfig{AccessToken: "t"}},
		},
		{
			name:   "missing access token",
			config: &Config{Credentials: CredentialsConfig{AppKey: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !perrors.IsKind(err, perrors.KindConfig) {
				t.Errorf("expected config error kind, got %v", err)
			}
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader("/nonexistent/config.yaml").WithDotEnv(false).Load()
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !perrors.IsKind(err, perrors.KindConfig) {
		t.Errorf("expected config error kind, got %v", err)
	}
}
