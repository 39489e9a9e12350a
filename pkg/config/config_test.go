package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, `
server:
  root: "`+root+`"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Expected default listen ':8080', got %q", cfg.Server.Listen)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Thumbnails.Size != 150 {
		t.Errorf("Expected default thumbnail size 150, got %d", cfg.Thumbnails.Size)
	}
	if cfg.Thumbnails.JPEGQuality != 85 {
		t.Errorf("Expected default jpeg quality 85, got %d", cfg.Thumbnails.JPEGQuality)
	}
	if cfg.Thumbnails.Cache.Type != "memory" {
		t.Errorf("Expected default cache type 'memory', got %q", cfg.Thumbnails.Cache.Type)
	}
	if cfg.Metrics.Listen != ":9090" {
		t.Errorf("Expected default metrics listen ':9090', got %q", cfg.Metrics.Listen)
	}
	if cfg.Server.RateLimit.RequestsPerSecond != 25 || cfg.Server.RateLimit.Burst != 50 {
		t.Errorf("Expected default rate limit 25/50, got %v/%d",
			cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst)
	}
}

func TestLoad_LevelNormalized(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, `
logging:
  level: "debug"
server:
  root: "`+root+`"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingRootFails(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "INFO"
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error without server.root")
	}
}

func TestLoad_RootMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	configPath := writeConfig(t, `
server:
  root: "`+file+`"
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error for non-directory root")
	}
}

func TestLoad_BadgerCacheRequiresPath(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, `
server:
  root: "`+root+`"
thumbnails:
  enabled: true
  cache:
    type: "badger"
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error for badger cache without path")
	}
}

func TestLoad_InvalidLevelFails(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, `
logging:
  level: "LOUD"
server:
  root: "`+root+`"
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error for unknown log level")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, `
server:
  root: "`+root+`"
  listen: ":8080"
`)

	t.Setenv("WEBINDEXER_SERVER_LISTEN", ":9999")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("Expected env override ':9999', got %q", cfg.Server.Listen)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `{{{not yaml`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}
