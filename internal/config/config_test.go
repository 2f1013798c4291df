package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMergesYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
database:
  driver: Postgres
  dsn: postgres://u:p@db:5432/articles
schedule:
  intervalDays: 3
  timezone: Europe/Berlin
generator:
  model: local-model
images:
  provider: html
  endpoint: https://images.example.org/search
session:
  authorId: from-file
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(authorIDEnv, "from-env")
	t.Setenv(llmAPIKeyEnv, "secret")

	cfg := LoadFile(path)

	if cfg.Database.Driver != "postgres" {
		t.Fatalf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://u:p@db:5432/articles" {
		t.Fatalf("unexpected dsn: %s", cfg.Database.DSN)
	}
	if cfg.Schedule.Interval() != 72*time.Hour {
		t.Fatalf("unexpected interval: %s", cfg.Schedule.Interval())
	}
	if cfg.Generator.Model != "local-model" || cfg.Generator.APIKey != "secret" {
		t.Fatalf("unexpected generator config: %+v", cfg.Generator)
	}
	if cfg.Generator.Endpoint == "" {
		t.Fatalf("default endpoint should survive merge")
	}
	if cfg.Images.Provider != "html" {
		t.Fatalf("unexpected image provider: %s", cfg.Images.Provider)
	}
	if cfg.Session.AuthorID != "from-env" {
		t.Fatalf("env should override file author, got %s", cfg.Session.AuthorID)
	}
}

func TestLoadFileFallsBackOnUnknownTimezone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("schedule:\n  timezone: Mars/Olympus\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadFile(path)
	if cfg.Schedule.Location().String() != "UTC" {
		t.Fatalf("expected UTC, got %s", cfg.Schedule.Location())
	}
}

func TestLoadFileWithoutPathUsesDefaults(t *testing.T) {
	cfg := LoadFile("")
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected default driver: %s", cfg.Database.Driver)
	}
	if cfg.Schedule.Interval() != 7*24*time.Hour {
		t.Fatalf("unexpected default interval: %s", cfg.Schedule.Interval())
	}
}
