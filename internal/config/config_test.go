package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("default backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	if cfg.VaultFile != GetVaultPath(home) {
		t.Errorf("default vault = %q, want %q", cfg.VaultFile, GetVaultPath(home))
	}
	if cfg.Assistant.APIKeyEnv == "" {
		t.Error("expected a default api key env name")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Theme = "dark"
	cfg.Graph.IgnoredFolders = []string{"archive/**"}
	cfg.Storage.Backend = BackendPostgres
	cfg.Storage.DSN = "postgres://localhost/quill"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(home)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Theme != "dark" {
		t.Errorf("theme = %q, want dark", got.Theme)
	}
	if len(got.Graph.IgnoredFolders) != 1 || got.Graph.IgnoredFolders[0] != "archive/**" {
		t.Errorf("ignored folders = %v", got.Graph.IgnoredFolders)
	}
	if got.Storage.Backend != BackendPostgres || got.Storage.DSN == "" {
		t.Errorf("storage = %+v", got.Storage)
	}
}

func TestValidateBackend(t *testing.T) {
	if err := ValidateBackend(BackendFile); err != nil {
		t.Errorf("file backend rejected: %v", err)
	}
	if err := ValidateBackend("sqlite"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	home := t.TempDir()
	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Setenv(cfg.Assistant.APIKeyEnv, "sk-test")
	if got := cfg.APIKey(); got != "sk-test" {
		t.Errorf("APIKey = %q", got)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	if err := EnsureConfigDir(home); err != nil {
		t.Fatalf("EnsureConfigDir: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(GetConfigPath(home))); err != nil {
		t.Fatalf("config dir missing: %v", err)
	}
}
