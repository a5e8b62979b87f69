// Package config loads and persists the application configuration: vault
// location, storage backend, graph ignore rules and assistant credentials.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StorageConfig selects the persistence backend for the corpus.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend string `yaml:"backend"  json:"backend"`
	// DSN applies to the postgres backend only.
	DSN string `yaml:"dsn"      json:"dsn"`
}

// GraphConfig tunes the wiki-link graph extraction.
type GraphConfig struct {
	// IgnoredFolders holds doublestar globs matched against folder paths;
	// notes in matching folders never appear in the graph.
	IgnoredFolders []string `yaml:"ignored_folders" json:"ignored_folders"`
}

// AssistantConfig points at the AI collaborator. APIKeyEnv names the
// environment variable holding the credential so the key itself never
// lands in the config file.
type AssistantConfig struct {
	Endpoint  string `yaml:"endpoint"    json:"endpoint"`
	Model     string `yaml:"model"       json:"model"`
	APIKeyEnv string `yaml:"api_key_env" json:"api_key_env"`
}

// BackupConfig points at the S3 bucket used by the backup command.
type BackupConfig struct {
	Bucket string `yaml:"bucket" json:"bucket"`
	Region string `yaml:"region" json:"region"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

type Config struct {
	VaultFile string          `yaml:"vault_file" json:"vault_file"`
	Editor    string          `yaml:"editor"     json:"editor"`
	Theme     string          `yaml:"theme"      json:"theme"`
	Storage   StorageConfig   `yaml:"storage"    json:"storage"`
	Graph     GraphConfig     `yaml:"graph"      json:"graph"`
	Assistant AssistantConfig `yaml:"assistant"  json:"assistant"`
	Backup    BackupConfig    `yaml:"backup"     json:"backup"`

	home string `yaml:"-"`
}

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Load reads the config file under the home directory, applying defaults
// for anything unset. A missing or empty file yields the default config.
func Load(home string) (*Config, error) {
	cfg := &Config{home: home}

	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.ensureDefaults()
	cfg.syncViper()
	return cfg, nil
}

func (cfg *Config) ensureDefaults() {
	if cfg.VaultFile == "" {
		cfg.VaultFile = GetVaultPath(cfg.home)
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = "gpt-4o-mini"
	}
	if cfg.Assistant.APIKeyEnv == "" {
		cfg.Assistant.APIKeyEnv = "QUILL_API_KEY"
	}
	if cfg.Theme == "" {
		cfg.Theme = "auto"
	}
}

// syncViper mirrors the effective settings into viper so flags and env
// variables resolve against the loaded values.
func (cfg *Config) syncViper() {
	viper.Set("vault_file", cfg.VaultFile)
	viper.Set("editor", cfg.Editor)
	viper.Set("theme", cfg.Theme)
	viper.Set("storage_backend", cfg.Storage.Backend)
	viper.Set("assistant_model", cfg.Assistant.Model)
}

// ValidateBackend rejects unknown storage backends.
func ValidateBackend(backend string) error {
	switch backend {
	case BackendFile, BackendPostgres:
		return nil
	default:
		return fmt.Errorf("invalid storage backend: %q. Please choose 'file' or 'postgres'.", backend)
	}
}

// APIKey resolves the assistant credential from the configured environment
// variable. Empty means the collaborator is absent, which is a supported
// state, not an error.
func (cfg *Config) APIKey() string {
	return os.Getenv(cfg.Assistant.APIKeyEnv)
}

// Save writes the config back to its file.
func (cfg *Config) Save() error {
	if err := EnsureConfigDir(cfg.home); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	path := GetConfigPath(cfg.home)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	cfg.syncViper()
	return nil
}
