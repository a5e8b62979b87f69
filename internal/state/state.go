// Package state wires the config, store, templater and watcher into the
// shared application state used by the commands and the TUI.
package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/quillmd/quill/internal/applog"
	"github.com/quillmd/quill/internal/assistant"
	"github.com/quillmd/quill/internal/config"
	"github.com/quillmd/quill/internal/constants"
	"github.com/quillmd/quill/internal/store"
	"github.com/quillmd/quill/internal/templater"
)

type State struct {
	Config    *config.Config
	Store     store.Store
	Templater *templater.Templater
	Assistant *assistant.Client
	Logger    *applog.Logger
	Home      string
	Watcher   *VaultWatcher

	logCleanup func()
}

// NewState loads the config and opens the configured storage backend. The
// watcher is only attached for the file backend.
func NewState(ctx context.Context) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := applog.NewFileLogger(config.GetLogPath(home))
	if err != nil {
		logger = applog.Discard()
		cleanup = func() {}
	}

	t, err := templater.NewTemplater(filepath.Join(home, constants.ConfigDir, "templates"))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create templater: %v", err)
	}

	s := &State{
		Config:     cfg,
		Templater:  t,
		Logger:     logger,
		Home:       home,
		Assistant:  assistant.New(cfg.Assistant.Endpoint, cfg.Assistant.Model, cfg.APIKey()),
		logCleanup: cleanup,
	}

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err := store.OpenPGStore(ctx, cfg.Storage.DSN)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		s.Store = pg
	default:
		fs, err := store.OpenFileStore(cfg.VaultFile)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to open vault %s: %w", cfg.VaultFile, err)
		}
		s.Store = fs

		watcher, err := NewVaultWatcher(cfg.VaultFile)
		if err != nil {
			logger.Warn("vault watcher unavailable", "err", err)
		} else {
			watcher.OnClose(func() {
				logger.Debug("vault watcher stopped", "vault", cfg.VaultFile)
			})
			s.Watcher = watcher
		}
	}

	return s, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(filepath.Join(home, constants.ConfigDir))
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	if err := config.EnsureConfigDir(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close flushes the store and releases the watcher and log file.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil && !errors.Is(err, store.ErrClosed) {
			errs = append(errs, err)
		}
		s.Store = nil
	}
	if s.logCleanup != nil {
		s.logCleanup()
		s.logCleanup = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
