package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quillmd/quill/internal/constants"
)

// GetConfigPath returns the config file path under the given home directory.
func GetConfigPath(home string) string {
	return filepath.Join(
		home,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// GetVaultPath returns the default vault file path under the home directory.
func GetVaultPath(home string) string {
	return filepath.Join(home, constants.ConfigDir, constants.VaultFile)
}

// GetLogPath returns the log file path under the home directory.
func GetLogPath(home string) string {
	return filepath.Join(home, constants.ConfigDir, constants.LogFile)
}

// EnsureConfigDir creates the config directory if it does not exist.
func EnsureConfigDir(home string) error {
	dir := filepath.Join(home, constants.ConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether a config file is present for the home directory.
func Exists(home string) bool {
	_, err := os.Stat(GetConfigPath(home))
	return err == nil
}
