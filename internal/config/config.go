// Package config manages the per-user configuration file and API key
// storage.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/silenthink/memo-cli/internal/auth"
)

const (
	configDirName  = ".memo"
	configFileName = "config.json"
	backupDirName  = "backups"
	dbFileName     = "memo.db"
)

// Config is the on-disk user configuration, stored as JSON under
// ~/.memo/config.json.
type Config struct {
	// Session is the current login, nil when logged out.
	Session *auth.Session `json:"session,omitempty"`
	// DatabasePath overrides the default sqlite file location.
	DatabasePath string `json:"databasePath,omitempty"`
	// BackupDir overrides the default backup directory.
	BackupDir string `json:"backupDir,omitempty"`
	// DefaultSort overrides the default list order.
	DefaultSort string `json:"defaultSort,omitempty"`
}

// Dir returns the configuration directory, ~/.memo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the configuration. A missing file yields the zero config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration, creating the directory when needed.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ResolveDatabasePath returns the sqlite file path, honoring the config
// override.
func (c *Config) ResolveDatabasePath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// ResolveBackupDir returns the backup directory, honoring the config
// override.
func (c *Config) ResolveBackupDir() (string, error) {
	if c.BackupDir != "" {
		return c.BackupDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, backupDirName), nil
}
