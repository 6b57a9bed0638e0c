package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "memo-cli"
	keyringUser    = "deepseek-api-key"
	apiKeyFileName = ".api_key"
)

// ErrNoAPIKey is returned when no API key has been stored.
var ErrNoAPIKey = errors.New("no API key configured, run 'memo setup api-key' first")

// ValidateAPIKey checks the shape of a candidate key: at least 10
// characters, starting with "sk-".
func ValidateAPIKey(key string) error {
	if len(key) < 10 {
		return fmt.Errorf("API key too short")
	}
	if !strings.HasPrefix(key, "sk-") {
		return fmt.Errorf("API key must start with \"sk-\"")
	}
	return nil
}

// SetAPIKey stores the key in the system keyring, falling back to a
// restricted file when no keyring is available.
func SetAPIKey(key string) error {
	if err := ValidateAPIKey(key); err != nil {
		return err
	}
	if err := keyring.Set(keyringService, keyringUser, key); err == nil {
		return nil
	}
	return setAPIKeyFile(key)
}

// GetAPIKey reads the stored key, preferring the keyring over the file
// fallback. The MEMO_API_KEY environment variable overrides both.
func GetAPIKey() (string, error) {
	if key := os.Getenv("MEMO_API_KEY"); key != "" {
		return key, nil
	}
	if key, err := keyring.Get(keyringService, keyringUser); err == nil && key != "" {
		return key, nil
	}
	key, err := getAPIKeyFile()
	if err != nil {
		return "", err
	}
	return key, nil
}

// DeleteAPIKey removes the key from both stores.
func DeleteAPIKey() error {
	keyringErr := keyring.Delete(keyringService, keyringUser)
	fileErr := deleteAPIKeyFile()
	if keyringErr != nil && fileErr != nil {
		return ErrNoAPIKey
	}
	return nil
}

// HasAPIKey reports whether a key is available from any source.
func HasAPIKey() bool {
	key, err := GetAPIKey()
	return err == nil && key != ""
}

func apiKeyFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, apiKeyFileName), nil
}

func setAPIKeyFile(key string) error {
	path, err := apiKeyFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(key), 0600); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

func getAPIKeyFile() (string, error) {
	path, err := apiKeyFilePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoAPIKey
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func deleteAPIKeyFile() error {
	path, err := apiKeyFilePath()
	if err != nil {
		return err
	}
	return os.Remove(path)
}
