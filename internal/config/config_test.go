package config

import (
	"path/filepath"
	"testing"

	"github.com/silenthink/memo-cli/internal/auth"
)

func TestLoadMissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session != nil {
		t.Errorf("fresh config has a session: %+v", cfg.Session)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{
		Session:     &auth.Session{Username: "ada", Token: "tok-1"},
		DefaultSort: "priority-desc",
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Session == nil || loaded.Session.Username != "ada" || loaded.Session.Token != "tok-1" {
		t.Errorf("session = %+v", loaded.Session)
	}
	if loaded.DefaultSort != "priority-desc" {
		t.Errorf("defaultSort = %q", loaded.DefaultSort)
	}
}

func TestResolvePaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("defaults under the config dir", func(t *testing.T) {
		cfg := &Config{}
		db, err := cfg.ResolveDatabasePath()
		if err != nil {
			t.Fatalf("ResolveDatabasePath: %v", err)
		}
		if want := filepath.Join(home, ".memo", "memo.db"); db != want {
			t.Errorf("db path = %q, want %q", db, want)
		}
		backups, err := cfg.ResolveBackupDir()
		if err != nil {
			t.Fatalf("ResolveBackupDir: %v", err)
		}
		if want := filepath.Join(home, ".memo", "backups"); backups != want {
			t.Errorf("backup dir = %q, want %q", backups, want)
		}
	})

	t.Run("overrides win", func(t *testing.T) {
		cfg := &Config{DatabasePath: "/tmp/x.db", BackupDir: "/tmp/b"}
		db, _ := cfg.ResolveDatabasePath()
		if db != "/tmp/x.db" {
			t.Errorf("db path = %q", db)
		}
		backups, _ := cfg.ResolveBackupDir()
		if backups != "/tmp/b" {
			t.Errorf("backup dir = %q", backups)
		}
	})
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid key", "sk-0123456789abcdef", false},
		{"exactly ten characters", "sk-1234567", false},
		{"too short", "sk-12345", true},
		{"wrong prefix", "pk-0123456789abcdef", true},
		{"empty", "", true},
		{"prefix only counted with length", "sk-", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIKey(%q) = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestAPIKeyEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEMO_API_KEY", "sk-from-env")

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey: %v", err)
	}
	if key != "sk-from-env" {
		t.Errorf("key = %q, want env value", key)
	}
}

func TestAPIKeyFileFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEMO_API_KEY", "")

	if err := setAPIKeyFile("sk-file-key-123"); err != nil {
		t.Fatalf("setAPIKeyFile: %v", err)
	}
	key, err := getAPIKeyFile()
	if err != nil {
		t.Fatalf("getAPIKeyFile: %v", err)
	}
	if key != "sk-file-key-123" {
		t.Errorf("key = %q", key)
	}

	if err := deleteAPIKeyFile(); err != nil {
		t.Fatalf("deleteAPIKeyFile: %v", err)
	}
	if _, err := getAPIKeyFile(); err == nil {
		t.Error("getAPIKeyFile succeeded after delete")
	}
}
