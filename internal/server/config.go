// Package server exposes the memo store over HTTP for the memod daemon.
package server

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the daemon settings, resolved from defaults, an optional
// config file and environment variables (MEMOD_ prefix).
type Config struct {
	ListenAddr     string
	DatabaseDriver string
	DatabaseDSN    string
	BackupDir      string
	Debug          bool
}

// LoadConfig resolves the daemon configuration. A .env file in the working
// directory is loaded first when present; environment variables win over the
// config file, which wins over defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("server.listen", ":8787")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "memo.db")
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("debug", false)

	v.SetConfigName("memod")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.memo")

	v.SetEnvPrefix("MEMOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		ListenAddr:     v.GetString("server.listen"),
		DatabaseDriver: v.GetString("database.driver"),
		DatabaseDSN:    v.GetString("database.dsn"),
		BackupDir:      v.GetString("backup.dir"),
		Debug:          v.GetBool("debug"),
	}, nil
}
