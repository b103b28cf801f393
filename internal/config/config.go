// Package config loads application configuration from environment variables,
// an optional .env file, and per-repository override files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/prlocal/prlocal/internal/logger"
)

// ServerConfig holds the embedded viewer server settings.
type ServerConfig struct {
	Host string
	Port string
}

// Config holds the application's configuration values.
type Config struct {
	DataDir       string
	DatabasePath  string
	Server        ServerConfig
	Logging       logger.Config
	DefaultAuthor string
	WatchInterval time.Duration
}

// ReviewURL returns the viewer URL for a PR.
func (c *Config) ReviewURL(prUUID string) string {
	return fmt.Sprintf("http://%s:%s/prs/%s", c.Server.Host, c.Server.Port, prUUID)
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and resolves the data directory. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.SetEnvPrefix("PRLOCAL")
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	v.SetDefault("DATA_DIR", filepath.Join(home, ".prlocal"))
	v.SetDefault("DATABASE_PATH", "")
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "3456")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stderr")
	v.SetDefault("DEFAULT_AUTHOR", "claude")
	v.SetDefault("WATCH_INTERVAL", 2*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	dataDir := v.GetString("DATA_DIR")
	dbPath := v.GetString("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "data.db")
	}

	interval := v.GetDuration("WATCH_INTERVAL")
	if interval <= 0 {
		interval = 2 * time.Second
	}

	return &Config{
		DataDir:      dataDir,
		DatabasePath: dbPath,
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Logging: logger.Config{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		DefaultAuthor: v.GetString("DEFAULT_AUTHOR"),
		WatchInterval: interval,
	}, nil
}
