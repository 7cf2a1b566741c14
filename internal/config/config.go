// Package config reads the environment the binaries run in.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by every binary.
type Config struct {
	// DBDriver is "postgres" or "sqlite".
	DBDriver string
	DBSource string

	// RedisAddr enables the leaderboard when set.
	RedisAddr string

	MongoURI      string
	MongoDatabase string

	SiteURL  string
	LogLevel slog.Level
}

// Load reads a .env file when one exists and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DBDriver:      get("DB_DRIVER", "postgres"),
		DBSource:      get("DB_SOURCE", ""),
		RedisAddr:     get("REDIS_ADDR", ""),
		MongoURI:      get("MONGO_URI", ""),
		MongoDatabase: get("MONGO_DATABASE", "demonlist"),
		SiteURL:       get("SITE_URL", "http://localhost:10000"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(get("LOG_LEVEL", "info")))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// RequireDB fails when no database is configured.
func (c *Config) RequireDB() error {
	if c.DBSource == "" {
		return errors.New("DB_SOURCE environment variable not set")
	}
	return nil
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}
