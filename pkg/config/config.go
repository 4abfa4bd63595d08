package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	pkgdb "github.com/unowned-ai/wordcache/pkg/db"
	"github.com/unowned-ai/wordcache/pkg/logging"
)

const (
	DefaultStorageKey = "word-cache-v1"
	DefaultSyncMode   = "FULL"
	DefaultLogLevel   = "warn"
)

// Config holds application configuration
type Config struct {
	// DBPath is empty when the platform default should be used.
	DBPath     string
	WAL        bool
	SyncMode   string
	StorageKey string
	LogLevel   string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wal, err := getEnvBool("WORDCACHE_WAL", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:     os.Getenv("WORDCACHE_DB"),
		WAL:        wal,
		SyncMode:   getEnv("WORDCACHE_SYNC", DefaultSyncMode),
		StorageKey: getEnv("WORDCACHE_STORAGE_KEY", DefaultStorageKey),
		LogLevel:   getEnv("WORDCACHE_LOG_LEVEL", DefaultLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late, on first database access.
func (c *Config) Validate() error {
	if !pkgdb.ValidSyncMode(c.SyncMode) {
		return fmt.Errorf("WORDCACHE_SYNC must be one of OFF, NORMAL, FULL, EXTRA, got %q", c.SyncMode)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("WORDCACHE_STORAGE_KEY cannot be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("WORDCACHE_LOG_LEVEL: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}
