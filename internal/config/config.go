package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopnad/internal/errors"
)

// Cache backends
const (
	CacheFile     = "file"
	CachePostgres = "postgres"
	CacheNone     = "none"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Cache     CacheConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Profiling ProfilingConfig
}

// DataConfig holds raw microdata settings
type DataConfig struct {
	Dir        string
	FieldsFile string
	ChunkSize  int
	Workers    int
}

// CacheConfig holds column cache settings
type CacheConfig struct {
	Backend    string
	Dir        string
	MemorySize int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:      *loadDataConfig(),
		Cache:     *loadCacheConfig(),
		Database:  DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:    *loadServerConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:        getEnvOrDefault("PNAD_DATA_DIR", "./data"),
		FieldsFile: getEnvOrDefault("PNAD_FIELDS_FILE", ""),
		ChunkSize:  getEnvIntOrDefault("PNAD_CHUNK_SIZE", 10000),
		Workers:    getEnvIntOrDefault("PNAD_WORKERS", 4),
	}
}

func loadCacheConfig() *CacheConfig {
	return &CacheConfig{
		Backend:    strings.ToLower(getEnvOrDefault("PNAD_CACHE_BACKEND", CacheFile)),
		Dir:        getEnvOrDefault("PNAD_CACHE_DIR", "./cache"),
		MemorySize: getEnvIntOrDefault("PNAD_MEMORY_CACHE_SIZE", 256),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("PNAD_DATA_DIR is required")
	}
	switch config.Cache.Backend {
	case CacheFile:
		if config.Cache.Dir == "" {
			return errors.ConfigInvalid("PNAD_CACHE_DIR is required for the file cache")
		}
	case CachePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres cache")
		}
	case CacheNone:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown PNAD_CACHE_BACKEND %q (want file, postgres or none)", config.Cache.Backend))
	}
	if config.Data.Workers < 1 {
		return errors.ConfigInvalid("PNAD_WORKERS must be at least 1")
	}
	if config.Data.ChunkSize < 1 {
		return errors.ConfigInvalid("PNAD_CHUNK_SIZE must be positive")
	}
	if config.Cache.MemorySize < 0 {
		return errors.ConfigInvalid("PNAD_MEMORY_CACHE_SIZE cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
