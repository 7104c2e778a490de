package config

import (
	"testing"

	"gopnad/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PNAD_DATA_DIR", "PNAD_FIELDS_FILE", "PNAD_CHUNK_SIZE", "PNAD_WORKERS",
		"PNAD_CACHE_BACKEND", "PNAD_CACHE_DIR", "PNAD_MEMORY_CACHE_SIZE",
		"DATABASE_URL", "PORT", "GIN_MODE", "PPROF_PORT", "PPROF_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.Data.Dir)
	assert.Equal(t, 10000, cfg.Data.ChunkSize)
	assert.Equal(t, 4, cfg.Data.Workers)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, "./cache", cfg.Cache.Dir)
	assert.Equal(t, 256, cfg.Cache.MemorySize)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PNAD_DATA_DIR", "/srv/pnad")
	t.Setenv("PNAD_CACHE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/pnad")
	t.Setenv("PNAD_WORKERS", "8")
	t.Setenv("PNAD_MEMORY_CACHE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/pnad", cfg.Data.Dir)
	assert.Equal(t, CachePostgres, cfg.Cache.Backend)
	assert.Equal(t, 8, cfg.Data.Workers)
	assert.Equal(t, 256, cfg.Cache.MemorySize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"PNAD_CACHE_BACKEND": "postgres"}},
		{"unknown backend", map[string]string{"PNAD_CACHE_BACKEND": "redis"}},
		{"no workers", map[string]string{"PNAD_WORKERS": "0"}},
		{"negative memory", map[string]string{"PNAD_MEMORY_CACHE_SIZE": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
