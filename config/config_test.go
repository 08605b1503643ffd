package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(envFile, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:5555", cfg.Addr)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 24*time.Hour, cfg.CacheExpire())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nmax_requests: 8\nlog_level: debug\n"), 0600))

	t.Setenv(envFile, path)
	t.Setenv("CHECK_MAX_REQUESTS", "2")
	t.Setenv("CHECK_CLIENT_ID", "abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.MaxRequests, "env wins over file")
	assert.Equal(t, "abc", cfg.ClientID)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(envFile, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Validate())

	cfg.Workers = 0
	assert.EqualError(t, cfg.Validate(), "workers must be positive")

	cfg = New()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())
}
