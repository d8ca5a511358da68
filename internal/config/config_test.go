package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LATTICE_SECRET_KEY", "unit-test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "lattice", cfg.Database)
	assert.Equal(t, 8*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "unit-test-secret", cfg.SecretKey)
}

func TestLoadRequiresSecretKey(t *testing.T) {
	t.Setenv("LATTICE_SECRET_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("LATTICE_SECRET_KEY", "unit-test-secret")

	path := writeConfigFile(t, `
addr: ":9000"
database: appdb
token_ttl: 30m
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "appdb", cfg.Database)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset fields still pick up defaults.
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("LATTICE_SECRET_KEY", "unit-test-secret")
	t.Setenv("LATTICE_ADDR", ":7777")
	t.Setenv("LATTICE_MONGODB_DB", "envdb")

	path := writeConfigFile(t, `
addr: ":9000"
database: filedb
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, "envdb", cfg.Database)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	t.Setenv("LATTICE_SECRET_KEY", "unit-test-secret")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Setenv("LATTICE_SECRET_KEY", "unit-test-secret")

	_, err := Load(writeConfigFile(t, "addr: [not, a, string"))
	assert.Error(t, err)
}
