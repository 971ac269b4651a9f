package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  host: localhost
  user: fitness
  dbname: fitness
  port: "5432"
  sslmode: disable
jwt_secret: file-secret
port: "8080"
allowed_origins:
  - http://localhost:5173
`), 0o644))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.PostgresConfig.Host)
	assert.Equal(t, "fitness", cfg.PostgresConfig.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Port)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CFG_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", GetEnv("CFG_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CFG_TEST_KEY_UNSET", "fallback"))
}

func TestJWTSecret(t *testing.T) {
	cfg := &Config{JWTSecretKey: "file-secret"}
	assert.Equal(t, []byte("file-secret"), cfg.JWTSecret())

	t.Setenv("JWT_SECRET", "env-secret")
	assert.Equal(t, []byte("env-secret"), cfg.JWTSecret())
}
