package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET=from-file\nALLOWED_ORIGINS=http://a.test,http://b.test\n"), 0o644))

	t.Setenv("IMPORT_WORKERS", "2")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("ALLOWED_ORIGINS")
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("ALLOWED_ORIGINS")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.JWTSecret)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	require.Equal(t, 2, cfg.ImportWorkers)
	require.Equal(t, "5000", cfg.ServerPort)
	require.Equal(t, ":5000", cfg.Address())
	require.Equal(t, 168*time.Hour, cfg.JWTTTL)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	cfg := &Config{JWTSecret: "s", ImportWorkers: 0, BcryptCost: 2, MaxUploadMB: 1}
	err := cfg.Validate()
	require.ErrorContains(t, err, "IMPORT_WORKERS")
	require.ErrorContains(t, err, "BCRYPT_COST")
}
