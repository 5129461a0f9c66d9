package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_DefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, DriverCSV, cfg.Storage.Driver)
	require.Equal(t, 15, cfg.Registration.MinimumAge)
	require.Equal(t, "test-secret", cfg.JWT.Secret)

	students, subjects, enrollments := cfg.StoragePaths()
	require.Equal(t, filepath.Join("data", "students.csv"), students)
	require.Equal(t, filepath.Join("data", "subjects.csv"), subjects)
	require.Equal(t, filepath.Join("data", "enrollments.csv"), enrollments)
}

func TestLoadConfig_FileThenEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
storage:
  data_dir: /var/lib/registrar
  seed: true
jwt:
  secret: from-file
registration:
  minimum_age: 16
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REGISTRATION_MINIMUM_AGE", "18")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, "/var/lib/registrar", cfg.Storage.DataDir)
	require.True(t, cfg.Storage.Seed)
	require.Equal(t, "from-file", cfg.JWT.Secret)
	require.Equal(t, 18, cfg.Registration.MinimumAge)
	require.Contains(t, cfg.EnvOverrides, "SERVER_PORT")
	require.Contains(t, cfg.EnvOverrides, "REGISTRATION_MINIMUM_AGE")
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: excel\njwt:\n  secret: s\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown storage driver "excel"`)
}

func TestValidateForServer_RequiresSecret(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "server:\n  port: \"1\"\n"))
	require.NoError(t, err)

	err = cfg.ValidateForServer()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT secret is required")

	cfg.JWT.Secret = "s"
	require.NoError(t, cfg.ValidateForServer())
}

func TestLoadConfig_InvalidEnvInteger(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
}

func TestResolvePath(t *testing.T) {
	require.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))

	t.Setenv(PathEnvVar, "/etc/registrar.yaml")
	require.Equal(t, "/etc/registrar.yaml", ResolvePath(""))
}
