package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	applied, err := applyEnv(cfg, mapLookup(map[string]string{
		"STORAGE_DRIVER":           " postgres ",
		"DB_MAX_OPEN_CONNS":        "20",
		"STORAGE_SEED":             "true",
		"REGISTRATION_MINIMUM_AGE": "16",
		"UNRELATED":                "x",
	}))
	require.NoError(t, err)

	require.Equal(t, DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, 20, cfg.Database.MaxOpenConns)
	require.True(t, cfg.Storage.Seed)
	require.Equal(t, 16, cfg.Registration.MinimumAge)
	require.Equal(t, "8080", cfg.Server.Port)
	require.ElementsMatch(t, []string{"STORAGE_DRIVER", "DB_MAX_OPEN_CONNS", "STORAGE_SEED", "REGISTRATION_MINIMUM_AGE"}, applied)
}

func TestApplyEnv_Errors(t *testing.T) {
	_, err := applyEnv(&Config{}, mapLookup(map[string]string{"STORAGE_SEED": "maybe"}))
	require.ErrorContains(t, err, "STORAGE_SEED")

	_, err = applyEnv(Config{}, mapLookup(nil))
	require.Error(t, err)

	type unsupported struct {
		Ratio float64 `env:"RATIO"`
	}
	_, err = applyEnv(&unsupported{}, mapLookup(map[string]string{"RATIO": "0.5"}))
	require.ErrorContains(t, err, "unsupported setting type")
}
