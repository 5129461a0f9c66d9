package db

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.User = "registrar"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "registrar"
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 2
	cfg.Database.ConnMaxLifetime = "30m"
	return cfg
}

func TestPoolConfig(t *testing.T) {
	poolConfig, err := PoolConfig(testConfig(), zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, int32(10), poolConfig.MaxConns)
	require.Equal(t, int32(2), poolConfig.MinConns)
	require.Equal(t, 30*time.Minute, poolConfig.MaxConnLifetime)
	require.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	require.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	require.NotNil(t, poolConfig.BeforeAcquire)
}

func TestPoolConfig_ClampsConnectionCounts(t *testing.T) {
	cfg := testConfig()
	cfg.Database.MaxOpenConns = 0
	cfg.Database.MaxIdleConns = 5

	poolConfig, err := PoolConfig(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, int32(1), poolConfig.MaxConns)
	require.Equal(t, int32(1), poolConfig.MinConns)
}

func TestPoolConfig_InvalidLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Database.ConnMaxLifetime = "forever"

	_, err := PoolConfig(cfg, zerolog.Nop())
	require.ErrorContains(t, err, "conn_max_lifetime")
}
