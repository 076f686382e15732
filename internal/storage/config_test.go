package storage

import (
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestDSN(t *testing.T) {
	config := Config{
		User:     "a",
		Password: "b",
		Host:     "c",
		Port:     5432,
		DBName:   "d",
	}
	expected := "user=a password=b host=c port=5432 dbname=d sslmode=disable"
	actual := config.DSN()
	require.Equal(t, expected, actual)
}

func TestDSNBlankPassword(t *testing.T) {
	config := Config{User: "a", Host: "c", Port: 5433, DBName: "d"}
	require.Equal(t, "user=a host=c port=5433 dbname=d sslmode=disable", config.DSN())
}

func TestOptions(t *testing.T) {
	cfg, err := pgxpool.ParseConfig(Config{User: "a", Host: "c", Port: 5432, DBName: "d"}.DSN())
	require.NoError(t, err)

	defaultMax := cfg.MaxConns

	MaxConns(0).apply(cfg)
	require.Equal(t, defaultMax, cfg.MaxConns)

	MaxConns(7).apply(cfg)
	require.Equal(t, int32(7), cfg.MaxConns)

	ConnectionTimeout(3 * time.Second).apply(cfg)
	require.Equal(t, 3*time.Second, cfg.ConnConfig.ConnectTimeout)
}
