package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "mt", Password: "pw", Name: "mindtrack"}
	assert.Equal(t, "postgres://mt:pw@db:5432/mindtrack?sslmode=disable", cfg.DSN())
	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://mt:pw@db:5432/mindtrack?sslmode=require", cfg.DSN())
}

func TestSQLiteMigrate(t *testing.T) {
	svc, err := NewSQLiteService(logger.Nop(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.AutoMigrateAll())
	assert.Equal(t, DriverSQLite, svc.Driver())
	for _, table := range []string{"user", "user_token", "check_in", "report_export"} {
		assert.True(t, svc.DB().Migrator().HasTable(table), table)
	}
	// idempotent
	require.NoError(t, svc.AutoMigrateAll())
}
