// Package testutil provides shared test database helpers.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pipecrest/crm-api/internal/database"
)

// SetupTestDB opens an isolated in-memory sqlite database with the full
// schema migrated. Each call returns a fresh database; the single-connection
// pool keeps all gorm sessions on the same in-memory store.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
