// Package dbtest opens an in-memory sqlite database with the application schema for tests.
package dbtest

import (
	"testing"
	"time"

	"showroom/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// New returns a database.DB whose SQL handle is a migrated in-memory sqlite database.
// Caches are left nil, which the cache builder treats as always-miss.
func New(t *testing.T) database.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateModels(db))

	return database.DB{SQL: db}
}
