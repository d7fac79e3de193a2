// Package dbtest provides an in-memory database handle for tests.
package dbtest

import (
	"testing"

	"vitals-server/db"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated in-memory sqlite database that is closed when t ends.
func New(t testing.TB) db.Database {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	database := &db.GormDatabase{DB: gdb}
	t.Cleanup(func() { _ = database.Close() })
	return database
}
