// Package databasetest provides migrated in-memory SQLite databases for tests.
package databasetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medadmit/internal/config"
	"medadmit/internal/database"
)

// New returns a fresh, migrated in-memory database closed at test cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
