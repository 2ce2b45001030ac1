package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medadmit/internal/config"
	"medadmit/internal/domain"
)

func TestInitSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medadmit.db")

	db, err := Init(config.DatabaseConfig{URL: "sqlite:///" + path})
	require.NoError(t, err)
	defer Close(db)

	for _, model := range Models() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.False(t, db.Migrator().HasTable("deletion_requests"))

	require.NoError(t, Ping(context.Background(), db))

	stats, err := Stats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewsletterEmailIsUnique(t *testing.T) {
	db, err := Init(config.DatabaseConfig{URL: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, db.Create(&domain.Newsletter{Email: "a@example.com"}).Error)
	assert.Error(t, db.Create(&domain.Newsletter{Email: "a@example.com"}).Error)

	var count int64
	require.NoError(t, db.Model(&domain.Newsletter{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPingAfterClose(t *testing.T) {
	db, err := Open(config.DatabaseConfig{URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Close(db))

	assert.Error(t, Ping(context.Background(), db))
}
