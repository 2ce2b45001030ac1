package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "NODE_ENV", "PORT", "DATABASE_URL", "SESSION_SECRET", "SESSION_TTL",
		"SESSION_STORE", "REDIS_URL", "ADMIN_USERNAME", "ADMIN_PASSWORD_HASH",
		"CORS_ORIGIN", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX", "TRUST_PROXY", "EMAIL_PROVIDER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, devSessionSecret, cfg.Session.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.False(t, cfg.RateLimit.TrustProxy)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadFallsBackToNodeEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD_HASH")
}

func TestLoadRedisStoreNeedsURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_STORE", "redis")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
}

func TestLoadParsesListsAndDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGIN", "https://medadmit.in, https://www.medadmit.in,")
	t.Setenv("RATE_LIMIT_WINDOW", "60000")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.RateLimit.TrustProxy)
	assert.Equal(t, []string{"https://medadmit.in", "https://www.medadmit.in"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestDatabaseConfig(t *testing.T) {
	pg := DatabaseConfig{URL: "postgresql://app:s3cr:et@db.internal:6543/leads?sslmode=require"}
	assert.True(t, pg.IsPostgres())
	assert.Equal(t,
		"host=db.internal port=6543 user=app dbname=leads sslmode=require password=s3cr:et",
		pg.GetPostgresDSN())

	bare := DatabaseConfig{URL: "postgres://app@localhost"}
	assert.Equal(t, "host=localhost port=5432 user=app dbname=postgres sslmode=disable", bare.GetPostgresDSN())

	lite := DatabaseConfig{URL: "sqlite:///./data/medadmit.db"}
	assert.False(t, lite.IsPostgres())
	assert.Equal(t, "./data/medadmit.db", lite.GetSQLitePath())

	mem := DatabaseConfig{URL: ":memory:"}
	assert.Equal(t, ":memory:", mem.GetSQLitePath())
}
