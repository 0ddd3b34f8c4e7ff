package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TOKEN_REVOCATION_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Address())
	assert.Equal(t, StoreDriverBolt, cfg.Store.Driver)
	assert.Equal(t, "x-auth-token", cfg.JWT.Header)
	assert.False(t, cfg.Revocation.Enabled)
	assert.True(t, cfg.HTTP.EnableMetrics)
	assert.Equal(t, "postgres://taskbox:@localhost:5432/taskbox?sslmode=disable", cfg.Database.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("HEALTH_CHECK_INTERVAL", "30s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TOKEN_REVOCATION_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, 7*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval)
	assert.True(t, cfg.Revocation.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Store: StoreConfig{Driver: StoreDriverBolt},
			JWT:   JWTConfig{Secret: "s3cret"},
		}
	}

	assert.NoError(t, base().Validate())

	missingSecret := base()
	missingSecret.JWT.Secret = ""
	assert.ErrorIs(t, missingSecret.Validate(), ErrMissingSecret)

	unknownDriver := base()
	unknownDriver.Store.Driver = "sqlite"
	assert.Error(t, unknownDriver.Validate())

	revocationWithoutRedis := base()
	revocationWithoutRedis.Revocation.Enabled = true
	assert.Error(t, revocationWithoutRedis.Validate())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}
