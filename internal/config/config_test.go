package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "http://localhost:8080/", cfg.Server.BaseURL())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)

	assert.Equal(t, TokenBackendPaseto, cfg.Auth.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTokenDuration)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)

	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(5<<20), cfg.Uploads.MaxBytes)
}

func TestLoad_PasetoRequires32ByteSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_JWTBackend(t *testing.T) {
	t.Setenv("TOKEN_BACKEND", "jwt")
	t.Setenv("TOKEN_SECRET", "any-length-works-here")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TokenBackendJWT, cfg.Auth.Backend)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("TOKEN_BACKEND", "oauth")
	t.Setenv("TOKEN_SECRET", testSecret)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DurationsInSeconds(t *testing.T) {
	t.Setenv("TOKEN_SECRET", testSecret)
	t.Setenv("SESSION_TOKEN_DURATION", "3600")
	t.Setenv("RESET_TOKEN_TTL", "900")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Auth.SessionTokenDuration)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenTTL)
}

func TestLoad_TrustedOriginsList(t *testing.T) {
	t.Setenv("TOKEN_SECRET", testSecret)
	t.Setenv("TRUSTED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.TrustedOrigins)
}

func TestServerConfig_BaseURL(t *testing.T) {
	c := ServerConfig{Domain: "https://bloghub.example.com"}
	assert.Equal(t, "https://bloghub.example.com/", c.BaseURL())

	c.Domain = "https://bloghub.example.com/"
	assert.Equal(t, "https://bloghub.example.com/", c.BaseURL())
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "app",
		Password: "pw",
		DBName:   "bloghub",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=bloghub sslmode=disable", c.ConnectionString())
}
