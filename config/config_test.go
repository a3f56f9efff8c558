package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "bridgeit-api", cfg.Session.JWTIssuer)
	assert.Equal(t, 24, cfg.Session.SessionTTLHours)
	assert.Equal(t, 10, cfg.Otp.TTLMinutes)
	assert.Equal(t, 30, cfg.Staging.PendingTTLMinutes)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SESSION_TTL_HOURS", "6")
	t.Setenv("ALLOWED_CORS_ORIGINS", " https://a.example , https://b.example ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 6, cfg.Session.SessionTTLHours)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{}
	cfg.Server.AppEnv = "development"
	assert.True(t, cfg.IsDevelopment())

	cfg.Server.AppEnv = "production"
	assert.False(t, cfg.IsDevelopment())
}
