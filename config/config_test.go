package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{"JWT_SECRET_KEY", "SERVER_PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_ENTRANTS", "MAX_FIELD_SIZE"} {
		t.Setenv(key, env[key])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"JWT_SECRET_KEY": "s3cret"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecretKey)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 1024, cfg.MaxEntrants)
	assert.Equal(t, 4096, cfg.MaxFieldSize)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET_KEY":       "s3cret",
		"SERVER_PORT":          "9090",
		"LOG_LEVEL":            "debug",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"RATE_LIMIT_RPS":       "2.5",
		"RATE_LIMIT_BURST":     "5",
		"MAX_ENTRANTS":         "256",
		"MAX_FIELD_SIZE":       "512",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, 256, cfg.MaxEntrants)
	assert.Equal(t, 512, cfg.MaxFieldSize)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "port not a number", env: map[string]string{"JWT_SECRET_KEY": "x", "SERVER_PORT": "http"}},
		{name: "port out of range", env: map[string]string{"JWT_SECRET_KEY": "x", "SERVER_PORT": "70000"}},
		{name: "bad log level", env: map[string]string{"JWT_SECRET_KEY": "x", "LOG_LEVEL": "loud"}},
		{name: "negative rps", env: map[string]string{"JWT_SECRET_KEY": "x", "RATE_LIMIT_RPS": "-1"}},
		{name: "zero burst", env: map[string]string{"JWT_SECRET_KEY": "x", "RATE_LIMIT_BURST": "0"}},
		{name: "tiny field", env: map[string]string{"JWT_SECRET_KEY": "x", "MAX_ENTRANTS": "1"}},
		{name: "field cap below entrant cap", env: map[string]string{"JWT_SECRET_KEY": "x", "MAX_ENTRANTS": "256", "MAX_FIELD_SIZE": "128"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
