package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshExpiration)
	assert.False(t, cfg.Biometric.RequireAPIKey)
	assert.True(t, cfg.Cron.Enabled)
	assert.Equal(t, time.Hour, cfg.Cron.Interval)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.Empty(t, cfg.Bootstrap.AdminEmail)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BIOMETRIC_REQUIRE_API_KEY", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", " Admin@DAG.test ")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "supersecret")
	t.Setenv("CRON_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Biometric.RequireAPIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, "admin@dag.test", cfg.Bootstrap.AdminEmail)
	assert.Equal(t, 15*time.Minute, cfg.Cron.Interval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"DB_PASSWORD": "x"}},
		{"bad port", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "y", "DB_PORT": "abc"}},
		{"bad duration", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "y", "JWT_ACCESS_EXPIRATION_TIME": "soon"}},
		{"bootstrap without password", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "y", "BOOTSTRAP_ADMIN_EMAIL": "a@b.co"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL_EscapesPassword(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "app", Password: "p@ss/word", Name: "dag", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/dag?sslmode=disable", cfg.DatabaseURL())
}

func TestLogLevel(t *testing.T) {
	cfg := &Config{App: AppConfig{LogLevel: "DEBUG"}}
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	cfg.App.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}
