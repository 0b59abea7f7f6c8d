package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"HTTP_ADDR", "API_PREFIX", "CORS_ALLOWED_ORIGINS", "CORS_ALLOW_CREDENTIALS",
	"DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL", "LOG_FILE",
	"WORKER_POLL_INTERVAL",
}

// clearEnv blanks every key for the duration of the test.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "cropdesk.db", cfg.DatabaseURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 800*time.Millisecond, cfg.WorkerPollInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that already exist, even empty
	// ones, so unset the keys the file provides.
	for _, k := range []string{"JWT_SECRET", "DB_DRIVER", "DATABASE_URL", "API_PREFIX", "CORS_ALLOWED_ORIGINS", "TOKEN_TTL"} {
		require.NoError(t, os.Unsetenv(k))
	}

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte(
		"JWT_SECRET=from-file\n"+
			"DB_DRIVER=postgres\n"+
			"DATABASE_URL=postgres://localhost/cropdesk\n"+
			"API_PREFIX=/make-server/\n"+
			"CORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"+
			"TOKEN_TTL=1h\n"), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"JWT_SECRET", "DB_DRIVER", "DATABASE_URL", "API_PREFIX", "CORS_ALLOWED_ORIGINS", "TOKEN_TTL"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "/make-server", cfg.APIPrefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"postgres without url", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "postgres"}},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "oracle"}},
		{"bad ttl", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "forever"}},
		{"negative ttl", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "-1h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
