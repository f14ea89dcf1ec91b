package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"NOTES_PORT", "PORT", "NOTES_DB_DRIVER", "NOTES_JWT_SECRET", "NOTES_TOKEN_TTL", "NOTES_CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadServerPostgresRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NOTES_DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("NOTES_JWT_SECRET", "")

	_, err := LoadServer()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/notes")
	_, err = LoadServer()
	require.Error(t, err)

	t.Setenv("NOTES_JWT_SECRET", "s3cret")
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadServerRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NOTES_DB_DRIVER", "mysql")

	_, err := LoadServer()
	assert.ErrorContains(t, err, "mysql")
}

func TestLoadClient(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NOTES_SERVER", "http://notes.example:9000/")
	t.Setenv("NOTES_HTTP_TIMEOUT", "bogus")
	t.Setenv("NOTES_SESSION_FILE", "/tmp/s.yaml")

	cfg := LoadClient()
	assert.Equal(t, "http://notes.example:9000", cfg.ServerURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/s.yaml", cfg.SessionFile)
}
