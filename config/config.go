package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "lumi-notes-dev-secret"

type Server struct {
	Port        string
	DBDriver    string
	DatabaseURL string
	SQLitePath  string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	LogLevel    string
	LogPretty   bool
}

type Client struct {
	ServerURL   string
	SessionFile string
	HTTPTimeout time.Duration
	LogLevel    string
}

// LoadServer reads .env (if present) and the NOTES_* environment.
func LoadServer() (Server, error) {
	loadDotEnv()

	cfg := Server{
		Port:        envOr("NOTES_PORT", envOr("PORT", "8080")),
		DBDriver:    strings.ToLower(envOr("NOTES_DB_DRIVER", "sqlite")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  envOr("NOTES_SQLITE_PATH", "notes.db"),
		JWTSecret:   os.Getenv("NOTES_JWT_SECRET"),
		TokenTTL:    parseDurationOr("NOTES_TOKEN_TTL", 24*time.Hour),
		CORSOrigins: splitList(envOr("NOTES_CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:    envOr("NOTES_LOG_LEVEL", "info"),
		LogPretty:   parseBoolOr("NOTES_LOG_PRETTY", false),
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Server{}, errors.New("DATABASE_URL is required for the postgres driver")
		}
		if cfg.JWTSecret == "" {
			return Server{}, errors.New("NOTES_JWT_SECRET is required for the postgres driver")
		}
	default:
		return Server{}, fmt.Errorf("unknown NOTES_DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}
	return cfg, nil
}

// LoadClient reads .env (if present) and the client side of the NOTES_* environment.
func LoadClient() Client {
	loadDotEnv()

	return Client{
		ServerURL:   strings.TrimRight(envOr("NOTES_SERVER", "http://localhost:8080"), "/"),
		SessionFile: envOr("NOTES_SESSION_FILE", DefaultSessionFile()),
		HTTPTimeout: parseDurationOr("NOTES_HTTP_TIMEOUT", 15*time.Second),
		LogLevel:    envOr("NOTES_LOG_LEVEL", "warn"),
	}
}

// DefaultSessionFile returns the per-user location of the persisted session.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "lumi-notes-session.yaml"
	}
	return filepath.Join(dir, "lumi-notes", "session.yaml")
}

func loadDotEnv() {
	// a missing .env is the normal case
	_ = godotenv.Load()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func parseBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
