package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultEnv      = "development"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	Env           string
	LogLevel      string
	LogFormat     string
}

// Load reads environment variables and returns a populated Config.
// Warnings about missing secrets go to logger.
func Load(logger zerolog.Logger) Config {
	// Best-effort: local development reads .env; production injects real env vars.
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("failed to read .env")
	}

	cfg := Config{
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		Env:           strings.ToLower(os.Getenv("APP_ENV")),
		LogLevel:      strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogFormat:     strings.ToLower(os.Getenv("LOG_FORMAT")),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.AdminEmail == "" {
		logger.Warn().Msg("ADMIN_EMAIL is not set; assumptions admin is disabled")
	}
	if cfg.AdminPassword == "" {
		logger.Warn().Msg("ADMIN_PASSWORD is not set; assumptions admin is disabled")
	}
	if cfg.SessionSecret == "" {
		logger.Warn().Msg("SESSION_SECRET is not set")
	}

	return cfg
}

// IsDev reports whether the server runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// NewLogger builds the process logger. Console output is used unless format is "json".
func NewLogger(w io.Writer, level, format string) zerolog.Logger {
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()

	if level == "" {
		return logger.Level(zerolog.InfoLevel)
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		logger.Warn().Str("value", level).Msg("invalid LOG_LEVEL, using info")
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}
