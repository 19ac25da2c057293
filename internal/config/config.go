package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/tournament-stats/internal/osirion"
	"github.com/mauv0809/tournament-stats/internal/roster"
)

// ErrMissingEnv is returned when a required environment variable is unset.
var ErrMissingEnv = errors.New("required environment variable is not set")

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	getEnv := func(key string) (string, error) {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value, nil
		}
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	apiKey, err := getEnv("OSIRION_API_KEY")
	if err != nil {
		return Config{}, err
	}

	timeout, err := time.ParseDuration(getEnvOr("OSIRION_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OSIRION_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("invalid OSIRION_TIMEOUT: must be positive, got %s", timeout)
	}

	players := roster.DefaultPlayers
	if raw, ok := os.LookupEnv("ROSTER"); ok && raw != "" {
		players, err = roster.ParseRoster(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ROSTER: %w", err)
		}
	}

	cfg := Config{
		DBName:   getEnvOr("DB_NAME", "tournament-stats.db"),
		Port:     getEnvOr("PORT", "8080"),
		LogLevel: getEnvOr("LOG_LEVEL", "info"),
		Osirion: OsirionConfig{
			APIKey:  apiKey,
			BaseURL: getEnvOr("OSIRION_BASE_URL", osirion.DefaultBaseURL),
			Timeout: timeout,
		},
		Slack: SlackConfig{
			Token:         os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID:     os.Getenv("SLACK_CHANNEL_ID"),
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Roster: players,
	}
	return cfg, nil
}
