package config

import (
	"time"

	"github.com/mauv0809/tournament-stats/internal/roster"
)

// Config holds all configuration for the application.
type Config struct {
	DBName   string
	Port     string
	LogLevel string
	Osirion  OsirionConfig
	Slack    SlackConfig
	Turso    TursoConfig
	Roster   []roster.Player
}

type OsirionConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SlackConfig is optional. Sharing is disabled when Token is empty.
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// TursoConfig is optional. An empty PrimaryURL uses a local SQLite file.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// Enabled reports whether snapshots can be posted to Slack.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}
