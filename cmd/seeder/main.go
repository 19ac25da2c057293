package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/tournament-stats/internal/database"
	"github.com/mauv0809/tournament-stats/internal/roster"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "tournament-stats.db"}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN", "ROSTER"} {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting roster seeder...")
	cfg := loadConfig()

	players := roster.DefaultPlayers
	if raw := cfg["ROSTER"]; raw != "" {
		parsed, err := roster.ParseRoster(raw)
		if err != nil {
			log.Fatalf("Invalid ROSTER: %s", err)
		}
		players = parsed
	}

	db, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	store := roster.New(db)
	if err := store.Replace(players); err != nil {
		log.Fatalf("Failed to seed roster: %s", err)
	}

	count, err := store.Count()
	if err != nil {
		log.Fatalf("Failed to count roster: %s", err)
	}
	log.Info("Roster seeded", "configured", len(players), "total", count)
}
