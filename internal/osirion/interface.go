package osirion

import "context"

// TournamentClient defines the interface for interacting with the Osirion tournament API.
// This allows for mock implementations to be used in tests.
type TournamentClient interface {
	ListTournaments(ctx context.Context) ([]Tournament, error)
	// CountTournamentPlayers only counts entries, so an unexpected stat value cannot hide a window.
	CountTournamentPlayers(ctx context.Context, eventID, eventWindowID, playerID string) (int, error)
	GetTournamentPlayers(ctx context.Context, eventID, eventWindowID, playerID string) ([]PlayerStats, error)
}
