package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-stats/internal/catalog"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/osirion"
)

var (
	// ErrStatsQuery wraps every failure to resolve a snapshot.
	ErrStatsQuery = errors.New("stats query failed")
	// ErrIncompleteSelection is returned when the player or the tournament is missing.
	ErrIncompleteSelection = errors.New("player and tournament must both be selected")
)

// Resolver fetches the detailed stats of one player in one tournament.
type Resolver struct {
	client  osirion.TournamentClient
	metrics metrics.Metrics
}

// NewResolver creates a new Resolver.
func NewResolver(client osirion.TournamentClient, metrics metrics.Metrics) *Resolver {
	return &Resolver{
		client:  client,
		metrics: metrics,
	}
}

// Resolve looks the event window up in cat and fetches playerID's entry for eventID.
// It issues at most one request and never retries.
func (r *Resolver) Resolve(ctx context.Context, cat catalog.Catalog, playerID, eventID string) (Snapshot, error) {
	if playerID == "" || eventID == "" {
		return Snapshot{}, ErrIncompleteSelection
	}

	tournament, ok := cat.Find(eventID)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: tournament %s is not in the catalog", ErrStatsQuery, eventID)
	}

	start := time.Now()
	defer func() {
		r.metrics.ObserveResolutionDuration(metrics.StageStats, time.Since(start).Seconds())
	}()

	log.Info("Resolving player stats", "player", playerID, "eventID", eventID, "eventWindowID", tournament.EventWindowID)
	players, err := r.client.GetTournamentPlayers(ctx, tournament.EventID, tournament.EventWindowID, playerID)
	if err != nil {
		log.Error("Failed to fetch player stats", "player", playerID, "eventID", eventID, "error", err)
		r.metrics.IncStatsQueries(metrics.OutcomeError)
		return Snapshot{}, fmt.Errorf("%w: %w", ErrStatsQuery, err)
	}
	if len(players) == 0 {
		log.Warn("No player entry in stats response", "player", playerID, "eventID", eventID)
		r.metrics.IncStatsQueries(metrics.OutcomeEmpty)
		return Snapshot{}, fmt.Errorf("%w: no entry for player %s in %s", ErrStatsQuery, playerID, eventID)
	}

	r.metrics.IncStatsQueries(metrics.OutcomeSuccess)
	return Snapshot{
		PlayerID:   playerID,
		Tournament: tournament,
		Stats:      players[0],
	}, nil
}
