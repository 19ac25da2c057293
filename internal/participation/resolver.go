package participation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-stats/internal/catalog"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/osirion"
	"golang.org/x/sync/errgroup"
)

// ErrParticipationQuery wraps the failure of a single per-tournament query.
// Such failures count as "did not participate" and never abort a resolution.
var ErrParticipationQuery = errors.New("participation query failed")

// Result is the outcome of one participation resolution.
type Result struct {
	// Tournaments is the subsequence of the catalog the player participated in, in catalog order.
	Tournaments []osirion.Tournament
	// Failures holds one ErrParticipationQuery-wrapped error per failed query, for diagnostics.
	Failures []error
}

// Resolver discovers which catalog tournaments a player took part in.
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

// Resolve queries every tournament of cat concurrently for playerID and returns
// those with at least one player entry. It only returns after every query settled.
// An empty playerID yields an empty result without touching the network.
func (r *Resolver) Resolve(ctx context.Context, cat catalog.Catalog, playerID string) Result {
	if playerID == "" {
		return Result{Tournaments: []osirion.Tournament{}}
	}

	start := time.Now()
	tournaments := cat.Tournaments()
	participated := make([]bool, len(tournaments))
	failures := make([]error, len(tournaments))

	log.Info("Resolving tournament participation", "player", playerID, "tournaments", len(tournaments))

	// Every goroutine returns nil: one bad upstream response must not cancel the others.
	var g errgroup.Group
	for i, t := range tournaments {
		i, t := i, t
		g.Go(func() error {
			entries, err := r.client.CountTournamentPlayers(ctx, t.EventID, t.EventWindowID, playerID)
			if err != nil {
				log.Warn("Participation query failed, treating as not participated", "player", playerID, "eventID", t.EventID, "error", err)
				r.metrics.IncParticipationQueries(metrics.OutcomeError)
				failures[i] = fmt.Errorf("%w: %s: %w", ErrParticipationQuery, t.EventID, err)
				return nil
			}
			if entries == 0 {
				r.metrics.IncParticipationQueries(metrics.OutcomeEmpty)
				return nil
			}
			r.metrics.IncParticipationQueries(metrics.OutcomeSuccess)
			participated[i] = true
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Tournaments: make([]osirion.Tournament, 0, len(tournaments))}
	for i, t := range tournaments {
		if participated[i] {
			result.Tournaments = append(result.Tournaments, t)
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, failures[i])
		}
	}

	r.metrics.ObserveResolutionDuration(metrics.StageParticipation, time.Since(start).Seconds())
	log.Info("Tournament participation resolved",
		"player", playerID,
		"participated", len(result.Tournaments),
		"failed_queries", len(result.Failures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}
