package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/osirion"
)

// ErrCatalogLoad wraps every failure to load the tournament catalog.
var ErrCatalogLoad = errors.New("tournament catalog load failed")

// Loader fetches the tournament catalog.
type Loader struct {
	client  osirion.TournamentClient
	metrics metrics.Metrics
}

// NewLoader creates a new Loader.
func NewLoader(client osirion.TournamentClient, metrics metrics.Metrics) *Loader {
	return &Loader{
		client:  client,
		metrics: metrics,
	}
}

// Load issues a single request for the tournament list. On failure it returns an
// empty catalog together with an error wrapping ErrCatalogLoad; it never retries.
func (l *Loader) Load(ctx context.Context) (Catalog, error) {
	start := time.Now()
	defer func() {
		l.metrics.ObserveResolutionDuration(metrics.StageCatalog, time.Since(start).Seconds())
	}()

	log.Info("Loading tournament catalog")
	tournaments, err := l.client.ListTournaments(ctx)
	if err != nil {
		log.Error("Failed to load tournament catalog", "error", err)
		l.metrics.IncCatalogLoads(metrics.OutcomeError)
		l.metrics.SetCatalogSize(0)
		return Catalog{}, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}

	cat := New(tournaments)
	outcome := metrics.OutcomeSuccess
	if cat.Len() == 0 {
		outcome = metrics.OutcomeEmpty
	}
	l.metrics.IncCatalogLoads(outcome)
	l.metrics.SetCatalogSize(cat.Len())
	log.Info("Tournament catalog loaded", "count", cat.Len(), "duration_ms", time.Since(start).Milliseconds())
	return cat, nil
}
