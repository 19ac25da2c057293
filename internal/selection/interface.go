package selection

import (
	"context"

	"github.com/mauv0809/tournament-stats/internal/catalog"
	"github.com/mauv0809/tournament-stats/internal/participation"
	"github.com/mauv0809/tournament-stats/internal/stats"
)

// CatalogLoader defines the catalog operation required by the machine.
type CatalogLoader interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// ParticipationResolver defines the participation operation required by the machine.
type ParticipationResolver interface {
	Resolve(ctx context.Context, cat catalog.Catalog, playerID string) participation.Result
}

// StatsResolver defines the stats operation required by the machine.
type StatsResolver interface {
	Resolve(ctx context.Context, cat catalog.Catalog, playerID, eventID string) (stats.Snapshot, error)
}
