package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/tournament-stats/internal/config"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/notifier"
	"github.com/mauv0809/tournament-stats/internal/osirion"
	"github.com/mauv0809/tournament-stats/internal/roster"
	"github.com/mauv0809/tournament-stats/internal/selection"
	"github.com/mauv0809/tournament-stats/internal/stats"
)

type Server struct {
	Roster         roster.Store
	Machine        *selection.Machine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         chi.Router
}

// selectRequest is the body of both select endpoints. An empty id deselects.
type selectRequest struct {
	ID string `json:"id"`
}

type tournamentView struct {
	EventID       string `json:"eventId"`
	EventWindowID string `json:"eventWindowId"`
	DisplayName   string `json:"displayName"`
}

// StateView is the selection state as presented to clients.
type StateView struct {
	PlayerID             string           `json:"playerId"`
	PlayerName           string           `json:"playerName,omitempty"`
	TournamentID         string           `json:"tournamentId"`
	Tournaments          []tournamentView `json:"tournaments"`
	Phase                selection.Phase  `json:"phase"`
	Placeholder          string           `json:"placeholder"`
	TournamentSelectable bool             `json:"tournamentSelectable"`
	LoadingCatalog       bool             `json:"loadingCatalog"`
	LoadingTournaments   bool             `json:"loadingTournaments"`
	LoadingStats         bool             `json:"loadingStats"`
	Snapshot             *stats.Snapshot  `json:"snapshot"`
	Cards                []stats.Card     `json:"cards"`
	Generation           uint64           `json:"generation"`
}

func toTournamentViews(ts []osirion.Tournament) []tournamentView {
	views := make([]tournamentView, 0, len(ts))
	for _, t := range ts {
		views = append(views, tournamentView{
			EventID:       t.EventID,
			EventWindowID: t.EventWindowID,
			DisplayName:   t.DisplayName(),
		})
	}
	return views
}
