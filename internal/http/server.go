package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/tournament-stats/internal/config"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/notifier"
	"github.com/mauv0809/tournament-stats/internal/roster"
	"github.com/mauv0809/tournament-stats/internal/selection"
)

func NewServer(store roster.Store, machine *selection.Machine, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Roster:         store,
		Machine:        machine,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(requestIDMiddleware)

	s.Router.Handle("/metrics", s.MetricsHandler)

	// Everything else gets the common query parameters.
	s.Router.Group(func(r chi.Router) {
		r.Use(paramsMiddleware)

		r.Get("/health", s.HealthCheckHandler())
		r.Get("/players", s.ListPlayersHandler())
		r.Get("/tournaments", s.ListTournamentsHandler())
		r.Get("/state", s.StateHandler())
		r.Get("/ws", s.StateStreamHandler())
		r.Post("/select/player", s.SelectPlayerHandler())
		r.Post("/select/tournament", s.SelectTournamentHandler())
		r.Post("/share", s.ShareHandler())

		r.With(s.slackVerifyMiddleware).Post("/slack/command/tournament-stats", s.TournamentStatsCommandHandler())
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
