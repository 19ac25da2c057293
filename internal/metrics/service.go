package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_catalog_loads_total",
			Help: "The total number of tournament catalog loads, by outcome.",
		}, []string{"outcome"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tournament_catalog_size",
			Help: "The number of tournaments in the loaded catalog.",
		}),
		ParticipationQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_participation_queries_total",
			Help: "The total number of per-tournament participation queries, by outcome.",
		}, []string{"outcome"}),
		StatsQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_stats_queries_total",
			Help: "The total number of stats queries, by outcome.",
		}, []string{"outcome"}),
		StaleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_stale_results_discarded_total",
			Help: "The total number of resolution results discarded because the selection changed.",
		}, []string{"stage"}),
		ResolutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tournament_resolution_duration_seconds",
			Help:    "The duration of a pipeline stage, from launch to settle.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tournament_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.CatalogLoads,
		s.CatalogSize,
		s.ParticipationQueries,
		s.StatsQueries,
		s.StaleResults,
		s.ResolutionDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncCatalogLoads(outcome Outcome) {
	s.CatalogLoads.WithLabelValues(string(outcome)).Inc()
}

func (s *Service) SetCatalogSize(size int) {
	s.CatalogSize.Set(float64(size))
}

func (s *Service) IncParticipationQueries(outcome Outcome) {
	s.ParticipationQueries.WithLabelValues(string(outcome)).Inc()
}

func (s *Service) IncStatsQueries(outcome Outcome) {
	s.StatsQueries.WithLabelValues(string(outcome)).Inc()
}

func (s *Service) IncStaleResults(stage Stage) {
	s.StaleResults.WithLabelValues(string(stage)).Inc()
}

func (s *Service) ObserveResolutionDuration(stage Stage, seconds float64) {
	s.ResolutionDuration.WithLabelValues(string(stage)).Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
