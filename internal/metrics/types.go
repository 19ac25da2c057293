package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels the result of a single upstream query.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeEmpty is a successful query that carried no player entry.
	OutcomeEmpty Outcome = "empty"
	OutcomeError Outcome = "error"
)

// Stage labels a step of the resolution pipeline.
type Stage string

const (
	StageCatalog       Stage = "catalog"
	StageParticipation Stage = "participation"
	StageStats         Stage = "stats"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	CatalogLoads         *prometheus.CounterVec
	CatalogSize          prometheus.Gauge
	ParticipationQueries *prometheus.CounterVec
	StatsQueries         *prometheus.CounterVec
	StaleResults         *prometheus.CounterVec
	ResolutionDuration   *prometheus.HistogramVec
	SlackNotifSent       prometheus.Counter
	SlackNotifFailed     prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}
