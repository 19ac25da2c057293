package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncCatalogLoads(outcome Outcome)
	SetCatalogSize(size int)
	IncParticipationQueries(outcome Outcome)
	IncStatsQueries(outcome Outcome)
	IncStaleResults(stage Stage)
	ObserveResolutionDuration(stage Stage, seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
