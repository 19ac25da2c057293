package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	catalogLoads         map[Outcome]int
	catalogSize          int
	participationQueries map[Outcome]int
	statsQueries         map[Outcome]int
	staleResults         map[Stage]int
	durations            map[Stage][]float64
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		catalogLoads:         make(map[Outcome]int),
		participationQueries: make(map[Outcome]int),
		statsQueries:         make(map[Outcome]int),
		staleResults:         make(map[Stage]int),
		durations:            make(map[Stage][]float64),
	}
}

func (m *Mock) IncCatalogLoads(outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogLoads[outcome]++
}

func (m *Mock) SetCatalogSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogSize = size
}

func (m *Mock) IncParticipationQueries(outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participationQueries[outcome]++
}

func (m *Mock) IncStatsQueries(outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsQueries[outcome]++
}

func (m *Mock) IncStaleResults(stage Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staleResults[stage]++
}

func (m *Mock) ObserveResolutionDuration(stage Stage, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[stage] = append(m.durations[stage], seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// CatalogLoads returns how many catalog loads ended with the given outcome.
func (m *Mock) CatalogLoads(outcome Outcome) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogLoads[outcome]
}

// CatalogSize returns the last catalog size set.
func (m *Mock) CatalogSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogSize
}

// ParticipationQueries returns how many participation queries ended with the given outcome.
func (m *Mock) ParticipationQueries(outcome Outcome) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.participationQueries[outcome]
}

// StatsQueries returns how many stats queries ended with the given outcome.
func (m *Mock) StatsQueries(outcome Outcome) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsQueries[outcome]
}

// StaleResults returns how many results of the given stage were discarded.
func (m *Mock) StaleResults(stage Stage) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.staleResults[stage]
}

// Durations returns the durations observed for the given stage.
func (m *Mock) Durations(stage Stage) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.durations[stage]...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
