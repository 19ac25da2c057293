package selection

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-stats/internal/catalog"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/osirion"
	"github.com/mauv0809/tournament-stats/internal/stats"
)

const errorBufferSize = 64

// Machine coordinates catalog loading, participation and stats resolution.
//
// Every mutation bumps Generation. Background runs capture the generation they
// were launched with and commit only if it is still current, so a superseded
// run can never overwrite newer state. All commits happen under mu.
type Machine struct {
	ctx           context.Context
	loader        CatalogLoader
	participation ParticipationResolver
	stats         StatsResolver
	metrics       metrics.Metrics

	mu          sync.Mutex
	state       State
	catalog     catalog.Catalog
	subscribers map[int]chan State
	nextSubID   int

	runs sync.WaitGroup
	errs chan error
}

// New creates a Machine in the Idle phase. ctx bounds every background run.
func New(ctx context.Context, loader CatalogLoader, participation ParticipationResolver, stats StatsResolver, metrics metrics.Metrics) *Machine {
	return &Machine{
		ctx:           ctx,
		loader:        loader,
		participation: participation,
		stats:         stats,
		metrics:       metrics,
		state:         State{Tournaments: []osirion.Tournament{}},
		subscribers:   make(map[int]chan State),
		errs:          make(chan error, errorBufferSize),
	}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Placeholder returns the tournament picker text for the current state.
func (m *Machine) Placeholder() string {
	return m.State().Placeholder()
}

// Catalog returns the loaded catalog; it is empty until LoadCatalog succeeded.
func (m *Machine) Catalog() catalog.Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog
}

// Errors is the diagnostics channel. Pipeline failures never reach callers as
// errors; they are published here and dropped when nobody drains the channel.
func (m *Machine) Errors() <-chan error {
	return m.errs
}

// Wait blocks until every background run launched so far has settled.
func (m *Machine) Wait() {
	m.runs.Wait()
}

// Subscribe returns a channel receiving a state copy after every transition.
// A slow subscriber only ever sees the latest state. Call cancel to unsubscribe.
func (m *Machine) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan State, 1)
	ch <- m.state.clone()
	m.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// LoadCatalog loads the tournament catalog. A failure leaves the catalog empty and
// is returned for logging only; the machine stays usable. If a player is already
// selected, participation is resolved again against the new catalog.
func (m *Machine) LoadCatalog(ctx context.Context) error {
	m.mu.Lock()
	m.state.LoadingCatalog = true
	m.publishLocked()
	m.mu.Unlock()

	cat, err := m.loader.Load(ctx)
	if err != nil {
		m.report(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = cat
	m.state.LoadingCatalog = false
	if m.state.PlayerID != "" {
		log.Info("Catalog changed with a player selected, resolving participation again", "player", m.state.PlayerID)
		m.resetForPlayerLocked(m.state.PlayerID)
		m.launchParticipationLocked()
	}
	m.publishLocked()
	return err
}

// SelectPlayer changes the selected player. Downstream state is cleared before
// this returns; participation for a non-empty id resolves in the background.
func (m *Machine) SelectPlayer(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if playerID == m.state.PlayerID {
		log.Debug("Player already selected", "player", playerID)
		return
	}

	log.Info("Player selected", "player", playerID, "previous", m.state.PlayerID)
	m.resetForPlayerLocked(playerID)
	if playerID != "" {
		m.launchParticipationLocked()
	}
	m.publishLocked()
}

// SelectTournament changes the selected tournament. The snapshot is cleared
// before this returns; stats resolve in the background. An empty id clears the
// tournament selection.
func (m *Machine) SelectTournament(eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.PlayerID == "" || m.state.LoadingTournaments {
		return ErrTournamentsNotReady
	}

	if eventID == "" {
		if m.state.TournamentID == "" {
			return nil
		}
		m.state.Generation++
		m.state.TournamentID = ""
		m.state.Snapshot = nil
		m.state.LoadingStats = false
		m.publishLocked()
		return nil
	}

	if !m.state.hasTournament(eventID) {
		return fmt.Errorf("%w: %s", ErrUnknownTournament, eventID)
	}
	if eventID == m.state.TournamentID && (m.state.LoadingStats || m.state.Snapshot != nil) {
		log.Debug("Tournament already selected", "eventID", eventID)
		return nil
	}

	log.Info("Tournament selected", "player", m.state.PlayerID, "eventID", eventID)
	m.state.Generation++
	m.state.TournamentID = eventID
	m.state.Snapshot = nil
	m.state.LoadingStats = true
	m.launchStatsLocked()
	m.publishLocked()
	return nil
}

func (m *Machine) resetForPlayerLocked(playerID string) {
	m.state.Generation++
	m.state.PlayerID = playerID
	m.state.TournamentID = ""
	m.state.Snapshot = nil
	m.state.Tournaments = []osirion.Tournament{}
	m.state.LoadingStats = false
	m.state.LoadingTournaments = playerID != ""
}

func (m *Machine) launchParticipationLocked() {
	gen := m.state.Generation
	playerID := m.state.PlayerID
	cat := m.catalog

	m.runs.Add(1)
	go func() {
		defer m.runs.Done()
		result := m.participation.Resolve(m.ctx, cat, playerID)
		for _, err := range result.Failures {
			m.report(err)
		}
		m.commitParticipation(gen, playerID, result.Tournaments)
	}()
}

func (m *Machine) commitParticipation(gen uint64, playerID string, tournaments []osirion.Tournament) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.state.Generation {
		m.discardLocked(metrics.StageParticipation, gen, "player", playerID)
		return
	}

	m.state.Tournaments = append([]osirion.Tournament{}, tournaments...)
	m.state.TournamentID = ""
	m.state.Snapshot = nil
	m.state.LoadingTournaments = false
	log.Debug("Participation committed", "player", playerID, "tournaments", len(tournaments), "generation", gen)
	m.publishLocked()
}

func (m *Machine) launchStatsLocked() {
	gen := m.state.Generation
	playerID := m.state.PlayerID
	eventID := m.state.TournamentID
	cat := m.catalog

	m.runs.Add(1)
	go func() {
		defer m.runs.Done()
		snap, err := m.stats.Resolve(m.ctx, cat, playerID, eventID)
		if err != nil {
			m.report(err)
		}
		m.commitStats(gen, eventID, snap, err)
	}()
}

func (m *Machine) commitStats(gen uint64, eventID string, snap stats.Snapshot, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.state.Generation {
		m.discardLocked(metrics.StageStats, gen, "eventID", eventID)
		return
	}

	m.state.LoadingStats = false
	if err == nil {
		m.state.Snapshot = &snap
	}
	log.Debug("Stats committed", "player", m.state.PlayerID, "eventID", m.state.TournamentID, "ok", err == nil, "generation", gen)
	m.publishLocked()
}

func (m *Machine) discardLocked(stage metrics.Stage, gen uint64, keyvals ...any) {
	m.metrics.IncStaleResults(stage)
	log.Debug("Discarding stale result", append([]any{"stage", stage, "generation", gen, "current", m.state.Generation}, keyvals...)...)
	m.report(fmt.Errorf("%w: %s generation %d, current %d", ErrStaleResult, stage, gen, m.state.Generation))
}

// report publishes err on the diagnostics channel without blocking.
func (m *Machine) report(err error) {
	select {
	case m.errs <- err:
	default:
		log.Debug("Diagnostics channel full, dropping error", "error", err)
	}
}

// publishLocked hands a copy of the state to every subscriber, replacing
// whatever the subscriber has not consumed yet.
func (m *Machine) publishLocked() {
	for _, ch := range m.subscribers {
		s := m.state.clone()
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}
