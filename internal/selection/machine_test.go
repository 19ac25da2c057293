package selection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mauv0809/tournament-stats/internal/catalog"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/osirion"
	"github.com/mauv0809/tournament-stats/internal/participation"
	"github.com/mauv0809/tournament-stats/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t1 = osirion.Tournament{EventID: "T1", EventWindowID: "W1"}
	t2 = osirion.Tournament{EventID: "T2", EventWindowID: "W2"}
	t3 = osirion.Tournament{EventID: "T3", EventWindowID: "W3"}
)

// upstream is a fake tournament API. entries maps player -> event -> eliminations;
// a present key means the player took part. Calls for a gated player block until released.
type upstream struct {
	mu      sync.Mutex
	entries map[string]map[string]int64
	gates   map[string]chan struct{}
	fail    map[string]bool
}

func newUpstream(entries map[string]map[string]int64) *upstream {
	return &upstream{
		entries: entries,
		gates:   make(map[string]chan struct{}),
		fail:    make(map[string]bool),
	}
}

// gate makes every call for key block until the returned release func runs.
// key is a player id, or "player/event" to gate a single tournament.
func (u *upstream) gate(key string) func() {
	u.mu.Lock()
	defer u.mu.Unlock()
	ch := make(chan struct{})
	u.gates[key] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (u *upstream) failOn(key string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fail[key] = true
}

func (u *upstream) players(ctx context.Context, eventID, eventWindowID, playerID string) ([]osirion.PlayerStats, error) {
	u.mu.Lock()
	gates := []chan struct{}{u.gates[playerID], u.gates[playerID+"/"+eventID]}
	failed := u.fail[playerID+"/"+eventID]
	elims, ok := u.entries[playerID][eventID]
	u.mu.Unlock()

	for _, g := range gates {
		if g != nil {
			<-g
		}
	}
	if failed {
		return nil, errors.New("upstream unavailable")
	}
	if !ok {
		return []osirion.PlayerStats{}, nil
	}
	return []osirion.PlayerStats{{Eliminations: float64(elims)}}, nil
}

type fixture struct {
	machine  *Machine
	client   *osirion.MockClient
	upstream *upstream
	metrics  *metrics.Mock
}

func newFixture(t *testing.T, tournaments []osirion.Tournament, entries map[string]map[string]int64) *fixture {
	t.Helper()
	client := osirion.NewMockClient()
	up := newUpstream(entries)
	client.ListTournamentsFunc = func(ctx context.Context) ([]osirion.Tournament, error) {
		return tournaments, nil
	}
	client.GetTournamentPlayersFunc = up.players
	metr := metrics.NewMock()

	m := New(
		context.Background(),
		catalog.NewLoader(client, metr),
		participation.NewResolver(client, metr),
		stats.NewResolver(client, metr),
		metr,
	)
	require.NoError(t, m.LoadCatalog(context.Background()))
	return &fixture{machine: m, client: client, upstream: up, metrics: metr}
}

func ids(ts []osirion.Tournament) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.EventID
	}
	return out
}

func TestMachine_InitialState(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, nil)

	s := f.machine.State()
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, PlaceholderChoosePlayer, f.machine.Placeholder())
	assert.False(t, s.LoadingCatalog)
	assert.False(t, s.TournamentSelectable())
	assert.Equal(t, 1, f.machine.Catalog().Len())
}

func TestMachine_SelectPlayerResolvesParticipation(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, map[string]map[string]int64{
		"P": {"T1": 5},
	})

	f.machine.SelectPlayer("P")
	f.machine.Wait()

	want := State{
		PlayerID:    "P",
		Tournaments: []osirion.Tournament{t1},
		Generation:  1,
	}
	if diff := cmp.Diff(want, f.machine.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PhaseAwaitingTournamentChoice, f.machine.State().Phase())
	assert.Equal(t, PlaceholderChooseTournament, f.machine.Placeholder())
}

func TestMachine_LoadingFlagAndPlaceholderWhileResolving(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{"P": {"T1": 1}})
	release := f.upstream.gate("P")

	f.machine.SelectPlayer("P")

	s := f.machine.State()
	assert.True(t, s.LoadingTournaments)
	assert.Equal(t, PhaseResolvingParticipation, s.Phase())
	assert.Equal(t, PlaceholderLoading, s.Placeholder())
	assert.ErrorIs(t, f.machine.SelectTournament("T1"), ErrTournamentsNotReady)

	release()
	f.machine.Wait()
	assert.False(t, f.machine.State().LoadingTournaments)
}

func TestMachine_NoTournamentsPlaceholder(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, nil)

	f.machine.SelectPlayer("P")
	f.machine.Wait()

	assert.Empty(t, f.machine.State().Tournaments)
	assert.Equal(t, PlaceholderNoTournaments, f.machine.Placeholder())
	assert.False(t, f.machine.State().TournamentSelectable())
}

func TestMachine_DeselectPlayerMakesNoCalls(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{"P": {"T1": 1}})
	f.machine.SelectPlayer("P")
	f.machine.Wait()
	f.client.Reset()

	f.machine.SelectPlayer("")
	f.machine.Wait()

	s := f.machine.State()
	assert.Empty(t, s.Tournaments)
	assert.False(t, s.LoadingTournaments)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, 0, f.client.PlayerCalls())
}

func TestMachine_StalePlayerResultsAreDiscarded(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2, t3}, map[string]map[string]int64{
		"A": {"T1": 1, "T2": 2},
		"B": {"T3": 3},
	})
	releaseA := f.upstream.gate("A")

	f.machine.SelectPlayer("A")
	f.machine.SelectPlayer("B")

	// B resolves while A's fan-out is still outstanding.
	require.Eventually(t, func() bool {
		return !f.machine.State().LoadingTournaments
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"T3"}, ids(f.machine.State().Tournaments))

	releaseA()
	f.machine.Wait()

	s := f.machine.State()
	assert.Equal(t, "B", s.PlayerID)
	assert.Equal(t, []string{"T3"}, ids(s.Tournaments))
	assert.False(t, s.LoadingTournaments)
	assert.Equal(t, 1, f.metrics.StaleResults(metrics.StageParticipation))
}

func TestMachine_StaleResultsDoNotClearNewerLoadingFlag(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{
		"A": {"T1": 1},
		"B": {"T1": 2},
	})
	releaseB := f.upstream.gate("B")

	f.machine.SelectPlayer("A")
	f.machine.Wait() // A settles first
	f.machine.SelectPlayer("B")

	assert.True(t, f.machine.State().LoadingTournaments)
	releaseB()
	f.machine.Wait()
	assert.Equal(t, []string{"T1"}, ids(f.machine.State().Tournaments))
}

func TestMachine_TournamentClearedOnPlayerChangeWhilePending(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, map[string]map[string]int64{
		"A": {"T1": 1},
		"B": {"T2": 2},
	})
	f.machine.SelectPlayer("A")
	f.machine.Wait()
	require.NoError(t, f.machine.SelectTournament("T1"))
	f.machine.Wait()
	require.Equal(t, PhaseReady, f.machine.State().Phase())

	releaseB := f.upstream.gate("B")
	f.machine.SelectPlayer("B")

	s := f.machine.State()
	assert.Empty(t, s.TournamentID)
	assert.Nil(t, s.Snapshot)
	assert.Empty(t, s.Tournaments)
	assert.True(t, s.LoadingTournaments)

	releaseB()
	f.machine.Wait()
	assert.Equal(t, []string{"T2"}, ids(f.machine.State().Tournaments))
	assert.Empty(t, f.machine.State().TournamentID)
}

func TestMachine_SelectTournamentResolvesStats(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, map[string]map[string]int64{
		"P": {"T1": 11, "T2": 22},
	})
	f.machine.SelectPlayer("P")
	f.machine.Wait()

	require.NoError(t, f.machine.SelectTournament("T2"))
	f.machine.Wait()

	s := f.machine.State()
	require.NotNil(t, s.Snapshot)
	assert.Equal(t, PhaseReady, s.Phase())
	assert.Equal(t, float64(22), s.Snapshot.Stats.Eliminations)
	assert.Equal(t, "W2", s.Snapshot.Tournament.EventWindowID)
	assert.Equal(t, "P", s.Snapshot.PlayerID)
	assert.False(t, s.LoadingStats)
}

func TestMachine_SnapshotClearedImmediatelyOnTournamentChange(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, map[string]map[string]int64{
		"P": {"T1": 11, "T2": 22},
	})
	f.machine.SelectPlayer("P")
	f.machine.Wait()
	require.NoError(t, f.machine.SelectTournament("T1"))
	f.machine.Wait()
	require.NotNil(t, f.machine.State().Snapshot)

	release := f.upstream.gate("P/T2")
	require.NoError(t, f.machine.SelectTournament("T2"))

	s := f.machine.State()
	assert.Nil(t, s.Snapshot)
	assert.True(t, s.LoadingStats)
	assert.Equal(t, PhaseResolvingStats, s.Phase())

	release()
	f.machine.Wait()
	require.NotNil(t, f.machine.State().Snapshot)
	assert.Equal(t, float64(22), f.machine.State().Snapshot.Stats.Eliminations)
}

func TestMachine_StaleStatsAreDiscarded(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, map[string]map[string]int64{
		"P": {"T1": 11, "T2": 22},
	})
	f.machine.SelectPlayer("P")
	f.machine.Wait()

	releaseT1 := f.upstream.gate("P/T1")
	require.NoError(t, f.machine.SelectTournament("T1"))
	require.NoError(t, f.machine.SelectTournament("T2"))
	require.Eventually(t, func() bool {
		return f.machine.State().Snapshot != nil
	}, time.Second, 5*time.Millisecond)

	releaseT1()
	f.machine.Wait()

	s := f.machine.State()
	assert.Equal(t, "T2", s.TournamentID)
	assert.Equal(t, float64(22), s.Snapshot.Stats.Eliminations)
	assert.Equal(t, 1, f.metrics.StaleResults(metrics.StageStats))
}

func TestMachine_StatsFailureLeavesNoSnapshot(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{"P": {"T1": 1}})
	f.machine.SelectPlayer("P")
	f.machine.Wait()
	f.upstream.failOn("P/T1")

	require.NoError(t, f.machine.SelectTournament("T1"))
	f.machine.Wait()

	s := f.machine.State()
	assert.Equal(t, "T1", s.TournamentID)
	assert.Nil(t, s.Snapshot)
	assert.False(t, s.LoadingStats)

	var sawStatsErr bool
	for len(f.machine.Errors()) > 0 {
		if errors.Is(<-f.machine.Errors(), stats.ErrStatsQuery) {
			sawStatsErr = true
		}
	}
	assert.True(t, sawStatsErr, "failure is published on the diagnostics channel")
}

func TestMachine_ParticipationFailuresAreReported(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, map[string]map[string]int64{"P": {"T1": 1, "T2": 2}})
	f.upstream.failOn("P/T2")

	f.machine.SelectPlayer("P")
	f.machine.Wait()

	assert.Equal(t, []string{"T1"}, ids(f.machine.State().Tournaments))
	select {
	case err := <-f.machine.Errors():
		assert.ErrorIs(t, err, participation.ErrParticipationQuery)
	default:
		t.Fatal("expected a participation failure on the diagnostics channel")
	}
}

func TestMachine_SelectTournamentValidation(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1, t2}, map[string]map[string]int64{"P": {"T1": 1}})

	assert.ErrorIs(t, f.machine.SelectTournament("T1"), ErrTournamentsNotReady, "no player yet")

	f.machine.SelectPlayer("P")
	f.machine.Wait()

	assert.ErrorIs(t, f.machine.SelectTournament("T2"), ErrUnknownTournament, "player did not take part in T2")
	assert.Empty(t, f.machine.State().TournamentID)
}

func TestMachine_DeselectTournament(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{"P": {"T1": 1}})
	f.machine.SelectPlayer("P")
	f.machine.Wait()
	require.NoError(t, f.machine.SelectTournament("T1"))
	f.machine.Wait()

	require.NoError(t, f.machine.SelectTournament(""))

	s := f.machine.State()
	assert.Empty(t, s.TournamentID)
	assert.Nil(t, s.Snapshot)
	assert.Equal(t, PhaseAwaitingTournamentChoice, s.Phase())
}

func TestMachine_ReselectingSameValuesIsNoop(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{"P": {"T1": 1}})
	f.machine.SelectPlayer("P")
	f.machine.Wait()
	require.NoError(t, f.machine.SelectTournament("T1"))
	f.machine.Wait()
	gen := f.machine.State().Generation
	f.client.Reset()

	f.machine.SelectPlayer("P")
	require.NoError(t, f.machine.SelectTournament("T1"))
	f.machine.Wait()

	assert.Equal(t, gen, f.machine.State().Generation)
	assert.Equal(t, 0, f.client.PlayerCalls())
}

func TestMachine_CatalogFailureKeepsMachineUsable(t *testing.T) {
	client := osirion.NewMockClient()
	client.ListTournamentsFunc = func(ctx context.Context) ([]osirion.Tournament, error) {
		return nil, errors.New("503")
	}
	metr := metrics.NewMock()
	m := New(context.Background(), catalog.NewLoader(client, metr), participation.NewResolver(client, metr), stats.NewResolver(client, metr), metr)

	err := m.LoadCatalog(context.Background())
	assert.ErrorIs(t, err, catalog.ErrCatalogLoad)

	m.SelectPlayer("P")
	m.Wait()

	s := m.State()
	assert.Equal(t, "P", s.PlayerID)
	assert.Empty(t, s.Tournaments)
	assert.False(t, s.LoadingTournaments)
	assert.Equal(t, PlaceholderNoTournaments, s.Placeholder())
	assert.Equal(t, 0, client.PlayerCalls())
}

func TestMachine_LateCatalogReresolvesSelectedPlayer(t *testing.T) {
	client := osirion.NewMockClient()
	up := newUpstream(map[string]map[string]int64{"P": {"T2": 2}})
	client.GetTournamentPlayersFunc = up.players
	catalogReady := make(chan struct{})
	client.ListTournamentsFunc = func(ctx context.Context) ([]osirion.Tournament, error) {
		<-catalogReady
		return []osirion.Tournament{t1, t2}, nil
	}
	metr := metrics.NewMock()
	m := New(context.Background(), catalog.NewLoader(client, metr), participation.NewResolver(client, metr), stats.NewResolver(client, metr), metr)

	loaded := make(chan error)
	go func() { loaded <- m.LoadCatalog(context.Background()) }()
	require.Eventually(t, func() bool { return m.State().LoadingCatalog }, time.Second, 5*time.Millisecond)

	m.SelectPlayer("P")
	m.Wait()
	assert.Empty(t, m.State().Tournaments, "nothing to query before the catalog arrives")

	close(catalogReady)
	require.NoError(t, <-loaded)
	m.Wait()

	assert.Equal(t, []string{"T2"}, ids(m.State().Tournaments))
	assert.False(t, m.State().LoadingCatalog)
}

func TestMachine_SubscribeSeesTransitions(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{"P": {"T1": 1}})
	updates, cancel := f.machine.Subscribe()
	defer cancel()

	initial := <-updates
	assert.Equal(t, PhaseIdle, initial.Phase())

	f.machine.SelectPlayer("P")
	f.machine.Wait()

	var last State
	require.Eventually(t, func() bool {
		select {
		case s := <-updates:
			last = s
		default:
		}
		return last.Phase() == PhaseAwaitingTournamentChoice
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"T1"}, ids(last.Tournaments))

	cancel()
	_, open := <-updates
	assert.False(t, open)
}

func TestMachine_StateIsACopy(t *testing.T) {
	f := newFixture(t, []osirion.Tournament{t1}, map[string]map[string]int64{"P": {"T1": 1}})
	f.machine.SelectPlayer("P")
	f.machine.Wait()

	s := f.machine.State()
	s.Tournaments[0].EventID = "mutated"

	assert.Equal(t, "T1", f.machine.State().Tournaments[0].EventID)
}
