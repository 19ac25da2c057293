package osirion

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the TournamentClient interface for testing.
// It is safe for concurrent use. The hooks run outside the lock so that a test can
// block one call while others proceed.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	ListTournamentsFunc      func(ctx context.Context) ([]Tournament, error)
	GetTournamentPlayersFunc func(ctx context.Context, eventID, eventWindowID, playerID string) ([]PlayerStats, error)

	// When nil, CountTournamentPlayers counts what GetTournamentPlayers returns
	// and records the call there, so one fake serves both queries.
	CountTournamentPlayersFunc func(ctx context.Context, eventID, eventWindowID, playerID string) (int, error)

	// Call records
	ListTournamentsCalls      int
	GetTournamentPlayersCalls []GetTournamentPlayersCall
}

// GetTournamentPlayersCall holds the arguments for a call to GetTournamentPlayers.
type GetTournamentPlayersCall struct {
	EventID       string
	EventWindowID string
	PlayerID      string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListTournamentsCalls = 0
	m.GetTournamentPlayersCalls = nil
}

func (m *MockClient) ListTournaments(ctx context.Context) ([]Tournament, error) {
	m.mu.Lock()
	m.ListTournamentsCalls++
	fn := m.ListTournamentsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return []Tournament{}, nil
}

func (m *MockClient) GetTournamentPlayers(ctx context.Context, eventID, eventWindowID, playerID string) ([]PlayerStats, error) {
	m.mu.Lock()
	m.GetTournamentPlayersCalls = append(m.GetTournamentPlayersCalls, GetTournamentPlayersCall{
		EventID:       eventID,
		EventWindowID: eventWindowID,
		PlayerID:      playerID,
	})
	fn := m.GetTournamentPlayersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, eventID, eventWindowID, playerID)
	}
	return []PlayerStats{}, nil
}

func (m *MockClient) CountTournamentPlayers(ctx context.Context, eventID, eventWindowID, playerID string) (int, error) {
	m.mu.Lock()
	fn := m.CountTournamentPlayersFunc
	if fn != nil {
		m.GetTournamentPlayersCalls = append(m.GetTournamentPlayersCalls, GetTournamentPlayersCall{
			EventID:       eventID,
			EventWindowID: eventWindowID,
			PlayerID:      playerID,
		})
	}
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, eventID, eventWindowID, playerID)
	}
	players, err := m.GetTournamentPlayers(ctx, eventID, eventWindowID, playerID)
	return len(players), err
}

// PlayerCalls returns the number of per-window queries recorded so far.
func (m *MockClient) PlayerCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetTournamentPlayersCalls)
}
