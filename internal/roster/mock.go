package roster

import (
	"fmt"
	"sync"
)

// Mock is an in-memory implementation of Store for testing.
// It is safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	players []Player

	// Spies for method calls
	ListFunc func() ([]Player, error)

	// Call records
	UpsertCalls  [][]Player
	ReplaceCalls [][]Player
}

// NewMock creates a new mock holding players.
func NewMock(players ...Player) *Mock {
	return &Mock{players: append([]Player(nil), players...)}
}

func (m *Mock) List() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return append([]Player{}, m.players...), nil
}

func (m *Mock) Get(id string) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.ID == id {
			return p, nil
		}
	}
	return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
}

func (m *Mock) Upsert(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, players)
	for _, p := range players {
		replaced := false
		for i := range m.players {
			if m.players[i].ID == p.ID {
				m.players[i] = p
				replaced = true
			}
		}
		if !replaced {
			m.players = append(m.players, p)
		}
	}
	return nil
}

func (m *Mock) Replace(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceCalls = append(m.ReplaceCalls, players)
	m.players = append([]Player{}, players...)
	return nil
}

func (m *Mock) Count() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players), nil
}
