package notifier

import (
	"sync"

	"github.com/mauv0809/tournament-stats/internal/stats"
)

// SendSnapshotCall records one SendSnapshot invocation.
type SendSnapshotCall struct {
	Snapshot   stats.Snapshot
	PlayerName string
	DryRun     bool
}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendSnapshotFunc func(snapshot stats.Snapshot, playerName string, dryRun bool) error

	// Call records
	SendSnapshotCalls        []SendSnapshotCall
	FormatNoSnapshotCalls    []string
	FormatSnapshotCallsCount int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSnapshotCalls = nil
	m.FormatNoSnapshotCalls = nil
	m.FormatSnapshotCallsCount = 0
}

func (m *Mock) SendSnapshot(snapshot stats.Snapshot, playerName string, dryRun bool) error {
	m.mu.Lock()
	m.SendSnapshotCalls = append(m.SendSnapshotCalls, SendSnapshotCall{snapshot, playerName, dryRun})
	fn := m.SendSnapshotFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(snapshot, playerName, dryRun)
	}
	return nil
}

func (m *Mock) FormatSnapshotResponse(snapshot stats.Snapshot, playerName string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatSnapshotCallsCount++
	return map[string]string{"text": "formatted_snapshot"}, nil
}

func (m *Mock) FormatNoSnapshotResponse(placeholder string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatNoSnapshotCalls = append(m.FormatNoSnapshotCalls, placeholder)
	return map[string]string{"text": placeholder}, nil
}
