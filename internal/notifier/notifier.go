package notifier

import "github.com/mauv0809/tournament-stats/internal/stats"

// Notifier defines a high-level interface for sharing resolved stats.
type Notifier interface {
	// SendSnapshot posts the stat cards of a resolved snapshot.
	SendSnapshot(snapshot stats.Snapshot, playerName string, dryRun bool) error

	// For formatting responses for slash commands
	FormatSnapshotResponse(snapshot stats.Snapshot, playerName string) (any, error)
	FormatNoSnapshotResponse(placeholder string) (any, error)
}
