package stats

import "github.com/mauv0809/tournament-stats/internal/osirion"

// Snapshot is the stats record resolved for one (player, tournament) pair.
type Snapshot struct {
	PlayerID   string              `json:"playerId"`
	Tournament osirion.Tournament  `json:"tournament"`
	Stats      osirion.PlayerStats `json:"stats"`
}

// Card is one labelled, already formatted stat for display.
type Card struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Subtext string `json:"subtext,omitempty"`
}
