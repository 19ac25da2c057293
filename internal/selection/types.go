package selection

import (
	"errors"

	"github.com/mauv0809/tournament-stats/internal/osirion"
	"github.com/mauv0809/tournament-stats/internal/stats"
)

var (
	// ErrStaleResult marks a resolution result discarded because the selection moved on.
	// It only ever appears on the diagnostics channel.
	ErrStaleResult = errors.New("stale resolution result discarded")
	// ErrUnknownTournament is returned when the tournament is not among the player's tournaments.
	ErrUnknownTournament = errors.New("tournament is not selectable for this player")
	// ErrTournamentsNotReady is returned when no player is selected or participation is still resolving.
	ErrTournamentsNotReady = errors.New("tournament selection is not available yet")
)

// Phase is the externally visible step of the selection flow.
type Phase string

const (
	PhaseIdle                     Phase = "IDLE"
	PhaseResolvingParticipation   Phase = "RESOLVING_PARTICIPATION"
	PhaseAwaitingTournamentChoice Phase = "AWAITING_TOURNAMENT_CHOICE"
	PhaseResolvingStats           Phase = "RESOLVING_STATS"
	PhaseReady                    Phase = "READY"
)

// Placeholder texts for the tournament picker.
const (
	PlaceholderChoosePlayer     = "Choose a player first"
	PlaceholderLoading          = "Loading tournaments..."
	PlaceholderNoTournaments    = "No tournaments found for this player"
	PlaceholderChooseTournament = "Choose a tournament"
)

// State is a copy of the selection state at one point in time.
type State struct {
	PlayerID           string               `json:"playerId"`
	TournamentID       string               `json:"tournamentId"`
	Tournaments        []osirion.Tournament `json:"tournaments"`
	Snapshot           *stats.Snapshot      `json:"snapshot"`
	LoadingCatalog     bool                 `json:"loadingCatalog"`
	LoadingTournaments bool                 `json:"loadingTournaments"`
	LoadingStats       bool                 `json:"loadingStats"`
	Generation         uint64               `json:"generation"`
}

// Phase derives the flow step from the state fields.
func (s State) Phase() Phase {
	switch {
	case s.PlayerID == "":
		return PhaseIdle
	case s.LoadingTournaments:
		return PhaseResolvingParticipation
	case s.TournamentID == "":
		return PhaseAwaitingTournamentChoice
	case s.LoadingStats:
		return PhaseResolvingStats
	case s.Snapshot != nil:
		return PhaseReady
	default:
		// stats failed for the chosen tournament
		return PhaseAwaitingTournamentChoice
	}
}

// Placeholder returns the text the tournament picker shows for this state.
func (s State) Placeholder() string {
	switch {
	case s.PlayerID == "":
		return PlaceholderChoosePlayer
	case s.LoadingTournaments:
		return PlaceholderLoading
	case len(s.Tournaments) == 0:
		return PlaceholderNoTournaments
	default:
		return PlaceholderChooseTournament
	}
}

// TournamentSelectable reports whether the tournament picker accepts input.
func (s State) TournamentSelectable() bool {
	return s.PlayerID != "" && !s.LoadingTournaments && len(s.Tournaments) > 0
}

func (s State) hasTournament(eventID string) bool {
	for _, t := range s.Tournaments {
		if t.EventID == eventID {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	out := s
	out.Tournaments = append([]osirion.Tournament{}, s.Tournaments...)
	if s.Snapshot != nil {
		snap := *s.Snapshot
		out.Snapshot = &snap
	}
	return out
}
