package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-stats/internal/roster"
	"github.com/mauv0809/tournament-stats/internal/selection"
	"github.com/mauv0809/tournament-stats/internal/stats"
	"github.com/slack-go/slack"
)

const (
	statusLoadingStats = "Loading stats..."
	statusNoStats      = "No stats available for this tournament"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	respondJSON(w, http.StatusOK, msg)
}

func decodeSelectRequest(r *http.Request) (selectRequest, error) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// playerName looks the id up on the roster; unknown ids have no name.
func (s *Server) playerName(id string) string {
	if id == "" {
		return ""
	}
	p, err := s.Roster.Get(id)
	if err != nil {
		return ""
	}
	return p.Name
}

func (s *Server) stateView(state selection.State) StateView {
	view := StateView{
		PlayerID:             state.PlayerID,
		PlayerName:           s.playerName(state.PlayerID),
		TournamentID:         state.TournamentID,
		Tournaments:          toTournamentViews(state.Tournaments),
		Phase:                state.Phase(),
		Placeholder:          state.Placeholder(),
		TournamentSelectable: state.TournamentSelectable(),
		LoadingCatalog:       state.LoadingCatalog,
		LoadingTournaments:   state.LoadingTournaments,
		LoadingStats:         state.LoadingStats,
		Snapshot:             state.Snapshot,
		Cards:                []stats.Card{},
		Generation:           state.Generation,
	}
	if state.Snapshot != nil {
		view.Cards = state.Snapshot.Cards()
	}
	return view
}

// snapshotStatus explains why a state has no snapshot to show.
func snapshotStatus(state selection.State) string {
	switch {
	case state.TournamentID == "":
		return state.Placeholder()
	case state.LoadingStats:
		return statusLoadingStats
	default:
		return statusNoStats
	}
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Roster.List()
		if err != nil {
			log.Error("Failed to list roster", "error", err)
			http.Error(w, "Failed to list players", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, toTournamentViews(s.Machine.Catalog().Tournaments()))
	}
}

func (s *Server) StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.stateView(s.Machine.State()))
	}
}

func (s *Server) SelectPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeSelectRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.ID != "" {
			if _, err := s.Roster.Get(req.ID); err != nil {
				if errors.Is(err, roster.ErrPlayerNotFound) {
					http.Error(w, "Player is not on the roster", http.StatusNotFound)
					return
				}
				log.Error("Failed to look up player", "player_id", req.ID, "error", err)
				http.Error(w, "Failed to look up player", http.StatusInternalServerError)
				return
			}
		}

		log.Info("Selecting player", "player_id", req.ID, "request_id", requestIDFromContext(r))
		s.Machine.SelectPlayer(req.ID)
		respondJSON(w, http.StatusAccepted, s.stateView(s.Machine.State()))
	}
}

func (s *Server) SelectTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeSelectRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Info("Selecting tournament", "event_id", req.ID, "request_id", requestIDFromContext(r))
		if err := s.Machine.SelectTournament(req.ID); err != nil {
			if errors.Is(err, selection.ErrUnknownTournament) || errors.Is(err, selection.ErrTournamentsNotReady) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			log.Error("Failed to select tournament", "event_id", req.ID, "error", err)
			http.Error(w, "Failed to select tournament", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusAccepted, s.stateView(s.Machine.State()))
	}
}

// ShareHandler posts the current snapshot to the configured Slack channel.
func (s *Server) ShareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		if !isDryRun && !s.Cfg.Slack.Enabled() {
			http.Error(w, "Slack sharing is not configured", http.StatusServiceUnavailable)
			return
		}

		state := s.Machine.State()
		if state.Snapshot == nil {
			http.Error(w, snapshotStatus(state), http.StatusConflict)
			return
		}

		if err := s.Notifier.SendSnapshot(*state.Snapshot, s.playerName(state.PlayerID), isDryRun); err != nil {
			log.Error("Failed to share snapshot", "error", err)
			http.Error(w, "Failed to share stats", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Shared!")
	}
}

// TournamentStatsCommandHandler answers the slash command with the current snapshot.
func (s *Server) TournamentStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		log.Info("Received tournament-stats command", "user", r.FormValue("user_name"))

		state := s.Machine.State()
		var (
			msg any
			err error
		)
		if state.Snapshot != nil {
			msg, err = s.Notifier.FormatSnapshotResponse(*state.Snapshot, s.playerName(state.PlayerID))
		} else {
			msg, err = s.Notifier.FormatNoSnapshotResponse(snapshotStatus(state))
		}
		if err != nil {
			log.Error("Failed to format tournament stats", "error", err)
			http.Error(w, "Failed to format tournament stats", http.StatusInternalServerError)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			// Non-Slack notifiers return plain values.
			respondJSON(w, http.StatusOK, msg)
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
