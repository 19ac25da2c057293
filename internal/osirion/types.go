package osirion

import (
	"encoding/json"
	"strings"
)

// Tournament identifies a single event window on the upstream API.
type Tournament struct {
	EventID       string `json:"eventId"`
	EventWindowID string `json:"eventWindowId"`
}

// DisplayName renders the event id the way players read it, e.g.
// "epicgames_S32_FNCS_Major1" becomes "S32 FNCS Major1".
func (t Tournament) DisplayName() string {
	name := strings.Replace(t.EventID, "epicgames_", "", 1)
	return strings.ReplaceAll(name, "_", " ")
}

// PlayerStats is one player entry of a tournament window.
// Counts are float64 because the API does not guarantee integral numbers.
// Ranks are nil when the upstream does not report them.
type PlayerStats struct {
	Eliminations        float64  `json:"eliminations"`
	EliminationsRank    *float64 `json:"eliminationsRank,omitempty"`
	Assists             float64  `json:"assists"`
	AssistsRank         *float64 `json:"assistsRank,omitempty"`
	Shots               float64  `json:"shots"`
	ShotsRank           *float64 `json:"shotsRank,omitempty"`
	Headshots           float64  `json:"headshots"`
	HeadshotsRank       *float64 `json:"headshotsRank,omitempty"`
	HitsToPlayers       float64  `json:"hitsToPlayers"`
	HitsToPlayersRank   *float64 `json:"hitsToPlayersRank,omitempty"`
	DamageToPlayers     float64  `json:"damageToPlayers"`
	DamageToPlayersRank *float64 `json:"damageToPlayersRank,omitempty"`
	HealthTaken         float64  `json:"healthTaken"`
	HealthTakenRank     *float64 `json:"healthTakenRank,omitempty"`
	DamageRatio         float64  `json:"damageRatio"`
	DamageRatioRank     *float64 `json:"damageRatioRank,omitempty"`
}

// tournamentsResponse defines the structure for the JSON response of the tournament list.
type tournamentsResponse struct {
	Tournaments []Tournament `json:"tournaments"`
}

// tournamentEntriesResponse only counts the player entries of a window.
type tournamentEntriesResponse struct {
	Players []json.RawMessage `json:"players"`
}

// tournamentPlayersResponse defines the structure for the JSON response of a single tournament window.
type tournamentPlayersResponse struct {
	Players []PlayerStats `json:"players"`
}
