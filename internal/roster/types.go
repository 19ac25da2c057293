package roster

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrPlayerNotFound is returned when an id is not on the roster.
var ErrPlayerNotFound = errors.New("player not found")

// Player is a selectable player: an Epic account id and a display name.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultPlayers is the roster used when none is configured.
var DefaultPlayers = []Player{
	{ID: "0fbe9a0b66894685b4cad62824f4e5ac", Name: "Player A"},
	{ID: "4735ce9132924caf8a5b17789b40f79c", Name: "Player B"},
}

// store handles all database operations for the roster.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ParseRoster parses "id:name,id:name". Whitespace around entries is ignored.
func ParseRoster(raw string) ([]Player, error) {
	var players []Player
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, ok := strings.Cut(entry, ":")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid roster entry %q, want id:name", entry)
		}
		players = append(players, Player{ID: id, Name: name})
	}
	return players, nil
}
