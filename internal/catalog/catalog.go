package catalog

import "github.com/mauv0809/tournament-stats/internal/osirion"

// Catalog is the ordered collection of every known tournament, in server response order.
type Catalog struct {
	tournaments []osirion.Tournament
}

// New copies tournaments into a Catalog.
func New(tournaments []osirion.Tournament) Catalog {
	return Catalog{tournaments: append([]osirion.Tournament(nil), tournaments...)}
}

// Tournaments returns a copy of the catalog contents.
func (c Catalog) Tournaments() []osirion.Tournament {
	return append([]osirion.Tournament(nil), c.tournaments...)
}

// Len returns the number of tournaments in the catalog.
func (c Catalog) Len() int {
	return len(c.tournaments)
}

// Find looks up a tournament by event id. The first match wins.
func (c Catalog) Find(eventID string) (osirion.Tournament, bool) {
	for _, t := range c.tournaments {
		if t.EventID == eventID {
			return t, true
		}
	}
	return osirion.Tournament{}, false
}
