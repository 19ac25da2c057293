package roster

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new roster Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// List returns the roster in its configured order.
func (s *store) List() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name FROM players ORDER BY position, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Get returns a single player by id.
func (s *store) Get(id string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow("SELECT id, name FROM players WHERE id = ?", id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if err != nil {
		return Player{}, err
	}
	return p, nil
}

// Upsert inserts or renames players. Slice order becomes roster order.
func (s *store) Upsert(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := upsertTx(tx, players); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Upserted roster players", "count", len(players))
	return nil
}

// Replace makes players the whole roster: ids missing from the slice are
// removed and the rest upserted, in one transaction.
func (s *store) Replace(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	query := "DELETE FROM players"
	args := make([]any, 0, len(players))
	if len(players) > 0 {
		placeholders := make([]string, len(players))
		for i, p := range players {
			placeholders[i] = "?"
			args = append(args, p.ID)
		}
		query += " WHERE id NOT IN (" + strings.Join(placeholders, ", ") + ")"
	}
	res, err := tx.Exec(query, args...)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prune roster: %w", err)
	}
	if err := upsertTx(tx, players); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	removed, _ := res.RowsAffected()
	log.Info("Replaced roster", "players", len(players), "removed", removed)
	return nil
}

func upsertTx(tx *sql.Tx, players []Player) error {
	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, position) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range players {
		if _, err := stmt.Exec(p.ID, p.Name, i); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	return nil
}

// Count returns the number of players on the roster.
func (s *store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count)
	return count, err
}
