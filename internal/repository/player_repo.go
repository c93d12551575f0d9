package repository

import (
	"database/sql"
	"errors"
	"time"

	"mathadventure/internal/database"
	"mathadventure/internal/models"
)

// PlayerRepository handles anonymous player profile rows
type PlayerRepository struct {
	db *database.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Ensure creates the player row if it does not exist and refreshes its
// last-seen timestamp otherwise
func (r *PlayerRepository) Ensure(playerID string) error {
	now := time.Now()

	result, err := r.db.Exec("UPDATE players SET last_seen_at = ? WHERE id = ?", now, playerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	_, err = r.db.Exec("INSERT INTO players (id, created_at, last_seen_at) VALUES (?, ?, ?)", playerID, now, now)
	return err
}

// Get retrieves a player by ID, or nil if unknown
func (r *PlayerRepository) Get(playerID string) (*models.Player, error) {
	query := "SELECT id, created_at, last_seen_at FROM players WHERE id = ?"

	var player models.Player
	err := r.db.QueryRow(query, playerID).Scan(&player.ID, &player.CreatedAt, &player.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// List returns all players, oldest first
func (r *PlayerRepository) List() ([]models.Player, error) {
	rows, err := r.db.Query("SELECT id, created_at, last_seen_at FROM players ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var player models.Player
		if err := rows.Scan(&player.ID, &player.CreatedAt, &player.LastSeenAt); err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}
