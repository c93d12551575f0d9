package repository

import (
	"database/sql"
	"errors"
	"time"

	"mathadventure/internal/database"
)

// ProgressRepository persists one JSON progress document per player.
// Writes always replace the whole record; there is no partial update, so
// a reader can never observe a half-written shape.
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns the raw persisted payload for the player. The second
// return value is false when no record exists yet.
func (r *ProgressRepository) Get(playerID string) ([]byte, bool, error) {
	var data string
	err := r.db.QueryRow("SELECT data FROM progress_records WHERE player_id = ?", playerID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(data), true, nil
}

// Save writes the whole record for the player, creating the row on first
// write. The update-then-insert pair runs in one transaction so two
// writers cannot both take the insert path.
func (r *ProgressRepository) Save(playerID string, data []byte) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()

	result, err := tx.Exec(
		"UPDATE progress_records SET data = ?, updated_at = ? WHERE player_id = ?",
		string(data), now, playerID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		_, err = tx.Exec(
			"INSERT INTO progress_records (player_id, data, updated_at) VALUES (?, ?, ?)",
			playerID, string(data), now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes the player's record entirely
func (r *ProgressRepository) Delete(playerID string) error {
	_, err := r.db.Exec("DELETE FROM progress_records WHERE player_id = ?", playerID)
	return err
}
