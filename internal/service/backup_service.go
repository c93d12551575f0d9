package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"mathadventure/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	DatabaseType string           `json:"database_type"`
	Players      []PlayerBackup   `json:"players"`
	Progress     []ProgressBackup `json:"progress"`
}

// PlayerBackup represents a player record for backup
type PlayerBackup struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// ProgressBackup represents a progress record for backup. The payload is
// embedded as-is so an exported file stays readable without the app.
type ProgressBackup struct {
	PlayerID  string          `json:"player_id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportPlayers(backup); err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}

	if err := s.exportProgress(backup); err != nil {
		return fmt.Errorf("failed to export progress: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d players, %d progress records", len(backup.Players), len(backup.Progress))

	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader. The whole
// import runs in one transaction; a bad record rolls everything back.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start import transaction: %w", err)
	}
	defer tx.Rollback()

	// Players first, progress rows reference them
	if err := s.importPlayers(tx, backup.Players); err != nil {
		return fmt.Errorf("failed to import players: %w", err)
	}

	if err := s.importProgress(tx, backup.Progress); err != nil {
		return fmt.Errorf("failed to import progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportPlayers(backup *BackupData) error {
	query := "SELECT id, created_at, last_seen_at FROM players ORDER BY created_at"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p PlayerBackup
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.LastSeenAt); err != nil {
			return err
		}
		backup.Players = append(backup.Players, p)
	}
	return rows.Err()
}

func (s *BackupService) exportProgress(backup *BackupData) error {
	query := "SELECT player_id, data, updated_at FROM progress_records ORDER BY player_id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProgressBackup
		var data string
		if err := rows.Scan(&p.PlayerID, &data, &p.UpdatedAt); err != nil {
			return err
		}
		if !json.Valid([]byte(data)) {
			log.Printf("Skipping progress record with invalid payload for player %s", p.PlayerID)
			continue
		}
		p.Data = json.RawMessage(data)
		backup.Progress = append(backup.Progress, p)
	}
	return rows.Err()
}

func (s *BackupService) importPlayers(tx *database.Tx, players []PlayerBackup) error {
	log.Printf("Importing %d players...", len(players))
	for _, p := range players {
		query := "INSERT INTO players (id, created_at, last_seen_at) VALUES (?, ?, ?)"
		_, err := tx.Exec(query, p.ID, p.CreatedAt, p.LastSeenAt)
		if err != nil {
			return fmt.Errorf("failed to import player %s: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importProgress(tx *database.Tx, records []ProgressBackup) error {
	log.Printf("Importing %d progress records...", len(records))
	for _, p := range records {
		query := "INSERT INTO progress_records (player_id, data, updated_at) VALUES (?, ?, ?)"
		_, err := tx.Exec(query, p.PlayerID, string(p.Data), p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import progress for player %s: %w", p.PlayerID, err)
		}
	}
	return nil
}
