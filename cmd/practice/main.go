package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mathadventure/internal/database"
	"mathadventure/internal/repository"
	"mathadventure/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice multiplication and division tables in the terminal",
	Long: `Practice runs times-table quizzes in the terminal and keeps the
same progress records as the web app, stored in a local database.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// env bundles everything a subcommand needs against the local database
type env struct {
	db       *database.DB
	playerID string
	progress *service.ProgressService
	reports  *service.ReportService
}

func (e *env) Close() {
	e.db.Close()
}

// openEnv opens the local practice database under ~/.mathadventure,
// creating the schema and the device profile on first run
func openEnv() (*env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	dir := filepath.Join(home, ".mathadventure")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory: %w", err)
	}

	db, err := database.InitializeSQLite(filepath.Join(dir, "practice.db"))
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			last_seen_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS progress_records (
			player_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			FOREIGN KEY (player_id) REFERENCES players(id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("cannot create schema: %w", err)
		}
	}

	playerID, err := localPlayerID(dir)
	if err != nil {
		db.Close()
		return nil, err
	}

	players := repository.NewPlayerRepository(db)
	if err := players.Ensure(playerID); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create player profile: %w", err)
	}

	progress := service.NewProgressService(repository.NewProgressRepository(db))
	return &env{
		db:       db,
		playerID: playerID,
		progress: progress,
		reports:  service.NewReportService(progress),
	}, nil
}

// localPlayerID reads the device profile ID, minting one on first run
func localPlayerID(dir string) (string, error) {
	path := filepath.Join(dir, "player_id")

	data, err := os.ReadFile(path)
	if err == nil {
		if id, parseErr := uuid.Parse(string(data)); parseErr == nil {
			return id.String(), nil
		}
	}

	id := uuid.New().String()
	if err := os.WriteFile(path, []byte(id), 0o644); err != nil {
		return "", fmt.Errorf("cannot save player profile: %w", err)
	}
	return id, nil
}
