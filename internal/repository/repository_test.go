package repository

import (
	"testing"

	"mathadventure/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.InitializeSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE players (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			last_seen_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE progress_records (
			player_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			FOREIGN KEY (player_id) REFERENCES players(id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
	return db
}

func TestPlayerRepositoryEnsure(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db)

	if err := repo.Ensure("player-1"); err != nil {
		t.Fatalf("Ensure() first call failed: %v", err)
	}

	player, err := repo.Get("player-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if player == nil {
		t.Fatal("Get() returned nil for an ensured player")
	}
	firstSeen := player.LastSeenAt

	// Second Ensure must not create a duplicate row
	if err := repo.Ensure("player-1"); err != nil {
		t.Fatalf("Ensure() second call failed: %v", err)
	}

	players, err := repo.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(players) != 1 {
		t.Errorf("List() returned %d players, want 1", len(players))
	}

	player, err = repo.Get("player-1")
	if err != nil {
		t.Fatalf("Get() after second Ensure failed: %v", err)
	}
	if player.LastSeenAt.Before(firstSeen) {
		t.Error("Ensure() should not move last_seen_at backwards")
	}
}

func TestPlayerRepositoryGetUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db)

	player, err := repo.Get("nobody")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if player != nil {
		t.Errorf("Get() for unknown player = %+v, want nil", player)
	}
}

func TestProgressRepositorySaveAndGet(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerRepository(db)
	progress := NewProgressRepository(db)

	if err := players.Ensure("player-1"); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}

	// Missing record
	data, found, err := progress.Get("player-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if found {
		t.Error("Get() found a record before any Save()")
	}
	if data != nil {
		t.Errorf("Get() returned data %q for missing record", data)
	}

	// First save inserts
	if err := progress.Save("player-1", []byte(`{"multiplication":[2]}`)); err != nil {
		t.Fatalf("Save() insert failed: %v", err)
	}

	data, found, err = progress.Get("player-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !found {
		t.Fatal("Get() did not find the saved record")
	}
	if string(data) != `{"multiplication":[2]}` {
		t.Errorf("Get() = %q, want saved payload", data)
	}

	// Second save replaces the whole record
	if err := progress.Save("player-1", []byte(`{"multiplication":[2,3]}`)); err != nil {
		t.Fatalf("Save() update failed: %v", err)
	}

	data, _, err = progress.Get("player-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(data) != `{"multiplication":[2,3]}` {
		t.Errorf("Get() = %q, want updated payload", data)
	}
}

func TestProgressRepositoryDelete(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerRepository(db)
	progress := NewProgressRepository(db)

	if err := players.Ensure("player-1"); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	if err := progress.Save("player-1", []byte(`{}`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := progress.Delete("player-1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	_, found, err := progress.Get("player-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if found {
		t.Error("Get() found a record after Delete()")
	}

	// Deleting again is a no-op
	if err := progress.Delete("player-1"); err != nil {
		t.Errorf("Delete() of missing record failed: %v", err)
	}
}
