package service

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"mathadventure/internal/models"
)

// RecordStore is the persistence surface the progress service needs.
// The repository layer satisfies it; tests substitute an in-memory store.
type RecordStore interface {
	Get(playerID string) ([]byte, bool, error)
	Save(playerID string, data []byte) error
	Delete(playerID string) error
}

// ProgressService owns every read and write of a player's progress
// record. All mutations load the whole record, change it, and write it
// back under one lock, so concurrent requests for the same player cannot
// interleave partial updates.
type ProgressService struct {
	store RecordStore
	mu    sync.Mutex
	now   func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(store RecordStore) *ProgressService {
	return &ProgressService{
		store: store,
		now:   time.Now,
	}
}

// Load returns the player's progress record. A missing record yields the
// empty default; a corrupt payload is logged and also yields the default
// rather than locking the player out of the app.
func (s *ProgressService) Load(playerID string) (*models.ProgressData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(playerID)
}

func (s *ProgressService) loadLocked(playerID string) (*models.ProgressData, error) {
	raw, found, err := s.store.Get(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if !found {
		return models.NewProgressData(), nil
	}

	var progress models.ProgressData
	if err := json.Unmarshal(raw, &progress); err != nil {
		log.Printf("Corrupt progress record for player %s, resetting: %v", playerID, err)
		return models.NewProgressData(), nil
	}
	progress.Normalize()
	return &progress, nil
}

func (s *ProgressService) saveLocked(playerID string, progress *models.ProgressData) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	if err := s.store.Save(playerID, raw); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// MarkTableLearned adds the table to the player's learned set for the
// mode. Returns false when the table was already learned; the record is
// only written when something changed.
func (s *ProgressService) MarkTableLearned(playerID string, table int, mode models.Mode) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := s.loadLocked(playerID)
	if err != nil {
		return false, err
	}
	if !progress.MarkLearned(table, mode) {
		return false, nil
	}
	if err := s.saveLocked(playerID, progress); err != nil {
		return false, err
	}
	return true, nil
}

// RecordQuizAttempt folds a finished quiz into the stats entry for
// (table, mode), creating the entry on first attempt
func (s *ProgressService) RecordQuizAttempt(playerID string, table int, mode models.Mode, score, total int) (*models.TableStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := s.loadLocked(playerID)
	if err != nil {
		return nil, err
	}

	stats := progress.StatsFor(table, mode)
	if stats == nil {
		progress.QuizHistory = append(progress.QuizHistory, models.TableStats{
			Table: table,
			Mode:  mode,
		})
		stats = &progress.QuizHistory[len(progress.QuizHistory)-1]
	}

	stats.Attempts++
	stats.TotalScore += score
	if score > stats.BestScore {
		stats.BestScore = score
	}
	stats.LastAttempt = s.now()

	if err := s.saveLocked(playerID, progress); err != nil {
		return nil, err
	}

	updated := *stats
	return &updated, nil
}

// CollectSticker adds the sticker to the player's collection.
// Returns false when the sticker was already collected.
func (s *ProgressService) CollectSticker(playerID, stickerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := s.loadLocked(playerID)
	if err != nil {
		return false, err
	}
	if !progress.AddSticker(stickerID) {
		return false, nil
	}
	if err := s.saveLocked(playerID, progress); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the player's record entirely, returning them to the
// empty default on the next load
func (s *ProgressService) Clear(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(playerID); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	return nil
}
