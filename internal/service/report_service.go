package service

import (
	"mathadventure/internal/models"
	"mathadventure/internal/quiz"
)

// ReportService applies finished quiz results to a player's progress and
// decides sticker rewards
type ReportService struct {
	progress *ProgressService
}

// NewReportService creates a new report service
func NewReportService(progress *ProgressService) *ReportService {
	return &ReportService{progress: progress}
}

// ReportResult records a finished single-player quiz. A perfect score
// marks the table learned and, when the matching sticker is still
// uncollected, offers it. The offer is repeated on every later perfect
// run until the player claims it, so dismissing the reward screen does
// not lose the sticker.
func (s *ReportService) ReportResult(playerID string, table int, mode models.Mode, result models.QuizResult) (*quiz.ReportOutcome, error) {
	if _, err := s.progress.RecordQuizAttempt(playerID, table, mode, result.Score, result.Total); err != nil {
		return nil, err
	}

	outcome := &quiz.ReportOutcome{}
	if !result.Perfect() {
		return outcome, nil
	}

	learned, err := s.progress.MarkTableLearned(playerID, table, mode)
	if err != nil {
		return nil, err
	}
	outcome.TableLearned = learned

	sticker := models.StickerForTable(table)
	progress, err := s.progress.Load(playerID)
	if err != nil {
		return nil, err
	}
	if !progress.HasSticker(sticker) {
		outcome.StickerOffer = sticker
	}
	return outcome, nil
}

// ClaimSticker collects the sticker for the table. Returns false when the
// player already owns it.
func (s *ReportService) ClaimSticker(playerID string, table int) (bool, error) {
	return s.progress.CollectSticker(playerID, models.StickerForTable(table))
}
