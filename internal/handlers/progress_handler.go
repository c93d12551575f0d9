package handlers

import (
	"net/http"
	"time"

	"mathadventure/internal/models"
	"mathadventure/internal/service"
)

// ProgressHandler serves the stats and sticker book API
type ProgressHandler struct {
	progress *service.ProgressService
	feedback *service.FeedbackService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress *service.ProgressService, feedback *service.FeedbackService) *ProgressHandler {
	return &ProgressHandler{
		progress: progress,
		feedback: feedback,
	}
}

type tableStatsView struct {
	Table        int     `json:"table"`
	Mode         models.Mode `json:"mode"`
	Attempts     int     `json:"attempts"`
	BestScore    int     `json:"bestScore"`
	AverageScore float64 `json:"averageScore"`
	LastAttempt  string  `json:"lastAttempt"`
}

type progressResponse struct {
	Multiplication []int            `json:"multiplication"`
	Division       []int            `json:"division"`
	QuizHistory    []tableStatsView `json:"quizHistory"`
	Stickers       []string         `json:"stickers"`
}

// Get returns the player's whole progress record
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	progress, err := h.progress.Load(playerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	history := make([]tableStatsView, 0, len(progress.QuizHistory))
	for _, stats := range progress.QuizHistory {
		history = append(history, tableStatsView{
			Table:        stats.Table,
			Mode:         stats.Mode,
			Attempts:     stats.Attempts,
			BestScore:    stats.BestScore,
			AverageScore: stats.AverageScore(),
			LastAttempt:  stats.LastAttempt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, progressResponse{
		Multiplication: progress.Multiplication,
		Division:       progress.Division,
		QuizHistory:    history,
		Stickers:       progress.Stickers,
	})
}

// Clear wipes the player's progress record
func (h *ProgressHandler) Clear(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	if err := h.progress.Clear(playerID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type suggestionsResponse struct {
	Suggestions string `json:"suggestions"`
}

// Suggestions returns study advice derived from the quiz history
func (h *ProgressHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	progress, err := h.progress.Load(playerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	text := h.feedback.GetSuggestions(r.Context(), progress)
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: text})
}

type stickerBookEntry struct {
	Sticker   string `json:"sticker"`
	Collected bool   `json:"collected"`
}

type stickerBookResponse struct {
	Stickers  []stickerBookEntry `json:"stickers"`
	Collected int                `json:"collected"`
	Total     int                `json:"total"`
}

// Stickers returns the full catalog with the player's collected set
// marked
func (h *ProgressHandler) Stickers(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	progress, err := h.progress.Load(playerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	entries := make([]stickerBookEntry, 0, len(models.StickerCatalog))
	collected := 0
	for _, sticker := range models.StickerCatalog {
		owned := progress.HasSticker(sticker)
		if owned {
			collected++
		}
		entries = append(entries, stickerBookEntry{Sticker: sticker, Collected: owned})
	}

	writeJSON(w, http.StatusOK, stickerBookResponse{
		Stickers:  entries,
		Collected: collected,
		Total:     len(models.StickerCatalog),
	})
}
