package models

import "time"

// TableStats aggregates quiz history for one (table, mode) pair
type TableStats struct {
	Table       int       `json:"table"`
	Mode        Mode      `json:"mode"`
	Attempts    int       `json:"attempts"`
	BestScore   int       `json:"bestScore"`
	TotalScore  int       `json:"totalScore"`
	LastAttempt time.Time `json:"lastAttempt"`
}

// AverageScore returns the mean score across all recorded attempts
func (s TableStats) AverageScore() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Attempts)
}

// ProgressData is the whole persisted record for one player.
// The JSON field names match the original client's storage layout so an
// exported record can be inspected alongside old client-side data.
type ProgressData struct {
	Multiplication []int        `json:"multiplication"`
	Division       []int        `json:"division"`
	QuizHistory    []TableStats `json:"quizHistory"`
	Stickers       []string     `json:"stickers"`
}

// NewProgressData returns the well-formed empty record
func NewProgressData() *ProgressData {
	return &ProgressData{
		Multiplication: []int{},
		Division:       []int{},
		QuizHistory:    []TableStats{},
		Stickers:       []string{},
	}
}

// Normalize replaces nil fields left by decoding older records with empty
// values, so a record lacking e.g. "stickers" loads instead of failing
func (p *ProgressData) Normalize() {
	if p.Multiplication == nil {
		p.Multiplication = []int{}
	}
	if p.Division == nil {
		p.Division = []int{}
	}
	if p.QuizHistory == nil {
		p.QuizHistory = []TableStats{}
	}
	if p.Stickers == nil {
		p.Stickers = []string{}
	}
}

// LearnedTables returns the learned set for the given mode
func (p *ProgressData) LearnedTables(mode Mode) []int {
	if mode == ModeDivision {
		return p.Division
	}
	return p.Multiplication
}

// HasLearned reports whether the table is in the learned set for the mode
func (p *ProgressData) HasLearned(table int, mode Mode) bool {
	for _, t := range p.LearnedTables(mode) {
		if t == table {
			return true
		}
	}
	return false
}

// MarkLearned adds the table to the learned set for the mode.
// Returns false if it was already present.
func (p *ProgressData) MarkLearned(table int, mode Mode) bool {
	if p.HasLearned(table, mode) {
		return false
	}
	if mode == ModeDivision {
		p.Division = append(p.Division, table)
	} else {
		p.Multiplication = append(p.Multiplication, table)
	}
	return true
}

// StatsFor returns the stats entry for (table, mode), or nil if none exists
func (p *ProgressData) StatsFor(table int, mode Mode) *TableStats {
	for i := range p.QuizHistory {
		if p.QuizHistory[i].Table == table && p.QuizHistory[i].Mode == mode {
			return &p.QuizHistory[i]
		}
	}
	return nil
}

// HasSticker reports whether the sticker is already in the collected set
func (p *ProgressData) HasSticker(id string) bool {
	for _, s := range p.Stickers {
		if s == id {
			return true
		}
	}
	return false
}

// AddSticker adds the sticker to the collected set.
// Returns false if it was already present.
func (p *ProgressData) AddSticker(id string) bool {
	if p.HasSticker(id) {
		return false
	}
	p.Stickers = append(p.Stickers, id)
	return true
}
