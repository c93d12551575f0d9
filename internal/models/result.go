package models

// QuizResult is the outcome of a completed single-player quiz
type QuizResult struct {
	Score        int        `json:"score"`
	Total        int        `json:"total"`
	WrongAnswers []Question `json:"wrongAnswers"`
}

// Perfect reports whether every question was answered correctly
func (r QuizResult) Perfect() bool {
	return r.Total > 0 && r.Score == r.Total
}

// VersusResult is the outcome of a completed two-player quiz
type VersusResult struct {
	P1Score int `json:"p1Score"`
	P2Score int `json:"p2Score"`
	Total   int `json:"total"`
}

// Winner returns 1 or 2 for the leading player, or 0 on a draw
func (r VersusResult) Winner() int {
	switch {
	case r.P1Score > r.P2Score:
		return 1
	case r.P2Score > r.P1Score:
		return 2
	default:
		return 0
	}
}
