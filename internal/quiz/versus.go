package quiz

import (
	"sync"
	"time"

	"mathadventure/internal/models"
)

// RoundState identifies where the current two-player round is
type RoundState string

const (
	// RoundOpen means both answer channels accept input
	RoundOpen RoundState = "OPEN"
	// RoundResolved means one player answered correctly and won the round
	RoundResolved RoundState = "RESOLVED"
	// RoundTimedOut means the countdown expired with no correct answer
	RoundTimedOut RoundState = "TIMED_OUT"
)

// Versus runs a two-player quiz over a shared question set. Both players
// see the same question; the first correct submission wins the round and
// no tie is possible because correctness is checked under the engine
// mutex before any state changes. A wrong answer puts only that player's
// channel into a brief flinch window, leaving the other free to answer.
//
// Every round owns at most one countdown and one advance timer. Timer
// callbacks carry the round generation they were armed for and bail out
// if the engine has moved on, so a stale timer from question N can never
// fire into question N+1.
type Versus struct {
	mu        sync.Mutex
	questions []models.Question
	timing    Timing
	timeLimit time.Duration
	onFinish  func(models.VersusResult)

	idx          int
	gen          int
	round        RoundState
	winner       int
	p1Score      int
	p2Score      int
	flinch       [2]bool
	flinchTimers [2]*time.Timer
	advanceTimer *time.Timer
	countdown    *time.Timer
	deadline     time.Time
	finished     bool
	abandoned    bool
	result       *models.VersusResult
}

// VersusSnapshot is a consistent view of the match for rendering
type VersusSnapshot struct {
	Index         int
	Total         int
	Question      models.Question
	Round         RoundState
	Winner        int
	P1Score       int
	P2Score       int
	P1Flinch      bool
	P2Flinch      bool
	TimeRemaining time.Duration
	Finished      bool
	Abandoned     bool
	Result        *models.VersusResult
}

// NewVersus creates a two-player engine. timeLimit is the per-question
// countdown; zero means no timer runs. onFinish is invoked exactly once,
// after the final round's feedback delay.
func NewVersus(questions []models.Question, timeLimit time.Duration, timing Timing, onFinish func(models.VersusResult)) *Versus {
	v := &Versus{
		questions: questions,
		timing:    timing,
		timeLimit: timeLimit,
		onFinish:  onFinish,
	}
	v.mu.Lock()
	v.startRoundLocked()
	v.mu.Unlock()
	return v
}

// startRoundLocked opens a fresh round for the current question: clears
// flinch state, bumps the generation to invalidate leftover timers, and
// restarts the countdown if one is configured
func (v *Versus) startRoundLocked() {
	v.gen++
	v.round = RoundOpen
	v.winner = 0
	v.flinch = [2]bool{}
	for i, t := range v.flinchTimers {
		if t != nil {
			t.Stop()
			v.flinchTimers[i] = nil
		}
	}

	if v.timeLimit > 0 {
		gen := v.gen
		v.deadline = time.Now().Add(v.timeLimit)
		v.countdown = time.AfterFunc(v.timeLimit, func() { v.timeOut(gen) })
	}
}

// SubmitAnswer processes one player's answer for the current round.
// No-op unless the round is open and the player is not flinching. A
// correct answer resolves the round in that player's favor immediately;
// a wrong one disables only that player's channel for the flinch window.
func (v *Versus) SubmitAnswer(selected, player int) {
	if player != 1 && player != 2 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.finished || v.abandoned || v.round != RoundOpen {
		return
	}
	if v.flinch[player-1] {
		return
	}

	question := v.questions[v.idx]
	if selected != question.Answer {
		v.flinch[player-1] = true
		gen := v.gen
		v.flinchTimers[player-1] = time.AfterFunc(v.timing.FlinchDelay, func() {
			v.clearFlinch(gen, player)
		})
		return
	}

	if player == 1 {
		v.p1Score++
	} else {
		v.p2Score++
	}
	v.winner = player
	v.round = RoundResolved
	if v.countdown != nil {
		v.countdown.Stop()
	}

	gen := v.gen
	v.advanceTimer = time.AfterFunc(v.timing.CorrectDelay, func() { v.advance(gen) })
}

// clearFlinch re-enables a player's channel after the flinch window,
// unless the match has already moved to another round
func (v *Versus) clearFlinch(gen, player int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.gen != gen {
		return
	}
	v.flinch[player-1] = false
}

// timeOut resolves a round in which nobody answered correctly before the
// countdown expired. Neither player scores.
func (v *Versus) timeOut(gen int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.gen != gen || v.finished || v.abandoned || v.round != RoundOpen {
		return
	}

	v.round = RoundTimedOut
	v.advanceTimer = time.AfterFunc(v.timing.TimeoutDelay, func() { v.advance(gen) })
}

// advance moves to the next question or finalizes the match
func (v *Versus) advance(gen int) {
	v.mu.Lock()

	if v.gen != gen || v.finished || v.abandoned {
		v.mu.Unlock()
		return
	}

	if v.idx < len(v.questions)-1 {
		v.idx++
		v.startRoundLocked()
		v.mu.Unlock()
		return
	}

	result := models.VersusResult{
		P1Score: v.p1Score,
		P2Score: v.p2Score,
		Total:   len(v.questions),
	}
	v.result = &result
	v.finished = true
	onFinish := v.onFinish
	v.mu.Unlock()

	if onFinish != nil {
		onFinish(result)
	}
}

// Quit abandons the match, cancelling every pending timer. No result is
// emitted.
func (v *Versus) Quit() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.finished || v.abandoned {
		return
	}
	if v.countdown != nil {
		v.countdown.Stop()
	}
	if v.advanceTimer != nil {
		v.advanceTimer.Stop()
	}
	for _, t := range v.flinchTimers {
		if t != nil {
			t.Stop()
		}
	}
	v.abandoned = true
}

// Snapshot returns a consistent view of the match state
func (v *Versus) Snapshot() VersusSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	var remaining time.Duration
	if v.timeLimit > 0 && v.round == RoundOpen && !v.finished && !v.abandoned {
		remaining = time.Until(v.deadline)
		if remaining < 0 {
			remaining = 0
		}
	}

	return VersusSnapshot{
		Index:         v.idx,
		Total:         len(v.questions),
		Question:      v.questions[v.idx],
		Round:         v.round,
		Winner:        v.winner,
		P1Score:       v.p1Score,
		P2Score:       v.p2Score,
		P1Flinch:      v.flinch[0],
		P2Flinch:      v.flinch[1],
		TimeRemaining: remaining,
		Finished:      v.finished,
		Abandoned:     v.abandoned,
		Result:        v.result,
	}
}
