package quiz

import (
	"testing"
	"time"

	"mathadventure/internal/models"
)

// waitForRound polls until the match has an open round at the given
// question index or has finished
func waitForRound(t *testing.T, v *Versus, idx int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := v.Snapshot()
		if snap.Finished {
			return
		}
		if snap.Round == RoundOpen && snap.Index == idx {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("match never reached round %d", idx)
}

func TestVersusPlayerOneSweeps(t *testing.T) {
	done := make(chan models.VersusResult, 1)
	v := NewVersus(testQuestions(t, 8, models.ModeMultiplication), 0, testTiming(), func(r models.VersusResult) {
		done <- r
	})

	for i := 0; i < QuestionsPerQuiz; i++ {
		waitForRound(t, v, i)
		v.SubmitAnswer(v.Snapshot().Question.Answer, 1)
	}

	select {
	case result := <-done:
		if result.P1Score != 10 || result.P2Score != 0 || result.Total != 10 {
			t.Errorf("result = %+v, want p1=10 p2=0 total=10", result)
		}
		if result.Winner() != 1 {
			t.Errorf("winner = %d, want 1", result.Winner())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("match never finished")
	}
}

func TestVersusOnlyOneWinnerPerRound(t *testing.T) {
	v := NewVersus(testQuestions(t, 6, models.ModeDivision), 0, testTiming(), nil)

	answer := v.Snapshot().Question.Answer
	v.SubmitAnswer(answer, 1)
	// Round already resolved for player 1; a correct answer from player 2
	// in the same round must be ignored
	v.SubmitAnswer(answer, 2)

	snap := v.Snapshot()
	if snap.P1Score != 1 || snap.P2Score != 0 {
		t.Errorf("scores = %d/%d, want 1/0", snap.P1Score, snap.P2Score)
	}
	if snap.Winner != 1 {
		t.Errorf("winner = %d, want 1", snap.Winner)
	}
}

func TestVersusFlinchDisablesOnlyThatChannel(t *testing.T) {
	timing := testTiming()
	timing.FlinchDelay = 200 * time.Millisecond
	v := NewVersus(testQuestions(t, 9, models.ModeMultiplication), 0, timing, nil)

	snap := v.Snapshot()
	v.SubmitAnswer(wrongOption(t, snap.Question), 1)

	snap = v.Snapshot()
	if !snap.P1Flinch {
		t.Fatal("player 1 should be flinching after a wrong answer")
	}
	if snap.Round != RoundOpen {
		t.Fatalf("round = %s, want still %s", snap.Round, RoundOpen)
	}
	if snap.P1Score != 0 {
		t.Errorf("wrong answer changed player 1 score to %d", snap.P1Score)
	}

	// Player 1 is locked out for the flinch window
	v.SubmitAnswer(snap.Question.Answer, 1)
	if got := v.Snapshot(); got.P1Score != 0 {
		t.Errorf("flinching player scored: %d", got.P1Score)
	}

	// Player 2 is unaffected and can still win the round
	v.SubmitAnswer(snap.Question.Answer, 2)
	snap = v.Snapshot()
	if snap.P2Score != 1 || snap.Winner != 2 {
		t.Errorf("player 2 should have won the round, got scores %d/%d winner %d", snap.P1Score, snap.P2Score, snap.Winner)
	}
}

func TestVersusFlinchDoesNotLeakIntoNextRound(t *testing.T) {
	// Flinch window far longer than the advance delay: the next round
	// must open with player 1 re-enabled, and the stale flinch timer from
	// the previous round must not touch it
	timing := testTiming()
	timing.FlinchDelay = 500 * time.Millisecond
	v := NewVersus(testQuestions(t, 5, models.ModeMultiplication), 0, timing, nil)

	snap := v.Snapshot()
	v.SubmitAnswer(wrongOption(t, snap.Question), 1)
	v.SubmitAnswer(snap.Question.Answer, 2)

	waitForRound(t, v, 1)

	snap = v.Snapshot()
	if snap.P1Flinch {
		t.Fatal("flinch state leaked into the next round")
	}

	v.SubmitAnswer(snap.Question.Answer, 1)
	snap = v.Snapshot()
	if snap.P1Score != 1 {
		t.Errorf("player 1 score = %d in new round, want 1", snap.P1Score)
	}
}

func TestVersusTimeoutAwardsNoScore(t *testing.T) {
	done := make(chan models.VersusResult, 1)
	v := NewVersus(testQuestions(t, 3, models.ModeMultiplication), 20*time.Millisecond, testTiming(), func(r models.VersusResult) {
		done <- r
	})

	// Nobody answers; every round should time out and advance
	select {
	case result := <-done:
		if result.P1Score != 0 || result.P2Score != 0 {
			t.Errorf("result = %+v, want 0/0 after full timeout", result)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("match never finished via timeouts")
	}

	v.Quit()
}

func TestVersusCorrectAnswerCancelsCountdown(t *testing.T) {
	v := NewVersus(testQuestions(t, 4, models.ModeDivision), 50*time.Millisecond, testTiming(), nil)

	v.SubmitAnswer(v.Snapshot().Question.Answer, 2)

	waitForRound(t, v, 1)

	// The countdown from question 0 is cancelled on resolution; the score
	// from the correct answer must stand once round 1 opens
	snap := v.Snapshot()
	if snap.P2Score != 1 {
		t.Errorf("player 2 score = %d, want 1", snap.P2Score)
	}
	if snap.Index != 1 {
		t.Errorf("index = %d, want 1", snap.Index)
	}

	v.Quit()
}

func TestVersusQuitEmitsNoResult(t *testing.T) {
	done := make(chan models.VersusResult, 1)
	v := NewVersus(testQuestions(t, 2, models.ModeMultiplication), 20*time.Millisecond, testTiming(), func(r models.VersusResult) {
		done <- r
	})

	v.SubmitAnswer(v.Snapshot().Question.Answer, 1)
	v.Quit()

	select {
	case <-done:
		t.Fatal("quit match should not emit a result")
	case <-time.After(100 * time.Millisecond):
	}

	if snap := v.Snapshot(); !snap.Abandoned {
		t.Error("match should be marked abandoned")
	}
}

func TestVersusRejectsUnknownPlayer(t *testing.T) {
	v := NewVersus(testQuestions(t, 2, models.ModeMultiplication), 0, testTiming(), nil)

	v.SubmitAnswer(v.Snapshot().Question.Answer, 3)

	snap := v.Snapshot()
	if snap.P1Score != 0 || snap.P2Score != 0 || snap.Round != RoundOpen {
		t.Errorf("unknown player changed state: %+v", snap)
	}

	v.Quit()
}
