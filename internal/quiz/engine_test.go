package quiz

import (
	"math/rand"
	"testing"
	"time"

	"mathadventure/internal/models"
)

func testTiming() Timing {
	return Timing{
		CorrectDelay: 2 * time.Millisecond,
		WrongDelay:   2 * time.Millisecond,
		FlinchDelay:  20 * time.Millisecond,
		TimeoutDelay: 2 * time.Millisecond,
	}
}

func testQuestions(t *testing.T, table int, mode models.Mode) []models.Question {
	t.Helper()
	questions, err := NewGenerator(rand.NewSource(99)).Generate(table, mode)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return questions
}

// wrongOption returns an option that is not the answer
func wrongOption(t *testing.T, q models.Question) int {
	t.Helper()
	for _, opt := range q.Options {
		if opt != q.Answer {
			return opt
		}
	}
	t.Fatal("question has no incorrect option")
	return 0
}

// waitForQuestion polls until the engine is awaiting the given question
// index or has finished
func waitForQuestion(t *testing.T, e *Engine, idx int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := e.Snapshot()
		if snap.State == StateFinished {
			return
		}
		if snap.State == StateAwaitingAnswer && snap.Index == idx {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("engine never reached question %d", idx)
}

func TestEngineAllCorrect(t *testing.T) {
	done := make(chan models.QuizResult, 1)
	e := NewEngine(testQuestions(t, 4, models.ModeMultiplication), testTiming(), func(r models.QuizResult) {
		done <- r
	})

	for i := 0; i < QuestionsPerQuiz; i++ {
		waitForQuestion(t, e, i)
		e.SubmitAnswer(e.Snapshot().Question.Answer)
	}

	select {
	case result := <-done:
		if result.Score != 10 || result.Total != 10 {
			t.Errorf("result = %d/%d, want 10/10", result.Score, result.Total)
		}
		if len(result.WrongAnswers) != 0 {
			t.Errorf("wrongAnswers = %v, want empty", result.WrongAnswers)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine never finished")
	}
}

func TestEngineOneWrongAnswer(t *testing.T) {
	done := make(chan models.QuizResult, 1)
	e := NewEngine(testQuestions(t, 7, models.ModeDivision), testTiming(), func(r models.QuizResult) {
		done <- r
	})

	var missed models.Question
	for i := 0; i < QuestionsPerQuiz; i++ {
		waitForQuestion(t, e, i)
		snap := e.Snapshot()
		if i == 3 {
			missed = snap.Question
			e.SubmitAnswer(wrongOption(t, snap.Question))
		} else {
			e.SubmitAnswer(snap.Question.Answer)
		}
	}

	select {
	case result := <-done:
		if result.Score != 9 {
			t.Errorf("score = %d, want 9", result.Score)
		}
		if len(result.WrongAnswers) != 1 {
			t.Fatalf("wrongAnswers = %v, want exactly one", result.WrongAnswers)
		}
		if result.WrongAnswers[0].ID != missed.ID {
			t.Errorf("wrongAnswers[0] = question %d, want question %d", result.WrongAnswers[0].ID, missed.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine never finished")
	}
}

func TestEngineIgnoresSubmitDuringFeedback(t *testing.T) {
	// Long feedback delay keeps the engine in the feedback window while we
	// hammer it with extra submissions
	timing := testTiming()
	timing.CorrectDelay = 100 * time.Millisecond

	e := NewEngine(testQuestions(t, 3, models.ModeMultiplication), timing, nil)

	answer := e.Snapshot().Question.Answer
	e.SubmitAnswer(answer)
	e.SubmitAnswer(answer)
	e.SubmitAnswer(answer)

	snap := e.Snapshot()
	if snap.State != StateFeedback {
		t.Fatalf("state = %s, want %s", snap.State, StateFeedback)
	}
	if snap.Score != 1 {
		t.Errorf("score = %d after repeated submits, want 1", snap.Score)
	}
}

func TestEngineUnknownOptionCountsAsIncorrect(t *testing.T) {
	e := NewEngine(testQuestions(t, 5, models.ModeMultiplication), testTiming(), nil)

	// -1 is never among the generated options
	e.SubmitAnswer(-1)

	snap := e.Snapshot()
	if snap.LastCorrect {
		t.Error("submission outside the options should score as incorrect")
	}
	if snap.Score != 0 {
		t.Errorf("score = %d, want 0", snap.Score)
	}
}

func TestEngineQuitEmitsNoResult(t *testing.T) {
	done := make(chan models.QuizResult, 1)
	e := NewEngine(testQuestions(t, 2, models.ModeMultiplication), testTiming(), func(r models.QuizResult) {
		done <- r
	})

	e.SubmitAnswer(e.Snapshot().Question.Answer)
	e.Quit()

	select {
	case <-done:
		t.Fatal("quit quiz should not emit a result")
	case <-time.After(50 * time.Millisecond):
	}

	if state := e.Snapshot().State; state != StateAbandoned {
		t.Errorf("state = %s, want %s", state, StateAbandoned)
	}
}
