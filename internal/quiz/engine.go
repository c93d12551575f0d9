package quiz

import (
	"sync"
	"time"

	"mathadventure/internal/models"
)

// State identifies where a single-player quiz is in its lifecycle
type State string

const (
	StateAwaitingAnswer State = "AWAITING_ANSWER"
	StateFeedback       State = "FEEDBACK"
	StateFinished       State = "FINISHED"
	StateAbandoned      State = "ABANDONED"
)

// Timing holds the feedback and flinch delays used by both engines.
// The defaults mirror the pacing of the client: a short pause after a
// correct answer, a longer one after a wrong answer so the learner can
// study the correct option before the quiz moves on.
type Timing struct {
	CorrectDelay time.Duration
	WrongDelay   time.Duration
	FlinchDelay  time.Duration
	TimeoutDelay time.Duration
}

// DefaultTiming returns the production delays
func DefaultTiming() Timing {
	return Timing{
		CorrectDelay: 1000 * time.Millisecond,
		WrongDelay:   1500 * time.Millisecond,
		FlinchDelay:  800 * time.Millisecond,
		TimeoutDelay: 1500 * time.Millisecond,
	}
}

// Engine runs a single-player quiz over a fixed question set.
// It advances through AwaitingAnswer -> Feedback -> next question (or
// Finished) with a feedback timer between questions. All transitions are
// guarded by the engine mutex so a submission arriving during feedback is
// a no-op rather than a double answer.
type Engine struct {
	mu        sync.Mutex
	questions []models.Question
	timing    Timing
	onFinish  func(models.QuizResult)

	state       State
	idx         int
	score       int
	wrong       []models.Question
	selected    int
	lastCorrect bool
	timer       *time.Timer
	result      *models.QuizResult
}

// EngineSnapshot is a consistent view of the engine for rendering
type EngineSnapshot struct {
	State       State
	Index       int
	Total       int
	Question    models.Question
	Score       int
	Selected    int
	LastCorrect bool
	Result      *models.QuizResult
}

// NewEngine creates an engine over the question set. onFinish is invoked
// exactly once, after feedback for the final question has been shown.
func NewEngine(questions []models.Question, timing Timing, onFinish func(models.QuizResult)) *Engine {
	return &Engine{
		questions: questions,
		timing:    timing,
		onFinish:  onFinish,
		state:     StateAwaitingAnswer,
		wrong:     []models.Question{},
	}
}

// SubmitAnswer scores the selected option against the current question.
// Ignored unless the engine is awaiting an answer, which guards against
// double submissions while feedback is displayed. A selection that is not
// one of the question's options counts as incorrect, not as an error.
func (e *Engine) SubmitAnswer(selected int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingAnswer {
		return
	}

	question := e.questions[e.idx]
	correct := selected == question.Answer

	e.selected = selected
	e.lastCorrect = correct
	e.state = StateFeedback

	delay := e.timing.WrongDelay
	if correct {
		e.score++
		delay = e.timing.CorrectDelay
	} else {
		e.wrong = append(e.wrong, question)
	}

	e.timer = time.AfterFunc(delay, e.advance)
}

// advance moves past the feedback window to the next question, or
// finalizes the quiz after the last one
func (e *Engine) advance() {
	e.mu.Lock()

	if e.state != StateFeedback {
		e.mu.Unlock()
		return
	}

	if e.idx < len(e.questions)-1 {
		e.idx++
		e.state = StateAwaitingAnswer
		e.mu.Unlock()
		return
	}

	result := models.QuizResult{
		Score:        e.score,
		Total:        len(e.questions),
		WrongAnswers: append([]models.Question{}, e.wrong...),
	}
	e.result = &result
	e.state = StateFinished
	onFinish := e.onFinish
	e.mu.Unlock()

	if onFinish != nil {
		onFinish(result)
	}
}

// Quit abandons the quiz. Any pending feedback timer is cancelled and no
// result is emitted.
func (e *Engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateFinished || e.state == StateAbandoned {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.state = StateAbandoned
}

// Snapshot returns a consistent view of the engine state
func (e *Engine) Snapshot() EngineSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return EngineSnapshot{
		State:       e.state,
		Index:       e.idx,
		Total:       len(e.questions),
		Question:    e.questions[e.idx],
		Score:       e.score,
		Selected:    e.selected,
		LastCorrect: e.lastCorrect,
		Result:      e.result,
	}
}
