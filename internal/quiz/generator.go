package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"mathadventure/internal/models"
)

// QuestionsPerQuiz is the fixed length of a generated question set,
// one question per factor 1..10
const QuestionsPerQuiz = 10

// OptionsPerQuestion is the number of choices shown for each question
const OptionsPerQuestion = 4

var (
	// ErrInvalidTable is returned when the requested table is below 1
	ErrInvalidTable = errors.New("table must be at least 1")

	// ErrInvalidMode is returned for an unknown quiz mode
	ErrInvalidMode = errors.New("unknown quiz mode")
)

// Generator builds randomized question sets for a table and mode
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator from the given random source.
// A nil source falls back to a time-seeded one.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate produces a shuffled set of 10 questions covering every factor
// 1..10 exactly once. Each question carries 4 distinct positive options
// that include the correct answer.
func (g *Generator) Generate(table int, mode models.Mode) ([]models.Question, error) {
	if table < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTable, table)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	factors := make([]int, QuestionsPerQuiz)
	for i := range factors {
		factors[i] = i + 1
	}
	g.rng.Shuffle(len(factors), func(i, j int) {
		factors[i], factors[j] = factors[j], factors[i]
	})

	questions := make([]models.Question, 0, QuestionsPerQuiz)
	for idx, factor := range factors {
		answer := table * factor
		if mode == models.ModeDivision {
			answer = factor
		}

		questions = append(questions, models.Question{
			ID:      idx,
			Table:   table,
			Factor:  factor,
			Mode:    mode,
			Answer:  answer,
			Options: g.buildOptions(table, mode, answer),
		})
	}

	return questions, nil
}

// buildOptions returns the answer plus 3 distractors in shuffled order.
// Distractors are drawn from the same value domain as real answers so they
// look plausible: multiples of the table for multiplication, 1..10 for
// division. Duplicates and non-positive candidates are rejected.
func (g *Generator) buildOptions(table int, mode models.Mode, answer int) []int {
	seen := map[int]bool{answer: true}
	options := []int{answer}

	for len(options) < OptionsPerQuestion {
		candidate := g.rng.Intn(10) + 1
		if mode == models.ModeMultiplication {
			candidate = table * candidate
		}
		if candidate <= 0 || seen[candidate] {
			continue
		}
		seen[candidate] = true
		options = append(options, candidate)
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
