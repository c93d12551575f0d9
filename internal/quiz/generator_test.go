package quiz

import (
	"errors"
	"math/rand"
	"testing"

	"mathadventure/internal/models"
)

func TestGenerateCoversAllFactors(t *testing.T) {
	gen := NewGenerator(rand.NewSource(1))

	for _, mode := range []models.Mode{models.ModeMultiplication, models.ModeDivision} {
		for table := 1; table <= 12; table++ {
			questions, err := gen.Generate(table, mode)
			if err != nil {
				t.Fatalf("Generate(%d, %s): %v", table, mode, err)
			}
			if len(questions) != QuestionsPerQuiz {
				t.Fatalf("Generate(%d, %s) returned %d questions, want %d", table, mode, len(questions), QuestionsPerQuiz)
			}

			seen := make(map[int]bool)
			for _, q := range questions {
				if q.Factor < 1 || q.Factor > 10 {
					t.Errorf("table %d: factor %d out of range", table, q.Factor)
				}
				if seen[q.Factor] {
					t.Errorf("table %d: factor %d repeated", table, q.Factor)
				}
				seen[q.Factor] = true
			}
			if len(seen) != 10 {
				t.Errorf("table %d %s: factors %v do not cover 1..10", table, mode, seen)
			}
		}
	}
}

func TestGenerateAnswerDerivation(t *testing.T) {
	gen := NewGenerator(rand.NewSource(7))

	questions, err := gen.Generate(6, models.ModeMultiplication)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, q := range questions {
		if q.Answer != q.Table*q.Factor {
			t.Errorf("multiplication answer = %d, want %d", q.Answer, q.Table*q.Factor)
		}
	}

	questions, err = gen.Generate(6, models.ModeDivision)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, q := range questions {
		if q.Answer != q.Factor {
			t.Errorf("division answer = %d, want quotient %d", q.Answer, q.Factor)
		}
		if q.Dividend() != q.Table*q.Factor {
			t.Errorf("dividend = %d, want %d", q.Dividend(), q.Table*q.Factor)
		}
	}
}

func TestGenerateOptionInvariants(t *testing.T) {
	gen := NewGenerator(rand.NewSource(42))

	for _, mode := range []models.Mode{models.ModeMultiplication, models.ModeDivision} {
		questions, err := gen.Generate(7, mode)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		for _, q := range questions {
			if len(q.Options) != OptionsPerQuestion {
				t.Fatalf("question %d: %d options, want %d", q.ID, len(q.Options), OptionsPerQuestion)
			}

			seen := make(map[int]bool)
			hasAnswer := false
			for _, opt := range q.Options {
				if opt <= 0 {
					t.Errorf("question %d: non-positive option %d", q.ID, opt)
				}
				if seen[opt] {
					t.Errorf("question %d: duplicate option %d", q.ID, opt)
				}
				seen[opt] = true
				if opt == q.Answer {
					hasAnswer = true
				}
			}
			if !hasAnswer {
				t.Errorf("question %d: answer %d missing from options %v", q.ID, q.Answer, q.Options)
			}
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	gen := NewGenerator(rand.NewSource(1))

	tests := []struct {
		name    string
		table   int
		mode    models.Mode
		wantErr error
	}{
		{name: "zero table", table: 0, mode: models.ModeMultiplication, wantErr: ErrInvalidTable},
		{name: "negative table", table: -3, mode: models.ModeDivision, wantErr: ErrInvalidTable},
		{name: "unknown mode", table: 5, mode: models.Mode("EXPONENT"), wantErr: ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Generate(tt.table, tt.mode)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate(%d, %s) error = %v, want %v", tt.table, tt.mode, err, tt.wantErr)
			}
		})
	}
}
