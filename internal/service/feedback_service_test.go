package service

import (
	"context"
	"strings"
	"testing"

	"mathadventure/internal/models"
)

func TestDefaultFeedbackTiers(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		total    int
		expected string
	}{
		{name: "perfect score", score: 10, total: 10, expected: fallbackPerfect},
		{name: "eight of ten", score: 8, total: 10, expected: fallbackGood},
		{name: "nine of ten", score: 9, total: 10, expected: fallbackGood},
		{name: "seven of ten", score: 7, total: 10, expected: fallbackTryHard},
		{name: "zero", score: 0, total: 10, expected: fallbackTryHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := defaultFeedback(tt.score, tt.total)
			if result != tt.expected {
				t.Errorf("defaultFeedback(%d, %d) = %q, want %q", tt.score, tt.total, result, tt.expected)
			}
		})
	}
}

func TestStripFormatting(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "clean text unchanged", input: "Giỏi quá em ơi! 🎉", expected: "Giỏi quá em ơi! 🎉"},
		{name: "markdown removed", input: "*Giỏi* quá #em_ơi~", expected: "Giỏi quá emơi"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripFormatting(tt.input)
			if result != tt.expected {
				t.Errorf("stripFormatting(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetFeedbackWithoutAPIKey(t *testing.T) {
	svc := NewFeedbackService("", "gemini-3-flash-preview")

	result := svc.GetFeedback(context.Background(), 10, 10, 5, models.ModeMultiplication)
	if result != fallbackPerfect {
		t.Errorf("GetFeedback() without key = %q, want perfect fallback", result)
	}

	result = svc.GetFeedback(context.Background(), 3, 10, 5, models.ModeDivision)
	if result != fallbackTryHard {
		t.Errorf("GetFeedback() without key = %q, want low-score fallback", result)
	}
}

func TestGetSuggestionsWithoutHistory(t *testing.T) {
	svc := NewFeedbackService("some-key", "gemini-3-flash-preview")

	result := svc.GetSuggestions(context.Background(), models.NewProgressData())
	if result != fallbackSuggestions {
		t.Errorf("GetSuggestions() with empty history = %q, want fallback", result)
	}
	if !strings.Contains(result, "luyện tập") {
		t.Errorf("fallback suggestion text changed unexpectedly: %q", result)
	}
}
