package models

import "fmt"

// Mode determines how a question's answer and displayed expression are derived
type Mode string

const (
	ModeMultiplication Mode = "MULTIPLICATION"
	ModeDivision       Mode = "DIVISION"
)

// Valid reports whether the mode is one of the two known modes
func (m Mode) Valid() bool {
	return m == ModeMultiplication || m == ModeDivision
}

// Question represents one arithmetic fact with its multiple-choice options
type Question struct {
	ID      int   `json:"id"`
	Table   int   `json:"table"`
	Factor  int   `json:"factor"`
	Mode    Mode  `json:"mode"`
	Answer  int   `json:"answer"`
	Options []int `json:"options"`
}

// Dividend returns the number shown on the left of a division question
func (q Question) Dividend() int {
	return q.Table * q.Factor
}

// Prompt returns the displayed expression, e.g. "5 x 3 = ?" or "15 : 5 = ?"
func (q Question) Prompt() string {
	if q.Mode == ModeDivision {
		return fmt.Sprintf("%d : %d = ?", q.Dividend(), q.Table)
	}
	return fmt.Sprintf("%d x %d = ?", q.Table, q.Factor)
}

// Solution returns the full worked expression for review screens
func (q Question) Solution() string {
	if q.Mode == ModeDivision {
		return fmt.Sprintf("%d : %d = %d", q.Dividend(), q.Table, q.Factor)
	}
	return fmt.Sprintf("%d x %d = %d", q.Table, q.Factor, q.Answer)
}
