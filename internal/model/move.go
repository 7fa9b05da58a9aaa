package model

import "time"

// Operation identifies a reveal-card kind. The wire values match the
// symbols clients display on the cards.
type Operation string

const (
	OpSum         Operation = "+" // reveal a+b within thresholds
	OpProductTail Operation = "*" // reveal last decimal digit of a*b
	OpRatio       Operation = "/" // reveal floor(max/min)
	OpZeroCensus  Operation = "0" // count numbers containing digit 0 strictly between a and b
)

// AllOperations returns one card of each kind, the starting hand and the
// set granted by a sacrifice
func AllOperations() []Operation {
	return []Operation{OpSum, OpProductTail, OpRatio, OpZeroCensus}
}

// ValidOperation reports whether op is a known card kind
func ValidOperation(op Operation) bool {
	switch op {
	case OpSum, OpProductTail, OpRatio, OpZeroCensus:
		return true
	}
	return false
}

// MoveID uniquely identifies a resolved operation
type MoveID string

// Move is an immutable record of one resolved operation between two players.
// Result is the revealed value: a rendered number, or descriptive text for
// the sum-threshold boundary cases. Once appended to a room it is never
// mutated.
type Move struct {
	ID          MoveID    `json:"id"`
	PlayerAID   PlayerID  `json:"player_a_id"`
	PlayerAName string    `json:"player_a_name"`
	PlayerBID   PlayerID  `json:"player_b_id"`
	PlayerBName string    `json:"player_b_name"`
	Op          Operation `json:"operation"`
	Result      string    `json:"result"`
	Timestamp   time.Time `json:"timestamp"`
}
