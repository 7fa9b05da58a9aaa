package model

// PlayerID uniquely identifies a player within a room
type PlayerID string

// BetDecline is the sentinel bet target for a player who explicitly
// declines to bet. An empty Bet means no bet has been placed yet.
const BetDecline PlayerID = "decline"

// Player represents one participant in a room
type Player struct {
	ID           PlayerID
	Name         string // unique case-insensitively within the room
	Conn         ConnRef
	SecretNumber int // 0 until the game starts
	Operations   []Operation
	SacrificeUses int
	Guesses      map[PlayerID]*int // target -> guessed number; nil value = blank
	Bet          PlayerID          // "" unset, BetDecline, or a target player ID
	Submitted    bool              // one-way
	Connected    bool
}

// HasBet reports whether the player has made a bet decision (including decline)
func (p *Player) HasBet() bool {
	return p.Bet != ""
}

// HoldsOperation reports whether the player holds at least one unconsumed
// card of the given kind
func (p *Player) HoldsOperation(op Operation) bool {
	for _, held := range p.Operations {
		if held == op {
			return true
		}
	}
	return false
}

// ConsumeOperation removes one card of the given kind (first match).
// Cards of the same kind are interchangeable so order is irrelevant.
// Returns false if the player holds no such card.
func (p *Player) ConsumeOperation(op Operation) bool {
	for i, held := range p.Operations {
		if held == op {
			p.Operations = append(p.Operations[:i], p.Operations[i+1:]...)
			return true
		}
	}
	return false
}

// GrantFreshSet appends one card of every operation kind
func (p *Player) GrantFreshSet() {
	p.Operations = append(p.Operations, AllOperations()...)
}
