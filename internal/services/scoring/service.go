package scoring

import (
	"sort"

	"github.com/numberparty/numberparty/internal/model"
)

// Point values for guess outcomes
const (
	SelfCorrectPoints   = 5
	SelfIncorrectPoints = -5
	OtherCorrectPoints  = 1
	OtherIncorrectPoints = -1
	GuessedByMultiplier = 2
	BetCorrectPoints    = 2
	BetIncorrectPoints  = -2
)

// Service computes end-of-round scores
type Service struct {
	sacrificePenalty int
}

// New creates a scoring service with the given per-use sacrifice penalty
func New(sacrificePenalty int) *Service {
	return &Service{sacrificePenalty: sacrificePenalty}
}

// guessComponents are the scoring inputs shared by both passes
type guessComponents struct {
	selfGuessed     bool
	selfCorrect     bool
	othersCorrect   int
	othersIncorrect int
	othersBlank     int
	guessedByOthers int
}

func (s *Service) components(room *model.Room, p *model.Player) guessComponents {
	var c guessComponents

	if guess, ok := p.Guesses[p.ID]; ok && guess != nil {
		c.selfGuessed = true
		c.selfCorrect = *guess == p.SecretNumber
	}

	for _, other := range room.Players {
		if other.ID == p.ID {
			continue
		}
		guess, ok := p.Guesses[other.ID]
		switch {
		case !ok || guess == nil:
			c.othersBlank++
		case *guess == other.SecretNumber:
			c.othersCorrect++
		default:
			c.othersIncorrect++
		}

		if theirGuess, ok := other.Guesses[p.ID]; ok && theirGuess != nil && *theirGuess == p.SecretNumber {
			c.guessedByOthers++
		}
	}

	return c
}

func selfPoints(c guessComponents) int {
	if !c.selfGuessed {
		return 0
	}
	if c.selfCorrect {
		return SelfCorrectPoints
	}
	return SelfIncorrectPoints
}

// baseScore is the pass-1 score: everything except bet resolution
func (s *Service) baseScore(c guessComponents, p *model.Player) int {
	others := c.othersCorrect*OtherCorrectPoints + c.othersIncorrect*OtherIncorrectPoints
	return selfPoints(c) + others -
		c.guessedByOthers*GuessedByMultiplier -
		p.SacrificeUses*s.sacrificePenalty
}

// LastPlace returns the player with the strictly lowest base score. Ties
// resolve to the earliest player in roster join order.
func (s *Service) LastPlace(room *model.Room) model.PlayerID {
	if len(room.Players) == 0 {
		return ""
	}
	lastID := room.Players[0].ID
	lowest := s.baseScore(s.components(room, room.Players[0]), room.Players[0])
	for _, p := range room.Players[1:] {
		if score := s.baseScore(s.components(room, p), p); score < lowest {
			lowest = score
			lastID = p.ID
		}
	}
	return lastID
}

// Score runs both passes and returns the final per-player summaries sorted
// by score descending. Ties keep roster join order, so repeated calls on an
// unchanged room yield identical output.
//
// The two passes exist because a bet resolves against who finishes last,
// and that fact must be computed without the bet itself influencing it.
func (s *Service) Score(room *model.Room) []model.PlayerScore {
	lastPlaceID := s.LastPlace(room)

	scores := make([]model.PlayerScore, 0, len(room.Players))
	for _, p := range room.Players {
		c := s.components(room, p)

		ps := model.PlayerScore{
			PlayerID:         p.ID,
			PlayerName:       p.Name,
			SecretNumber:     p.SecretNumber,
			SelfCorrect:      c.selfGuessed && c.selfCorrect,
			SelfPoints:       selfPoints(c),
			OthersCorrect:    c.othersCorrect,
			OthersIncorrect:  c.othersIncorrect,
			OthersBlank:      c.othersBlank,
			OthersPoints:     c.othersCorrect*OtherCorrectPoints + c.othersIncorrect*OtherIncorrectPoints,
			GuessedByOthers:  c.guessedByOthers,
			GuessedByPenalty: c.guessedByOthers * GuessedByMultiplier,
			SacrificePenalty: p.SacrificeUses * s.sacrificePenalty,
		}

		if p.HasBet() && p.Bet != model.BetDecline {
			correct := p.Bet == lastPlaceID
			ps.BetCorrect = &correct
			if target := room.GetPlayer(p.Bet); target != nil {
				ps.BetTargetName = target.Name
			}
			if correct {
				ps.BetPoints = BetCorrectPoints
			} else {
				ps.BetPoints = BetIncorrectPoints
			}
		}

		ps.Score = ps.SelfPoints + ps.OthersPoints - ps.GuessedByPenalty + ps.BetPoints - ps.SacrificePenalty
		scores = append(scores, ps)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}
