package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/numberparty/numberparty/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(3)
}

func intPtr(v int) *int {
	return &v
}

// newRoom builds a playing room with the given players in join order
func newRoom(players ...*model.Player) *model.Room {
	return &model.Room{
		Code:    "TEST",
		Status:  model.RoomStatusPlaying,
		Players: players,
	}
}

func newPlayer(id model.PlayerID, name string, secret int) *model.Player {
	return &model.Player{
		ID:           id,
		Name:         name,
		SecretNumber: secret,
		Guesses:      map[model.PlayerID]*int{},
		Connected:    true,
	}
}

func (s *ServiceSuite) scoreFor(scores []model.PlayerScore, id model.PlayerID) model.PlayerScore {
	for _, ps := range scores {
		if ps.PlayerID == id {
			return ps
		}
	}
	s.FailNow("player not in scores", string(id))
	return model.PlayerScore{}
}

func (s *ServiceSuite) TestSelfGuessPoints() {
	correct := newPlayer("a", "Ana", 42)
	correct.Guesses["a"] = intPtr(42)
	incorrect := newPlayer("b", "Ben", 17)
	incorrect.Guesses["b"] = intPtr(99)
	blank := newPlayer("c", "Cai", 55)

	scores := s.service.Score(newRoom(correct, incorrect, blank))

	s.Equal(5, s.scoreFor(scores, "a").SelfPoints)
	s.True(s.scoreFor(scores, "a").SelfCorrect)
	s.Equal(-5, s.scoreFor(scores, "b").SelfPoints)
	s.Equal(0, s.scoreFor(scores, "c").SelfPoints)
}

func (s *ServiceSuite) TestOthersGuessSplit() {
	a := newPlayer("a", "Ana", 42)
	b := newPlayer("b", "Ben", 17)
	c := newPlayer("c", "Cai", 55)
	// Ana guesses Ben right, Cai wrong
	a.Guesses["b"] = intPtr(17)
	a.Guesses["c"] = intPtr(1)

	scores := s.service.Score(newRoom(a, b, c))

	ana := s.scoreFor(scores, "a")
	s.Equal(1, ana.OthersCorrect)
	s.Equal(1, ana.OthersIncorrect)
	s.Equal(0, ana.OthersBlank)
	s.Equal(0, ana.OthersPoints)

	ben := s.scoreFor(scores, "b")
	s.Equal(2, ben.OthersBlank)
}

func (s *ServiceSuite) TestGuessedByOthersPenalty() {
	a := newPlayer("a", "Ana", 42)
	b := newPlayer("b", "Ben", 17)
	c := newPlayer("c", "Cai", 55)
	// Both Ben and Cai guess Ana's number correctly
	b.Guesses["a"] = intPtr(42)
	c.Guesses["a"] = intPtr(42)

	scores := s.service.Score(newRoom(a, b, c))

	ana := s.scoreFor(scores, "a")
	s.Equal(2, ana.GuessedByOthers)
	s.Equal(4, ana.GuessedByPenalty)
	s.Equal(-4, ana.Score)
}

func (s *ServiceSuite) TestSacrificePenaltyApplied() {
	a := newPlayer("a", "Ana", 42)
	a.SacrificeUses = 2
	b := newPlayer("b", "Ben", 17)

	scores := s.service.Score(newRoom(a, b))

	ana := s.scoreFor(scores, "a")
	s.Equal(6, ana.SacrificePenalty)
	s.Equal(-6, ana.Score)
}

func (s *ServiceSuite) TestLastPlaceIsStrictlyLowestBaseScore() {
	a := newPlayer("a", "Ana", 42)
	a.Guesses["a"] = intPtr(42) // +5
	b := newPlayer("b", "Ben", 17)
	b.Guesses["b"] = intPtr(1) // -5
	c := newPlayer("c", "Cai", 55)

	s.Equal(model.PlayerID("b"), s.service.LastPlace(newRoom(a, b, c)))
}

func (s *ServiceSuite) TestLastPlaceTieResolvesToJoinOrder() {
	a := newPlayer("a", "Ana", 42)
	b := newPlayer("b", "Ben", 17)
	c := newPlayer("c", "Cai", 55)

	// All base scores are zero; the earliest joiner is last place
	s.Equal(model.PlayerID("a"), s.service.LastPlace(newRoom(a, b, c)))
	s.Equal(model.PlayerID("b"), s.service.LastPlace(newRoom(b, c, a)))
}

func (s *ServiceSuite) TestBetResolution() {
	// Ben's -5 self guess makes him strictly last regardless of bets
	makeRoom := func(betA, betB, betC model.PlayerID) *model.Room {
		a := newPlayer("a", "Ana", 42)
		a.Guesses["a"] = intPtr(42)
		b := newPlayer("b", "Ben", 17)
		b.Guesses["b"] = intPtr(1)
		c := newPlayer("c", "Cai", 55)
		a.Bet, b.Bet, c.Bet = betA, betB, betC
		return newRoom(a, b, c)
	}

	scores := s.service.Score(makeRoom("b", model.BetDecline, "a"))

	ana := s.scoreFor(scores, "a")
	s.Require().NotNil(ana.BetCorrect)
	s.True(*ana.BetCorrect)
	s.Equal(2, ana.BetPoints)
	s.Equal("Ben", ana.BetTargetName)

	ben := s.scoreFor(scores, "b")
	s.Nil(ben.BetCorrect)
	s.Equal(0, ben.BetPoints)

	cai := s.scoreFor(scores, "c")
	s.Require().NotNil(cai.BetCorrect)
	s.False(*cai.BetCorrect)
	s.Equal(-2, cai.BetPoints)
}

func (s *ServiceSuite) TestBetResolutionIndependentOfPlacementOrder() {
	for _, bets := range [][3]model.PlayerID{
		{"b", model.BetDecline, "a"},
		{"b", "", "a"},
	} {
		a := newPlayer("a", "Ana", 42)
		a.Guesses["a"] = intPtr(42)
		b := newPlayer("b", "Ben", 17)
		b.Guesses["b"] = intPtr(1)
		c := newPlayer("c", "Cai", 55)
		a.Bet, b.Bet, c.Bet = bets[0], bets[1], bets[2]

		scores := s.service.Score(newRoom(a, b, c))
		s.Equal(2, s.scoreFor(scores, "a").BetPoints)
		s.Equal(0, s.scoreFor(scores, "b").BetPoints)
		s.Equal(-2, s.scoreFor(scores, "c").BetPoints)
	}
}

func (s *ServiceSuite) TestBetDoesNotInfluenceLastPlace() {
	a := newPlayer("a", "Ana", 42)
	a.Guesses["a"] = intPtr(42)
	b := newPlayer("b", "Ben", 17)
	b.Guesses["b"] = intPtr(1)
	// Ben bets correctly on himself being last; his bet must not lift him
	// out of last place for resolution purposes
	b.Bet = "b"

	room := newRoom(a, b)
	s.Equal(model.PlayerID("b"), s.service.LastPlace(room))

	scores := s.service.Score(room)
	ben := s.scoreFor(scores, "b")
	s.Require().NotNil(ben.BetCorrect)
	s.True(*ben.BetCorrect)
}

func (s *ServiceSuite) TestScoreSortedDescendingAndIdempotent() {
	a := newPlayer("a", "Ana", 42)
	a.Guesses["a"] = intPtr(42)
	b := newPlayer("b", "Ben", 17)
	b.Guesses["b"] = intPtr(1)
	c := newPlayer("c", "Cai", 55)
	room := newRoom(a, b, c)

	first := s.service.Score(room)
	second := s.service.Score(room)

	s.Equal(first, second)
	for i := 1; i < len(first); i++ {
		s.GreaterOrEqual(first[i-1].Score, first[i].Score)
	}
	s.Equal(model.PlayerID("a"), first[0].PlayerID)
	s.Equal(model.PlayerID("b"), first[len(first)-1].PlayerID)
}
