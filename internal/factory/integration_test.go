package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/numberparty/numberparty/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createRoom(adminConn model.ConnRef) model.RoomCode {
	s.app.MockRandom.QueueString("ABCD")
	room, err := s.app.Registry.Create(s.ctx, adminConn, model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)
	return room.Code
}

func (s *IntegrationSuite) join(code model.RoomCode, name string, conn model.ConnRef) model.PlayerID {
	result, err := s.app.Engine.Join(s.ctx, code, name, conn)
	s.Require().NoError(err)
	return result.PlayerID
}

// Test: Complete round from room creation to final scores
func (s *IntegrationSuite) TestCompleteGameFlow() {
	code := s.createRoom("admin-1")

	ana := s.join(code, "Ana", "tok-ana")
	bea := s.join(code, "Bea", "tok-bea")
	cal := s.join(code, "Cal", "tok-cal")

	// Secrets: Ana 30, Bea 40, Cal 99 (range starts at 1)
	s.app.MockRandom.QueueIntn(29, 39, 98)
	start, err := s.app.Engine.StartGame(s.ctx, code, "admin-1")
	s.Require().NoError(err)
	s.Len(start.AdminPlayers, 3)

	// Reveal Ana + Bea
	move, err := s.app.Engine.ExecuteOperation(s.ctx, code, "admin-1", ana, bea, model.OpSum)
	s.Require().NoError(err)
	s.Equal("70", move.Result)

	// Ana guesses her own number and Bea's, both correct
	self, other := 30, 40
	_, err = s.app.Engine.UpdateGuesses(s.ctx, code, ana, "tok-ana", map[model.PlayerID]*int{
		ana: &self,
		bea: &other,
	})
	s.Require().NoError(err)

	// Bea bets on Cal finishing last
	_, err = s.app.Engine.PlaceBet(s.ctx, code, bea, "tok-bea", cal)
	s.Require().NoError(err)

	_, err = s.app.Engine.SubmitAnswers(s.ctx, code, cal, "tok-cal")
	s.Require().NoError(err)

	scores, err := s.app.Engine.EndGame(s.ctx, code, "admin-1")
	s.Require().NoError(err)
	s.Require().Len(scores, 3)

	// Ana: +5 self, +1 for Bea. Cal: nothing. Bea: -2 guessed-by, and her
	// bet misses because she herself is last place, so -2 more.
	s.Equal("Ana", scores[0].PlayerName)
	s.Equal(6, scores[0].Score)
	s.Equal("Cal", scores[1].PlayerName)
	s.Equal(0, scores[1].Score)
	s.Equal("Bea", scores[2].PlayerName)
	s.Equal(-4, scores[2].Score)
	s.Require().NotNil(scores[2].BetCorrect)
	s.False(*scores[2].BetCorrect)

	room, err := s.app.Registry.Get(s.ctx, code)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, room.Status)
}

// Test: Admin absence past the grace period tears the room down
func (s *IntegrationSuite) TestAdminGraceExpiryClosesRoom() {
	code := s.createRoom("admin-1")
	s.join(code, "Ana", "tok-ana")

	gotCode, err := s.app.ConnManager.AdminDisconnected(s.ctx, "admin-1")
	s.Require().NoError(err)
	s.Equal(code, gotCode)

	// Still alive just before the deadline
	s.app.MockClock.Advance(59 * time.Second)
	_, err = s.app.Registry.Get(s.ctx, code)
	s.Require().NoError(err)

	s.app.MockClock.Advance(2 * time.Second)
	_, err = s.app.Registry.Get(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Test: Admin returning within the grace period keeps the room alive and
// invalidates the old admin connection
func (s *IntegrationSuite) TestAdminReconnectWithinGrace() {
	code := s.createRoom("admin-1")
	ana := s.join(code, "Ana", "tok-ana")
	bea := s.join(code, "Bea", "tok-bea")
	_ = ana
	_ = bea

	_, err := s.app.ConnManager.AdminDisconnected(s.ctx, "admin-1")
	s.Require().NoError(err)

	s.app.MockClock.Advance(30 * time.Second)
	s.Require().NoError(s.app.ConnManager.AdminReconnected(s.ctx, code, "admin-2"))

	// Well past the original deadline the room is still there
	s.app.MockClock.Advance(10 * time.Minute)
	_, err = s.app.Registry.Get(s.ctx, code)
	s.Require().NoError(err)

	// The stale connection lost its admin rights
	_, err = s.app.Engine.StartGame(s.ctx, code, "admin-1")
	s.ErrorIs(err, model.ErrNotRoomAdmin)

	s.app.MockRandom.QueueIntn(0, 0)
	_, err = s.app.Engine.StartGame(s.ctx, code, "admin-2")
	s.Require().NoError(err)
}

// Test: Player disconnect and reconnect flips presence without touching
// the rest of the room state
func (s *IntegrationSuite) TestPlayerPresenceRoundTrip() {
	code := s.createRoom("admin-1")
	ana := s.join(code, "Ana", "tok-ana")

	gone, err := s.app.ConnManager.PlayerDisconnected(s.ctx, "tok-ana")
	s.Require().NoError(err)
	s.Equal(ana, gone.PlayerID)

	room, err := s.app.Registry.Get(s.ctx, code)
	s.Require().NoError(err)
	s.False(room.GetPlayer(ana).Connected)

	back, err := s.app.ConnManager.PlayerReconnected(s.ctx, "tok-ana")
	s.Require().NoError(err)
	s.Equal("Ana", back.PlayerName)

	room, err = s.app.Registry.Get(s.ctx, code)
	s.Require().NoError(err)
	s.True(room.GetPlayer(ana).Connected)
}

// Test: The sweeper evicts finished rooms sooner than live ones
func (s *IntegrationSuite) TestSweepExpiredRooms() {
	code := s.createRoom("admin-1")
	ana := s.join(code, "Ana", "tok-ana")
	bea := s.join(code, "Bea", "tok-bea")
	_ = ana
	_ = bea

	s.app.MockRandom.QueueIntn(0, 0)
	_, err := s.app.Engine.StartGame(s.ctx, code, "admin-1")
	s.Require().NoError(err)
	_, err = s.app.Engine.EndGame(s.ctx, code, "admin-1")
	s.Require().NoError(err)

	// A fresh finished room survives a sweep
	s.Equal(0, s.app.Registry.SweepExpired(s.ctx))

	// Sixteen minutes later the finished-room TTL has elapsed
	s.app.MockClock.Advance(16 * time.Minute)
	s.Equal(1, s.app.Registry.SweepExpired(s.ctx))

	_, err = s.app.Registry.Get(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Test: A live lobby room expires after the full room TTL
func (s *IntegrationSuite) TestSweepKeepsYoungRooms() {
	code := s.createRoom("admin-1")

	s.app.MockClock.Advance(1 * time.Hour)
	s.Equal(0, s.app.Registry.SweepExpired(s.ctx))

	s.app.MockClock.Advance(90 * time.Minute)
	s.Equal(1, s.app.Registry.SweepExpired(s.ctx))

	_, err := s.app.Registry.Get(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}
