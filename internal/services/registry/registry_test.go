package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/numberparty/numberparty/internal/dependencies/mocks"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/storage/memory"
	"github.com/numberparty/numberparty/internal/testutil"
)

func testConfig() Config {
	return Config{
		CodeLength:      4,
		CodeAlphabet:    "ABCDEFGHJKLMNPQRSTUVWXYZ",
		SacrificeBudget: 6,
		RoomTTL:         2 * time.Hour,
		FinishedRoomTTL: 15 * time.Minute,
	}
}

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = New(s.storage, s.clock, s.random, testConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *RegistrySuite) TestCreateRoom() {
	s.random.QueueString("ABCD")

	room, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)

	s.Equal(model.RoomCode("ABCD"), room.Code)
	s.Equal(model.RoomStatusLobby, room.Status)
	s.Equal(model.ConnRef("admin-1"), room.AdminConn)
	s.Equal(6, room.SacrificesRemaining)
	s.Empty(room.Players)

	code, ok := s.registry.FindByAdminConn("admin-1")
	s.True(ok)
	s.Equal(model.RoomCode("ABCD"), code)
}

func (s *RegistrySuite) TestCreateRetriesOnCodeCollision() {
	s.random.QueueString("ABCD")
	_, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)

	// Second creation draws the taken code first, then a fresh one
	s.random.QueueString("ABCD", "WXYZ")
	room, err := s.registry.Create(s.ctx, "admin-2", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)
	s.Equal(model.RoomCode("WXYZ"), room.Code)
}

func (s *RegistrySuite) TestWithRoomMutatesAndSaves() {
	s.random.QueueString("ABCD")
	_, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	err = s.registry.WithRoom(s.ctx, "abcd", func(room *model.Room) error {
		room.Status = model.RoomStatusPlaying
		return nil
	})
	s.Require().NoError(err)

	room, err := s.registry.Get(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, room.Status)
	s.Equal(s.clock.Now(), room.UpdatedAt)
}

func (s *RegistrySuite) TestWithRoomMissingRoom() {
	err := s.registry.WithRoom(s.ctx, "ZZZZ", func(room *model.Room) error {
		s.FailNow("fn must not run for a missing room")
		return nil
	})
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestConnectionIndex() {
	s.registry.BindPlayer("tok-1", "ABCD", "p1")

	code, playerID, ok := s.registry.FindByPlayerConn("tok-1")
	s.True(ok)
	s.Equal(model.RoomCode("ABCD"), code)
	s.Equal(model.PlayerID("p1"), playerID)

	s.registry.Unbind("tok-1")
	_, _, ok = s.registry.FindByPlayerConn("tok-1")
	s.False(ok)
}

func (s *RegistrySuite) TestDeleteCleansConnectionIndex() {
	s.random.QueueString("ABCD")
	_, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)
	s.registry.BindPlayer("tok-1", "ABCD", "p1")

	s.Require().NoError(s.registry.Delete(s.ctx, "ABCD"))

	_, ok := s.registry.FindByAdminConn("admin-1")
	s.False(ok)
	_, _, ok = s.registry.FindByPlayerConn("tok-1")
	s.False(ok)
	_, err = s.registry.Get(s.ctx, "ABCD")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestSweepEvictsOldRooms() {
	s.random.QueueString("AAAA")
	_, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)

	s.Equal(0, s.registry.SweepExpired(s.ctx))

	s.clock.Advance(2*time.Hour + time.Minute)
	s.Equal(1, s.registry.SweepExpired(s.ctx))

	_, err = s.registry.Get(s.ctx, "AAAA")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestSweepEvictsFinishedRoomsSooner() {
	s.random.QueueString("AAAA", "BBBB")
	_, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)
	_, err = s.registry.Create(s.ctx, "admin-2", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)

	err = s.registry.WithRoom(s.ctx, "AAAA", func(room *model.Room) error {
		room.Status = model.RoomStatusFinished
		return nil
	})
	s.Require().NoError(err)

	s.clock.Advance(16 * time.Minute)
	s.Equal(1, s.registry.SweepExpired(s.ctx))

	_, err = s.registry.Get(s.ctx, "AAAA")
	s.ErrorIs(err, model.ErrRoomNotFound)
	_, err = s.registry.Get(s.ctx, "BBBB")
	s.NoError(err)
}

func (s *RegistrySuite) TestSweepCallsEvictHook() {
	var evicted []model.RoomCode
	s.registry.SetEvictHook(func(code model.RoomCode) {
		evicted = append(evicted, code)
	})

	s.random.QueueString("AAAA")
	_, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)

	s.clock.Advance(3 * time.Hour)
	s.registry.SweepExpired(s.ctx)

	s.Equal([]model.RoomCode{"AAAA"}, evicted)
}

func (s *RegistrySuite) TestSweepWaitsForInFlightCommand() {
	s.random.QueueString("AAAA")
	_, err := s.registry.Create(s.ctx, "admin-1", model.NumberRange{Min: 1, Max: 100})
	s.Require().NoError(err)

	s.clock.Advance(2*time.Hour + time.Minute)

	entered := make(chan struct{})
	release := make(chan struct{})
	mutation := make(chan error, 1)
	go func() {
		mutation <- s.registry.WithRoom(s.ctx, "AAAA", func(room *model.Room) error {
			close(entered)
			<-release
			room.SacrificesRemaining--
			return nil
		})
	}()
	<-entered

	swept := make(chan int, 1)
	go func() { swept <- s.registry.SweepExpired(s.ctx) }()

	// The eviction must block behind the command holding the room lock
	select {
	case n := <-swept:
		s.FailNowf("sweep did not wait for the in-flight command", "removed %d", n)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	s.Require().NoError(<-mutation)
	s.Equal(1, <-swept)

	// The command's save must not have resurrected the room
	_, err = s.registry.Get(s.ctx, "AAAA")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
