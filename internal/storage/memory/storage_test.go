package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numberparty/numberparty/internal/model"
)

func testRoom(code model.RoomCode) *model.Room {
	return &model.Room{
		Code:                code,
		Status:              model.RoomStatusLobby,
		NumberRange:         model.NumberRange{Min: 1, Max: 100},
		SacrificesRemaining: 6,
		CreatedAt:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndGetRoom(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveRoom(ctx, testRoom("ABCD")))

	room, err := s.GetRoom(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, model.RoomCode("ABCD"), room.Code)
}

func TestGetRoomIsCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveRoom(ctx, testRoom("ABCD")))

	room, err := s.GetRoom(ctx, "abcd")
	require.NoError(t, err)
	assert.Equal(t, model.RoomCode("ABCD"), room.Code)
}

func TestGetMissingRoom(t *testing.T) {
	s := New()

	_, err := s.GetRoom(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
}

func TestDeleteRoom(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveRoom(ctx, testRoom("ABCD")))
	require.NoError(t, s.DeleteRoom(ctx, "ABCD"))

	exists, err := s.RoomExists(ctx, "ABCD")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListRooms(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveRoom(ctx, testRoom("AAAA")))
	require.NoError(t, s.SaveRoom(ctx, testRoom("BBBB")))

	rooms, err := s.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}
