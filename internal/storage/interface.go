package storage

import (
	"context"

	"github.com/numberparty/numberparty/internal/model"
)

// Storage defines the interface for room persistence. Rooms are
// disposable session state; backends are not required to survive process
// restarts.
type Storage interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// ListRooms returns all active rooms, in no particular order
	ListRooms(ctx context.Context) ([]*model.Room, error)
}
