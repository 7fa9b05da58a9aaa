package registry

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/numberparty/numberparty/internal/dependencies/clock"
	"github.com/numberparty/numberparty/internal/dependencies/random"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/storage"
)

// Config holds registry behavior settings
type Config struct {
	CodeLength      int
	CodeAlphabet    string
	SacrificeBudget int

	// RoomTTL evicts rooms of any status; FinishedRoomTTL evicts finished
	// rooms much sooner
	RoomTTL         time.Duration
	FinishedRoomTTL time.Duration
}

// Registry owns the collection of active rooms. It is an explicitly
// constructed instance: tests build a fresh one rather than sharing
// package state.
//
// All room mutation goes through WithRoom, which serializes commands per
// room; different rooms proceed in parallel.
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	mu          sync.Mutex
	locks       map[model.RoomCode]*sync.Mutex
	adminConns  map[model.ConnRef]model.RoomCode
	playerConns map[model.ConnRef]playerRef

	// evictHook is called (outside registry locks) for each room removed
	// by the sweep, so the push layer can drop its hub
	evictHook func(model.RoomCode)
}

type playerRef struct {
	code     model.RoomCode
	playerID model.PlayerID
}

// New creates a new Registry
func New(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Registry {
	return &Registry{
		storage:     store,
		clock:       clk,
		random:      rnd,
		logger:      logger.With(slog.String("component", "registry")),
		cfg:         cfg,
		locks:       make(map[model.RoomCode]*sync.Mutex),
		adminConns:  make(map[model.ConnRef]model.RoomCode),
		playerConns: make(map[model.ConnRef]playerRef),
	}
}

// SetEvictHook registers a callback invoked for every room the sweep evicts
func (r *Registry) SetEvictHook(hook func(model.RoomCode)) {
	r.evictHook = hook
}

// Create generates a collision-free room code and stores a new lobby room
// owned by the given admin connection
func (r *Registry) Create(ctx context.Context, adminConn model.ConnRef, numberRange model.NumberRange) (*model.Room, error) {
	now := r.clock.Now()

	// Retry random draws until an unused code comes up
	var code model.RoomCode
	for {
		code = model.RoomCode(r.random.String(r.cfg.CodeLength, r.cfg.CodeAlphabet))
		exists, err := r.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		Code:                code,
		Status:              model.RoomStatusLobby,
		AdminConn:           adminConn,
		Players:             []*model.Player{},
		Moves:               []model.Move{},
		NumberRange:         numberRange,
		SacrificesRemaining: r.cfg.SacrificeBudget,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	r.BindAdmin(adminConn, code)

	r.logger.Info("room created",
		slog.String("code", string(code)),
		slog.Int("range_min", numberRange.Min),
		slog.Int("range_max", numberRange.Max))

	return room, nil
}

// Get retrieves a room by code
func (r *Registry) Get(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return r.storage.GetRoom(ctx, code)
}

// Delete removes a room and every connection-index entry pointing at it
func (r *Registry) Delete(ctx context.Context, code model.RoomCode) error {
	code = NormalizeCode(code)
	if err := r.storage.DeleteRoom(ctx, code); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.locks, code)
	for ref, c := range r.adminConns {
		if c == code {
			delete(r.adminConns, ref)
		}
	}
	for ref, pr := range r.playerConns {
		if pr.code == code {
			delete(r.playerConns, ref)
		}
	}
	r.mu.Unlock()

	return nil
}

// WithRoom runs fn with exclusive access to the room's state: the room is
// loaded, fn may mutate it, and it is saved back if fn succeeds. Commands
// for the same room are processed to completion one at a time.
func (r *Registry) WithRoom(ctx context.Context, code model.RoomCode, fn func(*model.Room) error) error {
	code = NormalizeCode(code)

	lock := r.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	if err := fn(room); err != nil {
		return err
	}

	room.UpdatedAt = r.clock.Now()
	return r.storage.SaveRoom(ctx, room)
}

func (r *Registry) roomLock(code model.RoomCode) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[code] = lock
	}
	return lock
}

// Connection index. Connections are process-local, so the index lives in
// memory regardless of the storage backend.

// BindAdmin records ref as the admin connection for the room
func (r *Registry) BindAdmin(ref model.ConnRef, code model.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminConns[ref] = NormalizeCode(code)
}

// BindPlayer records ref as a player connection for the room
func (r *Registry) BindPlayer(ref model.ConnRef, code model.RoomCode, playerID model.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playerConns[ref] = playerRef{code: NormalizeCode(code), playerID: playerID}
}

// Unbind removes ref from the connection index
func (r *Registry) Unbind(ref model.ConnRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.adminConns, ref)
	delete(r.playerConns, ref)
}

// FindByAdminConn returns the room code whose admin connection is ref
func (r *Registry) FindByAdminConn(ref model.ConnRef) (model.RoomCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.adminConns[ref]
	return code, ok
}

// FindByPlayerConn returns the room code and player bound to ref
func (r *Registry) FindByPlayerConn(ref model.ConnRef) (model.RoomCode, model.PlayerID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.playerConns[ref]
	return pr.code, pr.playerID, ok
}

// SweepExpired removes rooms past their TTL and returns how many were
// evicted. Each eviction takes that room's lock so an in-flight command
// cannot save the room back after the delete; the scan itself holds no
// locks, so commands on other rooms are unaffected.
func (r *Registry) SweepExpired(ctx context.Context) int {
	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		r.logger.Error("sweep failed to list rooms", slog.String("error", err.Error()))
		return 0
	}

	now := r.clock.Now()
	removed := 0
	for _, room := range rooms {
		age := now.Sub(room.CreatedAt)
		expired := age > r.cfg.RoomTTL ||
			(room.Status == model.RoomStatusFinished && age > r.cfg.FinishedRoomTTL)
		if !expired {
			continue
		}
		lock := r.roomLock(room.Code)
		lock.Lock()
		err := r.Delete(ctx, room.Code)
		lock.Unlock()
		if err != nil {
			r.logger.Error("sweep failed to delete room",
				slog.String("code", string(room.Code)),
				slog.String("error", err.Error()))
			continue
		}
		if r.evictHook != nil {
			r.evictHook(room.Code)
		}
		removed++
	}

	if removed > 0 {
		r.logger.Info("swept stale rooms", slog.Int("removed", removed))
	}
	return removed
}

// RunSweeper runs SweepExpired on a fixed interval until ctx is done
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.SweepExpired(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// NormalizeCode uppercases a room code; lookups are case-insensitive
func NormalizeCode(code model.RoomCode) model.RoomCode {
	return model.RoomCode(strings.ToUpper(string(code)))
}
