package conn

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/numberparty/numberparty/internal/dependencies/clock"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/services/registry"
)

// Config holds connection lifecycle settings
type Config struct {
	// GracePeriod is how long a room survives after its admin connection
	// drops before the room is closed
	GracePeriod time.Duration
}

// Manager tracks connection liveness for rooms. A dropped player is only
// marked disconnected; the room plays on without them. A dropped admin arms
// a grace timer, and the room closes for everyone if the admin does not
// return in time.
type Manager struct {
	registry *registry.Registry
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	mu      sync.Mutex
	timers  map[model.RoomCode]graceTimer
	lastGen uint64

	// closeHook is called after a grace expiry closes a room, so the push
	// layer can notify stream subscribers and drop the room's hub
	closeHook func(model.RoomCode)
}

// graceTimer pairs a pending timer with the generation that armed it. A
// fired callback must present the matching generation before it may close
// the room: a stale firing that lost the race to a reconnect plus a fresh
// disconnect would otherwise tear down the new timer's grace window.
type graceTimer struct {
	timer clock.Timer
	gen   uint64
}

// NewManager creates a new connection Manager
func NewManager(reg *registry.Registry, clk clock.Clock, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		registry: reg,
		clock:    clk,
		logger:   logger.With(slog.String("component", "conn")),
		cfg:      cfg,
		timers:   make(map[model.RoomCode]graceTimer),
	}
}

// SetCloseHook registers a callback invoked whenever a grace expiry closes
// a room
func (m *Manager) SetCloseHook(hook func(model.RoomCode)) {
	m.closeHook = hook
}

// Disconnection carries the identity of a dropped player for the broadcast
type Disconnection struct {
	Code       model.RoomCode
	PlayerID   model.PlayerID
	PlayerName string
}

// PlayerDisconnected marks the player behind ref as disconnected. The
// player's token stays bound so the same client can resume.
func (m *Manager) PlayerDisconnected(ctx context.Context, ref model.ConnRef) (*Disconnection, error) {
	code, playerID, ok := m.registry.FindByPlayerConn(ref)
	if !ok {
		return nil, model.ErrNotPlayerConn
	}

	var name string
	err := m.registry.WithRoom(ctx, code, func(room *model.Room) error {
		player := room.GetPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		player.Connected = false
		name = player.Name
		return nil
	})
	if err != nil {
		// The room may already be gone; nothing to mark
		if errors.Is(err, model.ErrRoomNotFound) {
			m.registry.Unbind(ref)
		}
		return nil, err
	}

	m.logger.Info("player disconnected",
		slog.String("code", string(code)),
		slog.String("player_id", string(playerID)))

	return &Disconnection{Code: code, PlayerID: playerID, PlayerName: name}, nil
}

// PlayerReconnected marks the player behind ref as connected again. Fails
// with ErrRoomNotFound when the room closed while they were away.
func (m *Manager) PlayerReconnected(ctx context.Context, ref model.ConnRef) (*Disconnection, error) {
	code, playerID, ok := m.registry.FindByPlayerConn(ref)
	if !ok {
		return nil, model.ErrNotPlayerConn
	}

	var name string
	err := m.registry.WithRoom(ctx, code, func(room *model.Room) error {
		player := room.GetPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		player.Connected = true
		name = player.Name
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			m.registry.Unbind(ref)
		}
		return nil, err
	}

	m.logger.Info("player reconnected",
		slog.String("code", string(code)),
		slog.String("player_id", string(playerID)))

	return &Disconnection{Code: code, PlayerID: playerID, PlayerName: name}, nil
}

// AdminDisconnected arms the grace timer for the room owned by ref. If the
// admin does not reconnect before it fires, the room is closed.
func (m *Manager) AdminDisconnected(ctx context.Context, ref model.ConnRef) (model.RoomCode, error) {
	code, ok := m.registry.FindByAdminConn(ref)
	if !ok {
		return "", model.ErrNotRoomAdmin
	}
	m.registry.Unbind(ref)

	m.mu.Lock()
	if existing, ok := m.timers[code]; ok {
		existing.timer.Stop()
	}
	m.lastGen++
	gen := m.lastGen
	m.timers[code] = graceTimer{
		timer: m.clock.AfterFunc(m.cfg.GracePeriod, func() {
			m.graceExpired(code, gen)
		}),
		gen: gen,
	}
	m.mu.Unlock()

	m.logger.Info("admin disconnected, grace timer armed",
		slog.String("code", string(code)),
		slog.Duration("grace_period", m.cfg.GracePeriod))

	return code, nil
}

// AdminReconnected rebinds a returning admin to its room under a new
// connection ref and disarms any pending grace timer
func (m *Manager) AdminReconnected(ctx context.Context, code model.RoomCode, ref model.ConnRef) error {
	err := m.registry.WithRoom(ctx, code, func(room *model.Room) error {
		room.AdminConn = ref
		return nil
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	if entry, exists := m.timers[code]; exists {
		entry.timer.Stop()
		delete(m.timers, code)
	}
	m.mu.Unlock()

	m.registry.BindAdmin(ref, code)

	m.logger.Info("admin reconnected", slog.String("code", string(code)))
	return nil
}

// graceExpired runs when a grace timer fires. The firing only counts if the
// map still holds the generation that armed it: a reconnect that raced the
// firing wins, and so does a newer timer armed by a later disconnect.
func (m *Manager) graceExpired(code model.RoomCode, gen uint64) {
	m.mu.Lock()
	entry, armed := m.timers[code]
	owns := armed && entry.gen == gen
	if owns {
		delete(m.timers, code)
	}
	m.mu.Unlock()
	if !owns {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.registry.Delete(ctx, code); err != nil {
		m.logger.Error("failed to close room after grace expiry",
			slog.String("code", string(code)),
			slog.String("error", err.Error()))
		return
	}

	m.logger.Info("grace period expired, room closed", slog.String("code", string(code)))

	if m.closeHook != nil {
		m.closeHook(code)
	}
}

// GraceArmed reports whether the room currently has a pending grace timer
func (m *Manager) GraceArmed(code model.RoomCode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.timers[code]
	return ok
}
