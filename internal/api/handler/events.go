package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/numberparty/numberparty/internal/api/middleware"
	"github.com/numberparty/numberparty/internal/api/sse"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/services/conn"
	"github.com/numberparty/numberparty/internal/services/registry"
)

// EventsHandler serves the per-room event streams. The stream is the
// liveness signal: when it ends, the connection behind it is treated as
// dropped.
type EventsHandler struct {
	registry    *registry.Registry
	conns       *conn.Manager
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(reg *registry.Registry, conns *conn.Manager, hubManager *sse.HubManager, broadcaster *sse.Broadcaster) *EventsHandler {
	return &EventsHandler{
		registry:    reg,
		conns:       conns,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

// Stream handles GET /api/v1/rooms/{code}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ref := middleware.MustGetConn(r.Context())
	code := registry.NormalizeCode(model.RoomCode(mux.Vars(r)["code"]))

	// The token must belong to this room, as admin or player
	admin := false
	if adminCode, ok := h.registry.FindByAdminConn(ref); ok && adminCode == code {
		admin = true
	} else if playerCode, _, ok := h.registry.FindByPlayerConn(ref); !ok || playerCode != code {
		WriteError(w, NewUnauthorizedError())
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)

	// Blocks for the life of the stream
	sse.ServeSSE(w, r, hub, ref, admin)

	// The request context is done once the stream ends; the disconnect
	// bookkeeping gets its own deadline
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if admin {
		_, _ = h.conns.AdminDisconnected(ctx, ref)
		return
	}

	if d, err := h.conns.PlayerDisconnected(ctx, ref); err == nil {
		h.broadcaster.PlayerDisconnected(d.Code, d.PlayerID, d.PlayerName)
	}
}
