package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/numberparty/numberparty/internal/api/middleware"
	"github.com/numberparty/numberparty/internal/api/request"
	"github.com/numberparty/numberparty/internal/api/response"
	"github.com/numberparty/numberparty/internal/api/sse"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/services/conn"
	"github.com/numberparty/numberparty/internal/services/engine"
	"github.com/numberparty/numberparty/internal/services/registry"
)

// RoomHandler handles room lifecycle and admin commands
type RoomHandler struct {
	registry     *registry.Registry
	engine       *engine.Engine
	conns        *conn.Manager
	hubManager   *sse.HubManager
	broadcaster  *sse.Broadcaster
	defaultRange model.NumberRange
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(reg *registry.Registry, eng *engine.Engine, conns *conn.Manager, hubManager *sse.HubManager, broadcaster *sse.Broadcaster, defaultRange model.NumberRange) *RoomHandler {
	return &RoomHandler{
		registry:     reg,
		engine:       eng,
		conns:        conns,
		hubManager:   hubManager,
		broadcaster:  broadcaster,
		defaultRange: defaultRange,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body means default range
		req = request.CreateRoomRequest{}
	}

	numberRange := h.defaultRange
	if req.RangeMin != nil {
		numberRange.Min = *req.RangeMin
	}
	if req.RangeMax != nil {
		numberRange.Max = *req.RangeMax
	}
	if numberRange.Min > numberRange.Max {
		WriteError(w, NewInvalidRequestError("range_min must not exceed range_max"))
		return
	}

	adminToken := model.ConnRef(uuid.NewString())
	room, err := h.registry.Create(r.Context(), adminToken, numberRange)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.hubManager.GetOrCreateHub(room.Code)

	response.JSON(w, http.StatusCreated, response.RoomResponse{
		Code:                room.Code,
		Status:              room.Status,
		AdminToken:          adminToken,
		NumberRange:         room.NumberRange,
		SacrificesRemaining: room.SacrificesRemaining,
		Players:             model.PublicRoster(room),
	})
}

// Start handles POST /api/v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	adminConn := middleware.MustGetConn(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	result, err := h.engine.StartGame(r.Context(), code, adminConn)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.GameStarted(code, result.PublicPlayers, result.AdminPlayers)

	response.JSON(w, http.StatusOK, response.StartResponse{
		Status:  model.RoomStatusPlaying,
		Players: result.AdminPlayers,
	})
}

// Operation handles POST /api/v1/rooms/{code}/operations
func (h *RoomHandler) Operation(w http.ResponseWriter, r *http.Request) {
	adminConn := middleware.MustGetConn(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	move, err := h.engine.ExecuteOperation(r.Context(), code, adminConn,
		model.PlayerID(req.PlayerAID), model.PlayerID(req.PlayerBID), model.Operation(req.Operation))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.OperationResult(code, move)

	response.JSON(w, http.StatusOK, move)
}

// Sacrifice handles POST /api/v1/rooms/{code}/sacrifice
func (h *RoomHandler) Sacrifice(w http.ResponseWriter, r *http.Request) {
	adminConn := middleware.MustGetConn(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.SacrificeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.engine.Sacrifice(r.Context(), code, adminConn, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.SacrificeUsed(code, result.PlayerID, result.PlayerName,
		result.SacrificesRemaining, result.Operations, result.Roster)

	response.JSON(w, http.StatusOK, response.SacrificeResponse{
		PlayerID:            result.PlayerID,
		PlayerName:          result.PlayerName,
		SacrificesRemaining: result.SacrificesRemaining,
		Operations:          result.Operations,
		Players:             result.Roster,
	})
}

// End handles POST /api/v1/rooms/{code}/end
func (h *RoomHandler) End(w http.ResponseWriter, r *http.Request) {
	adminConn := middleware.MustGetConn(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	scores, err := h.engine.EndGame(r.Context(), code, adminConn)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.Results(code, scores)

	response.JSON(w, http.StatusOK, response.ScoresResponse{Scores: scores})
}

// AdminReconnect handles POST /api/v1/rooms/{code}/admin/reconnect. The
// caller re-authenticates with the admin key (enforced by middleware) and
// receives a replacement admin token.
func (h *RoomHandler) AdminReconnect(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	adminToken := model.ConnRef(uuid.NewString())
	if err := h.conns.AdminReconnected(r.Context(), code, adminToken); err != nil {
		WriteError(w, err)
		return
	}

	// Built under the room lock so the snapshot is a consistent view
	var snap response.SnapshotResponse
	err := h.registry.WithRoom(r.Context(), code, func(room *model.Room) error {
		snap = response.AdminSnapshotFromRoom(room)
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AdminReconnectResponse{
		AdminToken: adminToken,
		Snapshot:   snap,
	})
}
