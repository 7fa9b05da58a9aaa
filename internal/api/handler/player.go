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

// PlayerHandler handles player-side commands
type PlayerHandler struct {
	registry    *registry.Registry
	engine      *engine.Engine
	conns       *conn.Manager
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(reg *registry.Registry, eng *engine.Engine, conns *conn.Manager, hubManager *sse.HubManager, broadcaster *sse.Broadcaster) *PlayerHandler {
	return &PlayerHandler{
		registry:    reg,
		engine:      eng,
		conns:       conns,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

// playerForConn resolves the requester's player identity within the room
// named in the path
func (h *PlayerHandler) playerForConn(r *http.Request) (model.RoomCode, model.PlayerID, model.ConnRef, error) {
	ref := middleware.MustGetConn(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	boundCode, playerID, ok := h.registry.FindByPlayerConn(ref)
	if !ok || boundCode != registry.NormalizeCode(code) {
		return "", "", "", model.ErrNotPlayerConn
	}
	return boundCode, playerID, ref, nil
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *PlayerHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	token := model.ConnRef(uuid.NewString())
	result, err := h.engine.Join(r.Context(), code, req.Name, token)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.hubManager.GetOrCreateHub(registry.NormalizeCode(code))
	h.broadcaster.PlayerJoined(registry.NormalizeCode(code), result.Player, result.Roster)

	response.JSON(w, http.StatusCreated, response.JoinResponse{
		PlayerID:    result.PlayerID,
		PlayerToken: token,
		Players:     result.Roster,
	})
}

// Guesses handles PUT /api/v1/rooms/{code}/guesses
func (h *PlayerHandler) Guesses(w http.ResponseWriter, r *http.Request) {
	code, playerID, ref, err := h.playerForConn(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.GuessesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	guesses := make(map[model.PlayerID]*int, len(req.Guesses))
	for id, v := range req.Guesses {
		guesses[model.PlayerID(id)] = v
	}

	changes, err := h.engine.UpdateGuesses(r.Context(), code, playerID, ref, guesses)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.GuessChanged(code, changes)

	response.JSON(w, http.StatusOK, response.GuessesResponse{Changes: changes})
}

// Bet handles POST /api/v1/rooms/{code}/bet
func (h *PlayerHandler) Bet(w http.ResponseWriter, r *http.Request) {
	code, playerID, ref, err := h.playerForConn(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.BetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Target == "" {
		WriteError(w, NewInvalidRequestError("target is required"))
		return
	}

	name, err := h.engine.PlaceBet(r.Context(), code, playerID, ref, model.PlayerID(req.Target))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BetPlaced(code, playerID, name)

	response.NoContent(w)
}

// Submit handles POST /api/v1/rooms/{code}/submit
func (h *PlayerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	code, playerID, ref, err := h.playerForConn(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	name, err := h.engine.SubmitAnswers(r.Context(), code, playerID, ref)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PlayerSubmitted(code, playerID, name)

	response.NoContent(w)
}

// Reconnect handles POST /api/v1/rooms/{code}/reconnect. The player
// presents their original token and gets back a full state snapshot.
func (h *PlayerHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	ref := middleware.MustGetConn(r.Context())

	d, err := h.conns.PlayerReconnected(r.Context(), ref)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PlayerReconnected(d.Code, d.PlayerID, d.PlayerName)

	// Built under the room lock: concurrent commands must not mutate the
	// room while the snapshot is being assembled
	var snap response.SnapshotResponse
	err = h.registry.WithRoom(r.Context(), d.Code, func(room *model.Room) error {
		snap = response.SnapshotFromRoom(room, d.PlayerID)
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snap)
}
