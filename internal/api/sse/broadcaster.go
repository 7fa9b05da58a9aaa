package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/numberparty/numberparty/internal/model"
)

// Broadcaster turns game events into JSON frames on the room's hub. Events
// carrying secret numbers are split: the full payload goes to the admin
// stream, the redacted one to everybody else.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

func (b *Broadcaster) emit(code model.RoomCode, event model.EventType, payload any, audience Audience) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to marshal event payload",
			slog.String("room", string(code)),
			slog.String("event", string(event)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(event, string(data), audience)
}

type rosterPayload struct {
	Player  *model.PlayerView  `json:"player,omitempty"`
	Players []model.PlayerView `json:"players"`
}

// PlayerJoined announces a new room member along with the updated roster
func (b *Broadcaster) PlayerJoined(code model.RoomCode, player model.PlayerView, roster []model.PlayerView) {
	b.emit(code, model.EventPlayerJoined, rosterPayload{Player: &player, Players: roster}, Everyone)
}

type presencePayload struct {
	PlayerID   model.PlayerID `json:"player_id"`
	PlayerName string         `json:"player_name"`
}

// PlayerDisconnected announces that a player's stream dropped
func (b *Broadcaster) PlayerDisconnected(code model.RoomCode, playerID model.PlayerID, name string) {
	b.emit(code, model.EventPlayerDisconnected, presencePayload{PlayerID: playerID, PlayerName: name}, Everyone)
}

// PlayerReconnected announces that a dropped player is back
func (b *Broadcaster) PlayerReconnected(code model.RoomCode, playerID model.PlayerID, name string) {
	b.emit(code, model.EventPlayerReconnected, presencePayload{PlayerID: playerID, PlayerName: name}, Everyone)
}

// GameStarted announces the start of play. The admin stream gets the
// roster with secret numbers; player streams get the redacted roster.
func (b *Broadcaster) GameStarted(code model.RoomCode, public, admin []model.PlayerView) {
	b.emit(code, model.EventGameStarted, rosterPayload{Players: public}, PlayersOnly)
	b.emit(code, model.EventGameStarted, rosterPayload{Players: admin}, AdminOnly)
}

// OperationResult announces a resolved reveal-card operation
func (b *Broadcaster) OperationResult(code model.RoomCode, move *model.Move) {
	b.emit(code, model.EventOperationResult, move, Everyone)
}

type sacrificePayload struct {
	PlayerID            model.PlayerID     `json:"player_id"`
	PlayerName          string             `json:"player_name"`
	SacrificesRemaining int                `json:"sacrifices_remaining"`
	Operations          []model.Operation  `json:"operations"`
	Players             []model.PlayerView `json:"players"`
}

// SacrificeUsed announces a spent sacrifice and the refreshed hand
func (b *Broadcaster) SacrificeUsed(code model.RoomCode, playerID model.PlayerID, name string, remaining int, operations []model.Operation, roster []model.PlayerView) {
	b.emit(code, model.EventSacrificeUsed, sacrificePayload{
		PlayerID:            playerID,
		PlayerName:          name,
		SacrificesRemaining: remaining,
		Operations:          operations,
		Players:             roster,
	}, Everyone)
}

type guessesPayload struct {
	Changes []model.GuessChange `json:"changes"`
}

// GuessChanged announces which guess slots flipped, never the values
func (b *Broadcaster) GuessChanged(code model.RoomCode, changes []model.GuessChange) {
	if len(changes) == 0 {
		return
	}
	b.emit(code, model.EventGuessChanged, guessesPayload{Changes: changes}, Everyone)
}

// BetPlaced announces that a player locked in a bet. The target stays
// private until results.
func (b *Broadcaster) BetPlaced(code model.RoomCode, playerID model.PlayerID, name string) {
	b.emit(code, model.EventBetPlaced, presencePayload{PlayerID: playerID, PlayerName: name}, Everyone)
}

// PlayerSubmitted announces that a player finalized their answers
func (b *Broadcaster) PlayerSubmitted(code model.RoomCode, playerID model.PlayerID, name string) {
	b.emit(code, model.EventPlayerSubmitted, presencePayload{PlayerID: playerID, PlayerName: name}, Everyone)
}

type resultsPayload struct {
	Scores []model.PlayerScore `json:"scores"`
}

// Results broadcasts the final standings to the whole room
func (b *Broadcaster) Results(code model.RoomCode, scores []model.PlayerScore) {
	b.emit(code, model.EventResults, resultsPayload{Scores: scores}, Everyone)
}

type roomClosedPayload struct {
	Reason string `json:"reason"`
}

// RoomClosed tells every stream the room is gone, then tears down its hub
func (b *Broadcaster) RoomClosed(code model.RoomCode, reason string) {
	b.emit(code, model.EventRoomClosed, roomClosedPayload{Reason: reason}, Everyone)
	b.hubManager.RemoveHub(code)
}
