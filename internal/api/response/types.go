package response

import (
	"github.com/numberparty/numberparty/internal/model"
)

// RoomResponse is the ack for room creation. The admin token authorizes
// every subsequent admin command on the room.
type RoomResponse struct {
	Code                model.RoomCode     `json:"code"`
	Status              model.RoomStatus   `json:"status"`
	AdminToken          model.ConnRef      `json:"admin_token"`
	NumberRange         model.NumberRange  `json:"number_range"`
	SacrificesRemaining int                `json:"sacrifices_remaining"`
	Players             []model.PlayerView `json:"players"`
}

// JoinResponse is the ack for joining a room
type JoinResponse struct {
	PlayerID    model.PlayerID     `json:"player_id"`
	PlayerToken model.ConnRef      `json:"player_token"`
	Players     []model.PlayerView `json:"players"`
}

// StartResponse is the ack for starting the game; the roster is scoped to
// the requester's role
type StartResponse struct {
	Status  model.RoomStatus   `json:"status"`
	Players []model.PlayerView `json:"players"`
}

// SacrificeResponse is the ack for spending a sacrifice
type SacrificeResponse struct {
	PlayerID            model.PlayerID     `json:"player_id"`
	PlayerName          string             `json:"player_name"`
	SacrificesRemaining int                `json:"sacrifices_remaining"`
	Operations          []model.Operation  `json:"operations"`
	Players             []model.PlayerView `json:"players"`
}

// GuessesResponse is the ack for a guess sheet update
type GuessesResponse struct {
	Changes []model.GuessChange `json:"changes"`
}

// ScoresResponse carries the final standings
type ScoresResponse struct {
	Scores []model.PlayerScore `json:"scores"`
}

// SelfView is the private slice of room state a reconnecting player gets
// back: their own hand, guess sheet, bet and submission flag
type SelfView struct {
	PlayerID   model.PlayerID           `json:"player_id"`
	Name       string                   `json:"name"`
	Operations []model.Operation        `json:"operations"`
	Guesses    map[model.PlayerID]*int  `json:"guesses"`
	Bet        model.PlayerID           `json:"bet,omitempty"`
	Submitted  bool                     `json:"submitted"`
}

// SnapshotResponse is the full room state returned on reconnect
type SnapshotResponse struct {
	Code                model.RoomCode     `json:"code"`
	Status              model.RoomStatus   `json:"status"`
	Players             []model.PlayerView `json:"players"`
	Moves               []model.Move       `json:"moves"`
	SacrificesRemaining int                `json:"sacrifices_remaining"`
	You                 *SelfView          `json:"you,omitempty"`
}

// AdminReconnectResponse carries the replacement admin token plus the
// admin-scoped snapshot
type AdminReconnectResponse struct {
	AdminToken model.ConnRef    `json:"admin_token"`
	Snapshot   SnapshotResponse `json:"snapshot"`
}

// SnapshotFromRoom builds the player-scoped snapshot. The roster is
// redacted; the player's own private state rides in You. Everything is
// copied out of the room: the snapshot is serialized after the room lock is
// released, so it must not share backing storage with live state.
func SnapshotFromRoom(room *model.Room, playerID model.PlayerID) SnapshotResponse {
	snap := SnapshotResponse{
		Code:                room.Code,
		Status:              room.Status,
		Players:             model.PublicRoster(room),
		Moves:               copyMoves(room.Moves),
		SacrificesRemaining: room.SacrificesRemaining,
	}
	if p := room.GetPlayer(playerID); p != nil {
		ops := make([]model.Operation, len(p.Operations))
		copy(ops, p.Operations)
		snap.You = &SelfView{
			PlayerID:   p.ID,
			Name:       p.Name,
			Operations: ops,
			Guesses:    copyGuesses(p.Guesses),
			Bet:        p.Bet,
			Submitted:  p.Submitted,
		}
	}
	return snap
}

// AdminSnapshotFromRoom builds the admin-scoped snapshot with secret
// numbers included
func AdminSnapshotFromRoom(room *model.Room) SnapshotResponse {
	return SnapshotResponse{
		Code:                room.Code,
		Status:              room.Status,
		Players:             model.AdminRoster(room),
		Moves:               copyMoves(room.Moves),
		SacrificesRemaining: room.SacrificesRemaining,
	}
}

func copyMoves(moves []model.Move) []model.Move {
	out := make([]model.Move, len(moves))
	copy(out, moves)
	return out
}

func copyGuesses(guesses map[model.PlayerID]*int) map[model.PlayerID]*int {
	out := make(map[model.PlayerID]*int, len(guesses))
	for id, v := range guesses {
		if v == nil {
			out[id] = nil
			continue
		}
		n := *v
		out[id] = &n
	}
	return out
}
