package model

import (
	"strings"
	"time"
)

// RoomCode is a human-readable identifier for joining rooms
type RoomCode string

// ConnRef identifies a transport connection bound to a room role
type ConnRef string

// RoomStatus represents the current phase of a room's game session
type RoomStatus string

const (
	RoomStatusLobby    RoomStatus = "lobby"    // Accepting joins, no secrets assigned
	RoomStatusPlaying  RoomStatus = "playing"  // Secrets assigned, operations/guesses/bets active
	RoomStatusFinished RoomStatus = "finished" // Scores computed, read-only until expiry
)

// NumberRange is the inclusive bounds for secret number assignment
type NumberRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Room represents one game session
type Room struct {
	Code                RoomCode
	Status              RoomStatus
	AdminConn           ConnRef
	Players             []*Player // slice preserves join order
	Moves               []Move    // append-only
	NumberRange         NumberRange
	SacrificesRemaining int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// GetPlayer returns the player with the given ID, or nil if not found
func (r *Room) GetPlayer(id PlayerID) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByName returns the player with the given name, compared
// case-insensitively, or nil if not found
func (r *Room) PlayerByName(name string) *Player {
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// PlayerIDs returns all player IDs in join order
func (r *Room) PlayerIDs() []PlayerID {
	ids := make([]PlayerID, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID
	}
	return ids
}
