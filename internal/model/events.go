package model

// EventType identifies a broadcast event pushed to room members
type EventType string

const (
	// Roster events
	EventPlayerJoined       EventType = "player-joined"
	EventPlayerDisconnected EventType = "player-disconnected"
	EventPlayerReconnected  EventType = "player-reconnected"

	// Game events
	EventGameStarted     EventType = "game-started"
	EventOperationResult EventType = "operation-result"
	EventPlayerSubmitted EventType = "player-submitted"
	EventBetPlaced       EventType = "bet-placed"
	EventSacrificeUsed   EventType = "sacrifice-used"
	EventGuessChanged    EventType = "guess-changed"
	EventResults         EventType = "results"

	// Room lifecycle
	EventRoomClosed EventType = "room-closed"
)

// PlayerView is the roster entry broadcast to room members. SecretNumber is
// only populated in the admin-scoped variant.
type PlayerView struct {
	ID            PlayerID    `json:"id"`
	Name          string      `json:"name"`
	SecretNumber  *int        `json:"secret_number,omitempty"`
	Operations    []Operation `json:"available_operations"`
	SacrificeUses int         `json:"sacrifice_uses"`
	HasBet        bool        `json:"has_bet"`
	Submitted     bool        `json:"submitted"`
	Connected     bool        `json:"connected"`
}

// PublicPlayerView builds the view sent to non-admin participants
func PublicPlayerView(p *Player) PlayerView {
	ops := make([]Operation, len(p.Operations))
	copy(ops, p.Operations)
	return PlayerView{
		ID:            p.ID,
		Name:          p.Name,
		Operations:    ops,
		SacrificeUses: p.SacrificeUses,
		HasBet:        p.HasBet(),
		Submitted:     p.Submitted,
		Connected:     p.Connected,
	}
}

// AdminPlayerView builds the view sent to the room admin, which includes
// the player's secret number
func AdminPlayerView(p *Player) PlayerView {
	v := PublicPlayerView(p)
	secret := p.SecretNumber
	v.SecretNumber = &secret
	return v
}

// PublicRoster returns public views for all players in join order
func PublicRoster(r *Room) []PlayerView {
	views := make([]PlayerView, len(r.Players))
	for i, p := range r.Players {
		views[i] = PublicPlayerView(p)
	}
	return views
}

// AdminRoster returns admin views for all players in join order
func AdminRoster(r *Room) []PlayerView {
	views := make([]PlayerView, len(r.Players))
	for i, p := range r.Players {
		views[i] = AdminPlayerView(p)
	}
	return views
}

// GuessChange is the metadata-only notice broadcast when a guess flips
// between set and blank. It names the guesser and the target, never the
// guessed value.
type GuessChange struct {
	PlayerID PlayerID `json:"player_id"`
	TargetID PlayerID `json:"target_id"`
	Set      bool     `json:"set"`
}
