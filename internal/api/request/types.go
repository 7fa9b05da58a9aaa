package request

// CreateRoomRequest is the request body for creating a room. Omitted range
// bounds fall back to the server defaults.
type CreateRoomRequest struct {
	RangeMin *int `json:"range_min,omitempty"`
	RangeMax *int `json:"range_max,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Name string `json:"name"`
}

// OperationRequest is the request body for executing a reveal-card operation
type OperationRequest struct {
	PlayerAID string `json:"player_a_id"`
	PlayerBID string `json:"player_b_id"`
	Operation string `json:"operation"`
}

// SacrificeRequest is the request body for spending a sacrifice
type SacrificeRequest struct {
	PlayerID string `json:"player_id"`
}

// GuessesRequest is the request body for replacing a player's guess sheet.
// Keys are player IDs; a null value clears that guess.
type GuessesRequest struct {
	Guesses map[string]*int `json:"guesses"`
}

// BetRequest is the request body for placing a bet. Target is a player ID
// or "decline".
type BetRequest struct {
	Target string `json:"target"`
}
