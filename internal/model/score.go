package model

// PlayerScore is the derived, read-only scoring summary for one player,
// produced at round end. Not persisted beyond the room's lifetime.
type PlayerScore struct {
	PlayerID     PlayerID `json:"player_id"`
	PlayerName   string   `json:"player_name"`
	SecretNumber int      `json:"secret_number"`

	// Self guess
	SelfCorrect bool `json:"self_correct"`
	SelfPoints  int  `json:"self_points"`

	// Guesses about other players
	OthersCorrect   int `json:"others_correct"`
	OthersIncorrect int `json:"others_incorrect"`
	OthersBlank     int `json:"others_blank"`
	OthersPoints    int `json:"others_points"`

	// Other players who correctly guessed this player's number
	GuessedByOthers  int `json:"guessed_by_others"`
	GuessedByPenalty int `json:"guessed_by_penalty"`

	// Bet resolution. BetCorrect is nil when no effective bet was placed
	// (no bet, or an explicit decline).
	BetTargetName string `json:"bet_target_name,omitempty"`
	BetCorrect    *bool  `json:"bet_correct,omitempty"`
	BetPoints     int    `json:"bet_points"`

	SacrificePenalty int `json:"sacrifice_penalty"`

	Score int `json:"score"`
}
