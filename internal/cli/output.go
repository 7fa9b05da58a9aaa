package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case JoinResult:
		o.printJoinResult(v)
	case StartResult:
		o.printStartResult(v)
	case Move:
		o.printMove(v)
	case SacrificeResult:
		o.printSacrificeResult(v)
	case GuessesResult:
		o.printGuessesResult(v)
	case ScoresResult:
		o.printScoresResult(v)
	case Snapshot:
		o.printSnapshot(v)
	case AdminReconnectResult:
		o.printAdminReconnectResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// PlayerView response type (matches API)
type PlayerView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SecretNumber  *int     `json:"secret_number,omitempty"`
	Operations    []string `json:"available_operations"`
	SacrificeUses int      `json:"sacrifice_uses"`
	HasBet        bool     `json:"has_bet"`
	Submitted     bool     `json:"submitted"`
	Connected     bool     `json:"connected"`
}

// NumberRange response type
type NumberRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Room response type
type Room struct {
	Code                string       `json:"code"`
	Status              string       `json:"status"`
	AdminToken          string       `json:"admin_token"`
	NumberRange         NumberRange  `json:"number_range"`
	SacrificesRemaining int          `json:"sacrifices_remaining"`
	Players             []PlayerView `json:"players"`
}

// JoinResult response type
type JoinResult struct {
	PlayerID    string       `json:"player_id"`
	PlayerToken string       `json:"player_token"`
	Players     []PlayerView `json:"players"`
}

// StartResult response type
type StartResult struct {
	Status  string       `json:"status"`
	Players []PlayerView `json:"players"`
}

// Move response type
type Move struct {
	ID          string    `json:"id"`
	PlayerAID   string    `json:"player_a_id"`
	PlayerAName string    `json:"player_a_name"`
	PlayerBID   string    `json:"player_b_id"`
	PlayerBName string    `json:"player_b_name"`
	Operation   string    `json:"operation"`
	Result      string    `json:"result"`
	Timestamp   time.Time `json:"timestamp"`
}

// SacrificeResult response type
type SacrificeResult struct {
	PlayerID            string       `json:"player_id"`
	PlayerName          string       `json:"player_name"`
	SacrificesRemaining int          `json:"sacrifices_remaining"`
	Operations          []string     `json:"operations"`
	Players             []PlayerView `json:"players"`
}

// GuessChange response type
type GuessChange struct {
	PlayerID string `json:"player_id"`
	TargetID string `json:"target_id"`
	Set      bool   `json:"set"`
}

// GuessesResult response type
type GuessesResult struct {
	Changes []GuessChange `json:"changes"`
}

// PlayerScore response type
type PlayerScore struct {
	PlayerID         string `json:"player_id"`
	PlayerName       string `json:"player_name"`
	SecretNumber     int    `json:"secret_number"`
	SelfCorrect      bool   `json:"self_correct"`
	SelfPoints       int    `json:"self_points"`
	OthersCorrect    int    `json:"others_correct"`
	OthersIncorrect  int    `json:"others_incorrect"`
	OthersBlank      int    `json:"others_blank"`
	OthersPoints     int    `json:"others_points"`
	GuessedByOthers  int    `json:"guessed_by_others"`
	GuessedByPenalty int    `json:"guessed_by_penalty"`
	BetTargetName    string `json:"bet_target_name,omitempty"`
	BetCorrect       *bool  `json:"bet_correct,omitempty"`
	BetPoints        int    `json:"bet_points"`
	SacrificePenalty int    `json:"sacrifice_penalty"`
	Score            int    `json:"score"`
}

// ScoresResult response type
type ScoresResult struct {
	Scores []PlayerScore `json:"scores"`
}

// SelfView response type
type SelfView struct {
	PlayerID   string          `json:"player_id"`
	Name       string          `json:"name"`
	Operations []string        `json:"operations"`
	Guesses    map[string]*int `json:"guesses"`
	Bet        string          `json:"bet,omitempty"`
	Submitted  bool            `json:"submitted"`
}

// Snapshot response type
type Snapshot struct {
	Code                string       `json:"code"`
	Status              string       `json:"status"`
	Players             []PlayerView `json:"players"`
	Moves               []Move       `json:"moves"`
	SacrificesRemaining int          `json:"sacrifices_remaining"`
	You                 *SelfView    `json:"you,omitempty"`
}

// AdminReconnectResult response type
type AdminReconnectResult struct {
	AdminToken string   `json:"admin_token"`
	Snapshot   Snapshot `json:"snapshot"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Range: %d-%d\n", r.NumberRange.Min, r.NumberRange.Max)
	fmt.Printf("Sacrifices Remaining: %d\n", r.SacrificesRemaining)
	fmt.Printf("Admin Token: %s\n", r.AdminToken)
	o.printRoster(r.Players)
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined as: %s\n", j.PlayerID)
	fmt.Printf("Token: %s\n", j.PlayerToken)
	o.printRoster(j.Players)
}

func (o *Output) printStartResult(s StartResult) {
	fmt.Printf("Status: %s\n", s.Status)
	o.printRoster(s.Players)
}

func (o *Output) printRoster(players []PlayerView) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		flags := []string{}
		if p.SecretNumber != nil {
			flags = append(flags, fmt.Sprintf("secret=%d", *p.SecretNumber))
		}
		if p.HasBet {
			flags = append(flags, "bet")
		}
		if p.Submitted {
			flags = append(flags, "submitted")
		}
		if !p.Connected {
			flags = append(flags, "disconnected")
		}
		flagStr := ""
		if len(flags) > 0 {
			flagStr = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s) cards: %s%s\n", p.Name, p.ID, formatCards(p.Operations), flagStr)
	}
}

func formatCards(ops []string) string {
	if len(ops) == 0 {
		return "none"
	}
	return strings.Join(ops, " ")
}

func (o *Output) printMove(m Move) {
	fmt.Printf("%s %s %s = %s\n", m.PlayerAName, m.Operation, m.PlayerBName, m.Result)
}

func (o *Output) printSacrificeResult(s SacrificeResult) {
	fmt.Printf("%s sacrificed; cards restored: %s\n", s.PlayerName, formatCards(s.Operations))
	fmt.Printf("Sacrifices Remaining: %d\n", s.SacrificesRemaining)
}

func (o *Output) printGuessesResult(g GuessesResult) {
	if len(g.Changes) == 0 {
		fmt.Println("Guesses updated")
		return
	}
	for _, c := range g.Changes {
		if c.Set {
			fmt.Printf("Guess set for %s\n", c.TargetID)
		} else {
			fmt.Printf("Guess cleared for %s\n", c.TargetID)
		}
	}
}

func (o *Output) printScoresResult(s ScoresResult) {
	fmt.Println("Final Scores:")
	for i, sc := range s.Scores {
		fmt.Printf("%d. %s: %d points (secret was %d)\n", i+1, sc.PlayerName, sc.Score, sc.SecretNumber)
		fmt.Printf("   self: %+d, others: %+d (%d right, %d wrong, %d blank)\n",
			sc.SelfPoints, sc.OthersPoints, sc.OthersCorrect, sc.OthersIncorrect, sc.OthersBlank)
		if sc.GuessedByOthers > 0 {
			fmt.Printf("   guessed by %d others: %+d\n", sc.GuessedByOthers, sc.GuessedByPenalty)
		}
		if sc.BetCorrect != nil {
			outcome := "lost"
			if *sc.BetCorrect {
				outcome = "won"
			}
			fmt.Printf("   bet on %s: %s (%+d)\n", sc.BetTargetName, outcome, sc.BetPoints)
		}
		if sc.SacrificePenalty != 0 {
			fmt.Printf("   sacrifices: %+d\n", sc.SacrificePenalty)
		}
	}
}

func (o *Output) printSnapshot(s Snapshot) {
	fmt.Printf("Room: %s\n", s.Code)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Sacrifices Remaining: %d\n", s.SacrificesRemaining)
	o.printRoster(s.Players)

	if len(s.Moves) > 0 {
		fmt.Printf("Moves (%d):\n", len(s.Moves))
		for _, m := range s.Moves {
			fmt.Printf("  %s %s %s = %s\n", m.PlayerAName, m.Operation, m.PlayerBName, m.Result)
		}
	}

	if s.You != nil {
		fmt.Printf("\nYou: %s (%s)\n", s.You.Name, s.You.PlayerID)
		fmt.Printf("Cards: %s\n", formatCards(s.You.Operations))
		if len(s.You.Guesses) > 0 {
			fmt.Println("Guesses:")
			for target, guess := range s.You.Guesses {
				if guess != nil {
					fmt.Printf("  %s: %d\n", target, *guess)
				}
			}
		}
		if s.You.Bet != "" {
			fmt.Printf("Bet: %s\n", s.You.Bet)
		}
		if s.You.Submitted {
			fmt.Println("Answers submitted")
		}
	}
}

func (o *Output) printAdminReconnectResult(a AdminReconnectResult) {
	fmt.Printf("New Admin Token: %s\n", a.AdminToken)
	o.printSnapshot(a.Snapshot)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
