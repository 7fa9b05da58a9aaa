package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/numberparty/numberparty/internal/dependencies/clock"
	"github.com/numberparty/numberparty/internal/dependencies/random"
	"github.com/numberparty/numberparty/internal/model"
	"github.com/numberparty/numberparty/internal/services/ops"
	"github.com/numberparty/numberparty/internal/services/registry"
	"github.com/numberparty/numberparty/internal/services/scoring"
)

// Config holds engine behavior settings
type Config struct {
	MaxPlayers int
}

// Engine orchestrates state transitions within a room: joining, secret
// number assignment, operation execution, the sacrifice economy, bets,
// submissions and end-of-round scoring.
//
// Every mutation runs inside the registry's per-room serialization, so a
// command either completes fully or leaves the room untouched.
type Engine struct {
	registry *registry.Registry
	scoring  *scoring.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config
}

// New creates a new Engine
func New(
	reg *registry.Registry,
	scoringService *scoring.Service,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		registry: reg,
		scoring:  scoringService,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "engine")),
		cfg:      cfg,
	}
}

// JoinResult is returned to the join handler for its ack and broadcast
type JoinResult struct {
	PlayerID model.PlayerID
	Player   model.PlayerView
	Roster   []model.PlayerView
}

// Join adds a named player to a lobby room and binds its connection
func (e *Engine) Join(ctx context.Context, code model.RoomCode, name string, conn model.ConnRef) (*JoinResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}

	var result JoinResult
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.Status != model.RoomStatusLobby {
			return model.ErrRoomNotInLobby
		}
		if len(room.Players) >= e.cfg.MaxPlayers {
			return model.ErrRoomFull
		}
		if room.PlayerByName(name) != nil {
			return model.ErrDuplicateName
		}

		player := &model.Player{
			ID:         model.PlayerID(uuid.NewString()),
			Name:       name,
			Conn:       conn,
			Operations: model.AllOperations(),
			Guesses:    map[model.PlayerID]*int{},
			Connected:  true,
		}
		room.Players = append(room.Players, player)

		result.PlayerID = player.ID
		result.Player = model.PublicPlayerView(player)
		result.Roster = model.PublicRoster(room)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.registry.BindPlayer(conn, code, result.PlayerID)

	e.logger.Info("player joined",
		slog.String("code", string(code)),
		slog.String("player_id", string(result.PlayerID)),
		slog.String("name", name))

	return &result, nil
}

// StartResult carries the two role-differentiated views of the started game
type StartResult struct {
	PublicPlayers []model.PlayerView
	AdminPlayers  []model.PlayerView
}

// StartGame moves a lobby room into playing, assigning every player an
// independent uniform secret number within the room's range
func (e *Engine) StartGame(ctx context.Context, code model.RoomCode, adminConn model.ConnRef) (*StartResult, error) {
	var result StartResult
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.AdminConn != adminConn {
			return model.ErrNotRoomAdmin
		}
		if room.Status != model.RoomStatusLobby {
			return model.ErrRoomNotInLobby
		}
		if len(room.Players) < 2 {
			return model.ErrInsufficientPlayers
		}

		for _, p := range room.Players {
			p.SecretNumber = e.random.IntBetween(room.NumberRange.Min, room.NumberRange.Max)
		}
		room.Status = model.RoomStatusPlaying

		result.PublicPlayers = model.PublicRoster(room)
		result.AdminPlayers = model.AdminRoster(room)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("game started", slog.String("code", string(code)))
	return &result, nil
}

// ExecuteOperation resolves one reveal-card operation between two distinct
// players, consumes a matching card from each, and appends the Move
func (e *Engine) ExecuteOperation(ctx context.Context, code model.RoomCode, adminConn model.ConnRef, aID, bID model.PlayerID, op model.Operation) (*model.Move, error) {
	if !model.ValidOperation(op) {
		return nil, model.ErrInvalidOperation
	}
	if aID == bID {
		return nil, model.ErrSamePlayer
	}

	var move model.Move
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.AdminConn != adminConn {
			return model.ErrNotRoomAdmin
		}
		if room.Status != model.RoomStatusPlaying {
			return model.ErrGameNotStarted
		}

		playerA := room.GetPlayer(aID)
		playerB := room.GetPlayer(bID)
		if playerA == nil || playerB == nil {
			return model.ErrPlayerNotFound
		}
		if !playerA.HoldsOperation(op) || !playerB.HoldsOperation(op) {
			return model.ErrCardUnavailable
		}

		// Resolve before consuming: a rejected operation must not cost cards
		result, err := ops.Resolve(op, playerA.SecretNumber, playerB.SecretNumber)
		if err != nil {
			return err
		}

		playerA.ConsumeOperation(op)
		playerB.ConsumeOperation(op)

		move = model.Move{
			ID:          model.MoveID(uuid.NewString()),
			PlayerAID:   playerA.ID,
			PlayerAName: playerA.Name,
			PlayerBID:   playerB.ID,
			PlayerBName: playerB.Name,
			Op:          op,
			Result:      result.Display(),
			Timestamp:   e.clock.Now(),
		}
		room.Moves = append(room.Moves, move)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("operation executed",
		slog.String("code", string(code)),
		slog.String("operation", string(op)),
		slog.String("result", move.Result))

	return &move, nil
}

// SacrificeResult is the broadcast payload for a spent sacrifice
type SacrificeResult struct {
	PlayerID            model.PlayerID
	PlayerName          string
	SacrificesRemaining int
	Operations          []model.Operation
	Roster              []model.PlayerView
}

// Sacrifice spends one unit of the room-wide budget to grant the target
// player a full fresh card set, at a scoring penalty recorded against them
func (e *Engine) Sacrifice(ctx context.Context, code model.RoomCode, adminConn model.ConnRef, playerID model.PlayerID) (*SacrificeResult, error) {
	var result SacrificeResult
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.AdminConn != adminConn {
			return model.ErrNotRoomAdmin
		}
		if room.Status != model.RoomStatusPlaying {
			return model.ErrGameNotStarted
		}
		if room.SacrificesRemaining <= 0 {
			return model.ErrNoSacrificesLeft
		}

		player := room.GetPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}

		room.SacrificesRemaining--
		player.SacrificeUses++
		player.GrantFreshSet()

		result = SacrificeResult{
			PlayerID:            player.ID,
			PlayerName:          player.Name,
			SacrificesRemaining: room.SacrificesRemaining,
			Operations:          append([]model.Operation(nil), player.Operations...),
			Roster:              model.PublicRoster(room),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("sacrifice used",
		slog.String("code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Int("remaining", result.SacrificesRemaining))

	return &result, nil
}

// UpdateGuesses stores the player's guess mapping verbatim (last writer
// wins) and returns metadata-only notices for guesses that flipped between
// set and blank
func (e *Engine) UpdateGuesses(ctx context.Context, code model.RoomCode, playerID model.PlayerID, conn model.ConnRef, guesses map[model.PlayerID]*int) ([]model.GuessChange, error) {
	var changes []model.GuessChange
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.Status != model.RoomStatusPlaying {
			return model.ErrGameNotStarted
		}

		player := room.GetPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		if player.Conn != conn {
			return model.ErrNotPlayerConn
		}

		if guesses == nil {
			guesses = map[model.PlayerID]*int{}
		}

		// Activity signal only: which targets flipped, never the values
		for _, target := range room.Players {
			was := player.Guesses[target.ID] != nil
			now := guesses[target.ID] != nil
			if was != now {
				changes = append(changes, model.GuessChange{
					PlayerID: playerID,
					TargetID: target.ID,
					Set:      now,
				})
			}
		}

		player.Guesses = guesses
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// PlaceBet records the player's one immutable prediction of who finishes
// last; target is a player ID or the explicit decline sentinel. Returns the
// bettor's name for the broadcast.
func (e *Engine) PlaceBet(ctx context.Context, code model.RoomCode, playerID model.PlayerID, conn model.ConnRef, target model.PlayerID) (string, error) {
	var name string
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.Status != model.RoomStatusPlaying {
			return model.ErrGameNotStarted
		}

		player := room.GetPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		if player.Conn != conn {
			return model.ErrNotPlayerConn
		}
		if player.HasBet() {
			return model.ErrAlreadyBet
		}
		if target != model.BetDecline && room.GetPlayer(target) == nil {
			return model.ErrInvalidBetTarget
		}

		player.Bet = target
		name = player.Name
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// SubmitAnswers flips the player's one-way submitted flag and returns the
// submitter's name for the broadcast
func (e *Engine) SubmitAnswers(ctx context.Context, code model.RoomCode, playerID model.PlayerID, conn model.ConnRef) (string, error) {
	var name string
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.Status != model.RoomStatusPlaying {
			return model.ErrGameNotStarted
		}

		player := room.GetPlayer(playerID)
		if player == nil {
			return model.ErrPlayerNotFound
		}
		if player.Conn != conn {
			return model.ErrNotPlayerConn
		}
		if player.Submitted {
			return model.ErrAlreadySubmitted
		}

		player.Submitted = true
		name = player.Name
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// EndGame moves a playing room to finished and computes the final scores.
// The transition is irreversible.
func (e *Engine) EndGame(ctx context.Context, code model.RoomCode, adminConn model.ConnRef) ([]model.PlayerScore, error) {
	var scores []model.PlayerScore
	err := e.registry.WithRoom(ctx, code, func(room *model.Room) error {
		if room.AdminConn != adminConn {
			return model.ErrNotRoomAdmin
		}
		if room.Status != model.RoomStatusPlaying {
			return model.ErrGameNotStarted
		}

		room.Status = model.RoomStatusFinished
		scores = e.scoring.Score(room)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("game ended", slog.String("code", string(code)))
	return scores, nil
}
