package model

import "errors"

// Common errors used across the application
var (
	// Authorization errors
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrNotRoomAdmin    = errors.New("caller is not the room admin")
	ErrNotPlayerConn   = errors.New("caller is not this player's connection")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrRoomNotInLobby = errors.New("room is not in lobby")
	ErrGameNotStarted = errors.New("game is not in progress")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrDuplicateName  = errors.New("name already in use")
	ErrEmptyName      = errors.New("name is required")
	ErrSamePlayer     = errors.New("cannot pair a player with themselves")

	// Game errors
	ErrInsufficientPlayers = errors.New("at least 2 players required")
	ErrInvalidOperation    = errors.New("unknown operation kind")
	ErrCardUnavailable     = errors.New("operation card not available for this pair")
	ErrDivisionByZero      = errors.New("ratio is undefined when the smaller number is zero")
	ErrNoSacrificesLeft    = errors.New("no sacrifices remaining")
	ErrAlreadySubmitted    = errors.New("answers already submitted")
	ErrAlreadyBet          = errors.New("bet already placed")
	ErrInvalidBetTarget    = errors.New("bet target is not a player in this room")
)
