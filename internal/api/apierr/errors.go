package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/numberparty/numberparty/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotRoomAdmin        = "NOT_ROOM_ADMIN"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRoomFull            = "ROOM_FULL"
	CodeRoomNotInLobby      = "ROOM_NOT_IN_LOBBY"
	CodeGameNotStarted      = "GAME_NOT_STARTED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeDuplicateName       = "DUPLICATE_NAME"
	CodeEmptyName           = "EMPTY_NAME"
	CodeSamePlayer          = "SAME_PLAYER"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInvalidOperation    = "INVALID_OPERATION"
	CodeCardUnavailable     = "CARD_UNAVAILABLE"
	CodeDivisionByZero      = "DIVISION_BY_ZERO"
	CodeNoSacrificesLeft    = "NO_SACRIFICES_LEFT"
	CodeAlreadySubmitted    = "ALREADY_SUBMITTED"
	CodeAlreadyBet          = "ALREADY_BET"
	CodeInvalidBetTarget    = "INVALID_BET_TARGET"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Credential failures deliberately share one vague message
	case errors.Is(err, model.ErrInvalidAdminKey):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
	case errors.Is(err, model.ErrNotPlayerConn):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
	case errors.Is(err, model.ErrNotRoomAdmin):
		return &httpError{http.StatusForbidden, APIError{CodeNotRoomAdmin, "Only the room admin can perform this action"}}

	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrRoomNotInLobby):
		return &httpError{http.StatusConflict, APIError{CodeRoomNotInLobby, "Game has already started"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game is not in progress"}}
	case errors.Is(err, model.ErrDuplicateName):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateName, "Name is already taken in this room"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrCardUnavailable):
		return &httpError{http.StatusConflict, APIError{CodeCardUnavailable, "Both players must hold that operation card"}}
	case errors.Is(err, model.ErrNoSacrificesLeft):
		return &httpError{http.StatusConflict, APIError{CodeNoSacrificesLeft, "The room's sacrifice budget is exhausted"}}
	case errors.Is(err, model.ErrAlreadySubmitted):
		return &httpError{http.StatusConflict, APIError{CodeAlreadySubmitted, "Answers already submitted"}}
	case errors.Is(err, model.ErrAlreadyBet):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyBet, "Bet already placed"}}

	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyName, "Name must not be empty"}}
	case errors.Is(err, model.ErrSamePlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeSamePlayer, "Operation requires two distinct players"}}
	case errors.Is(err, model.ErrInvalidOperation):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidOperation, "Unknown operation"}}
	case errors.Is(err, model.ErrDivisionByZero):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeDivisionByZero, "Cannot divide when a secret number is zero"}}
	case errors.Is(err, model.ErrInvalidBetTarget):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBetTarget, "Bet target is not in this room"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
