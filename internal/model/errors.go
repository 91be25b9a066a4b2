package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrNameTaken           = errors.New("name is already taken in this room")
	ErrInvalidName         = errors.New("invalid player name")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrAlreadyInRoom  = errors.New("connection is already in a room")
	ErrNotInRoom      = errors.New("connection is not in a room")

	// Authority and phase errors, expected from stale clients
	ErrNotAuthorized = errors.New("player is not allowed to perform this action")
	ErrInvalidPhase  = errors.New("action is not valid in the current phase")

	// Drawing errors
	ErrInvalidStroke = errors.New("invalid stroke")

	// Collaborator errors
	ErrClassifierUnavailable = errors.New("scribble classifier unavailable")
	ErrWordsNotLoaded        = errors.New("word corpus not loaded")
)

// IsUserFacing reports whether err should be reported back to the
// connection that triggered it. Everything else is dropped silently.
func IsUserFacing(err error) bool {
	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrNameTaken),
		errors.Is(err, ErrInsufficientPlayers),
		errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrAlreadyInRoom),
		errors.Is(err, ErrNotInRoom):
		return true
	}
	return false
}

// Error codes carried by operation-error events and API error bodies
const (
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRoomFull            = "ROOM_FULL"
	CodeNameTaken           = "NAME_TAKEN"
	CodeInvalidName         = "INVALID_NAME"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeAlreadyInRoom       = "ALREADY_IN_ROOM"
	CodeNotInRoom           = "NOT_IN_ROOM"
	CodeNotAuthorized       = "NOT_AUTHORIZED"
	CodeInvalidPhase        = "INVALID_PHASE"
	CodeInvalidStroke       = "INVALID_STROKE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Describe returns the stable code and player-readable message for err.
// Unknown errors describe as an internal error.
func Describe(err error) (code, message string) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return CodeRoomNotFound, "Room not found"
	case errors.Is(err, ErrRoomFull):
		return CodeRoomFull, "Room is full"
	case errors.Is(err, ErrNameTaken):
		return CodeNameTaken, "That name is already taken in this room"
	case errors.Is(err, ErrInvalidName):
		return CodeInvalidName, "Name is empty or too long"
	case errors.Is(err, ErrInsufficientPlayers):
		return CodeInsufficientPlayers, "At least 2 players are needed to play"
	case errors.Is(err, ErrPlayerNotFound):
		return CodePlayerNotFound, "Player not found"
	case errors.Is(err, ErrAlreadyInRoom):
		return CodeAlreadyInRoom, "Already in a room"
	case errors.Is(err, ErrNotInRoom):
		return CodeNotInRoom, "Join a room first"
	case errors.Is(err, ErrNotAuthorized):
		return CodeNotAuthorized, "Not allowed"
	case errors.Is(err, ErrInvalidPhase):
		return CodeInvalidPhase, "Not allowed right now"
	case errors.Is(err, ErrInvalidStroke):
		return CodeInvalidStroke, "Invalid stroke"
	default:
		return CodeInternalError, "Internal server error"
	}
}

// OperationError builds the payload of an operation-error event
func OperationError(err error) OperationErrorPayload {
	code, message := Describe(err)
	return OperationErrorPayload{Code: code, Message: message}
}
