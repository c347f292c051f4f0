package services

import (
	"errors"

	"gameroom-backend/internal/catalog"
)

// Rejections surfaced to callers. All of these are recoverable: a rejected
// operation leaves room and session state untouched. Handlers translate them
// with errors.Is so clients can tell "not found" from "not allowed" from
// "not yet".
var (
	// Not found.
	ErrRoomNotFound = errors.New("room not found")
	ErrUserNotFound = errors.New("user not found")
	ErrNotMember    = errors.New("not a member of this room")

	// Conflicts.
	ErrAlreadyMember    = errors.New("already a member of this room")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrAlreadyAnswered  = errors.New("answer already submitted for this question")
	ErrAlreadyCompleted = errors.New("completion already recorded")

	// Forbidden.
	ErrForbidden = errors.New("only the host can do that")

	// Invalid state.
	ErrInvalidState        = errors.New("action not valid in current state")
	ErrInsufficientPlayers = errors.New("at least 2 players required")
	ErrNotAllReady         = errors.New("not all players are ready")

	// Unavailable.
	ErrNoQuestions = errors.New("no questions available for this game")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNotMember) ||
		errors.Is(err, catalog.ErrGameNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrRoomFull) ||
		errors.Is(err, ErrAlreadyStarted) ||
		errors.Is(err, ErrAlreadyAnswered) ||
		errors.Is(err, ErrAlreadyCompleted)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInsufficientPlayers) ||
		errors.Is(err, ErrNotAllReady)
}
