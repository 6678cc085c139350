package core

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the root of every move rejection. Callers that only care
// whether a move was legal can test for it with errors.Is.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrGameOver      = fmt.Errorf("%w: game already won", ErrInvalidMove)
	ErrInvalidPile   = fmt.Errorf("%w: invalid pile", ErrInvalidMove)
	ErrInvalidCount  = fmt.Errorf("%w: invalid number of objects", ErrInvalidMove)
	ErrInvalidPlayer = errors.New("invalid player ID")
	ErrNegativePile  = errors.New("pile count must be non-negative")
)

// WrapActionError adds the acting player and the move to err.
func WrapActionError(playerID int, action Action, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d: take %d from pile %d: %w", playerID, action.Count, action.Pile, err)
}

// GameError carries the turn and player an operation failed on.
type GameError struct {
	Turn      int
	PlayerID  int
	Operation string
	Err       error
}

// NewGameError creates a GameError. A negative playerID omits the player.
func NewGameError(turn, playerID int, operation string, err error) *GameError {
	return &GameError{
		Turn:      turn,
		PlayerID:  playerID,
		Operation: operation,
		Err:       err,
	}
}

func (e *GameError) Error() string {
	if e.PlayerID < 0 {
		return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Operation, e.Err)
	}
	return fmt.Sprintf("turn %d: player %d %s: %v", e.Turn, e.PlayerID, e.Operation, e.Err)
}

func (e *GameError) Unwrap() error { return e.Err }
