package events

import (
	"time"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted      = "game.started"
	TypeGameEnded        = "game.ended"
	TypeMoveExecuted     = "move.executed"
	TypeMoveRejected     = "move.rejected"
	TypeEpisodeCompleted = "training.episode_completed"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	Piles          core.Piles `json:"piles"`
	StartingPlayer int        `json:"starting_player"`
}

func NewGameStartedEvent(gameID string, piles core.Piles, startingPlayer int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:      newBaseEvent(TypeGameStarted, gameID),
		Piles:          piles.Clone(),
		StartingPlayer: startingPlayer,
	}
}

// MoveExecutedEvent is published after a move has been applied
type MoveExecutedEvent struct {
	BaseEvent
	Turn     int         `json:"turn"`
	PlayerID int         `json:"player_id"`
	Action   core.Action `json:"action"`
	Before   core.Piles  `json:"before"`
	After    core.Piles  `json:"after"`
}

func NewMoveExecutedEvent(gameID string, turn, playerID int, action core.Action, before, after core.Piles) *MoveExecutedEvent {
	return &MoveExecutedEvent{
		BaseEvent: newBaseEvent(TypeMoveExecuted, gameID),
		Turn:      turn,
		PlayerID:  playerID,
		Action:    action,
		Before:    before.Clone(),
		After:     after.Clone(),
	}
}

// MoveRejectedEvent is published when the engine refuses a move
type MoveRejectedEvent struct {
	BaseEvent
	Turn     int         `json:"turn"`
	PlayerID int         `json:"player_id"`
	Action   core.Action `json:"action"`
	Reason   string      `json:"reason"`
}

func NewMoveRejectedEvent(gameID string, turn, playerID int, action core.Action, reason error) *MoveRejectedEvent {
	return &MoveRejectedEvent{
		BaseEvent: newBaseEvent(TypeMoveRejected, gameID),
		Turn:      turn,
		PlayerID:  playerID,
		Action:    action,
		Reason:    reason.Error(),
	}
}

// GameEndedEvent is published when the last object is taken
type GameEndedEvent struct {
	BaseEvent
	Winner    int           `json:"winner"`
	FinalTurn int           `json:"final_turn"`
	Duration  time.Duration `json:"duration"`
}

func NewGameEndedEvent(gameID string, winner, finalTurn int, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBaseEvent(TypeGameEnded, gameID),
		Winner:    winner,
		FinalTurn: finalTurn,
		Duration:  duration,
	}
}

// EpisodeCompletedEvent is published by the trainer after each self-play game
type EpisodeCompletedEvent struct {
	BaseEvent
	Episode   int `json:"episode"`
	Winner    int `json:"winner"`
	Moves     int `json:"moves"`
	TableSize int `json:"table_size"`
}

func NewEpisodeCompletedEvent(gameID string, episode, winner, moves, tableSize int) *EpisodeCompletedEvent {
	return &EpisodeCompletedEvent{
		BaseEvent: newBaseEvent(TypeEpisodeCompleted, gameID),
		Episode:   episode,
		Winner:    winner,
		Moves:     moves,
		TableSize: tableSize,
	}
}
