package experience

import (
	"time"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// Transition is one learning step as seen by the player that acted: the
// position it moved from, the move, the position that followed and the
// reward credited for it.
type Transition struct {
	ID          string
	GameID      string
	Episode     int
	PlayerID    int
	State       core.Piles
	Action      core.Action
	NextState   core.Piles
	Reward      float64
	Done        bool
	CollectedAt time.Time
}

// NewTransition snapshots the given positions and assigns a fresh ID
func NewTransition(gameID string, episode, playerID int, state core.Piles, action core.Action, next core.Piles, reward float64, done bool) Transition {
	return Transition{
		ID:          uuid.NewString(),
		GameID:      gameID,
		Episode:     episode,
		PlayerID:    playerID,
		State:       state.Clone(),
		Action:      action,
		NextState:   next.Clone(),
		Reward:      reward,
		Done:        done,
		CollectedAt: time.Now(),
	}
}

// Sink receives transitions as training produces them
type Sink interface {
	Add(Transition) error
}
