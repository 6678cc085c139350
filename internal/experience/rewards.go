package experience

import (
	"errors"
	"fmt"
)

// ErrInvalidRewards is returned when a RewardConfig does not rank a win
// above a loss.
var ErrInvalidRewards = errors.New("win reward must exceed lose reward")

// RewardConfig holds the reward values credited during self-play.
//
// Taking the last object loses: the player who empties the board is paid
// Lose and the player who moved before it is paid Win. Every other update
// is paid Step.
type RewardConfig struct {
	Win  float64
	Lose float64
	Step float64
}

// DefaultRewardConfig returns +1 / -1 / 0
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		Win:  1.0,
		Lose: -1.0,
		Step: 0.0,
	}
}

func (c RewardConfig) Validate() error {
	if c.Win <= c.Lose {
		return fmt.Errorf("%w: win=%v lose=%v", ErrInvalidRewards, c.Win, c.Lose)
	}
	return nil
}

// Terminal returns the rewards for the final move of a game: first for the
// player who took the last object, then for the player who moved before.
func (c RewardConfig) Terminal() (mover, previous float64) {
	return c.Lose, c.Win
}
