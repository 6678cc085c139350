package experience

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRewardConfig(t *testing.T) {
	c := DefaultRewardConfig()
	assert.Equal(t, 1.0, c.Win)
	assert.Equal(t, -1.0, c.Lose)
	assert.Equal(t, 0.0, c.Step)
	assert.NoError(t, c.Validate())
}

func TestRewardConfigTerminal(t *testing.T) {
	mover, previous := DefaultRewardConfig().Terminal()
	assert.Equal(t, -1.0, mover, "taking the last object is penalised")
	assert.Equal(t, 1.0, previous)
}

func TestRewardConfigValidate(t *testing.T) {
	assert.ErrorIs(t, RewardConfig{Win: -1, Lose: 1}.Validate(), ErrInvalidRewards)
	assert.ErrorIs(t, RewardConfig{Win: 0, Lose: 0}.Validate(), ErrInvalidRewards)
	assert.NoError(t, RewardConfig{Win: 10, Lose: -10, Step: -0.01}.Validate())
}
