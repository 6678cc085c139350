package testutil

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/training"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// NewAgent returns an untrained agent with a fixed seed. With every value at
// zero its greedy choice is always the first available action.
func NewAgent(t *testing.T) *agent.Agent {
	t.Helper()
	a, err := agent.New(agent.Config{
		Alpha:   agent.DefaultAlpha,
		Epsilon: agent.DefaultEpsilon,
		Rng:     NewTestRNG(1),
		Logger:  NopLogger(),
	})
	require.NoError(t, err)
	return a
}

// TrainedAgent trains a seeded agent on piles for the given number of episodes
func TrainedAgent(t *testing.T, piles core.Piles, episodes int) *agent.Agent {
	t.Helper()
	cfg := agent.DefaultConfig()
	cfg.Rng = NewTestRNG(12345)
	a, _, err := training.Train(episodes, cfg,
		training.WithInitialPiles(piles),
		training.WithLogEvery(0))
	require.NoError(t, err)
	return a
}

// ScriptedInput joins lines into console input, one per line
func ScriptedInput(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}
