package agent

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

func newTestAgent(t *testing.T, alpha, epsilon float64) *Agent {
	t.Helper()
	a, err := New(Config{
		Alpha:   alpha,
		Epsilon: epsilon,
		Rng:     rand.New(rand.NewSource(12345)),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return a
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		alpha   float64
		epsilon float64
		wantErr error
	}{
		{"defaults", DefaultAlpha, DefaultEpsilon, nil},
		{"alpha one", 1, 0, nil},
		{"epsilon one", 0.3, 1, nil},
		{"alpha zero", 0, 0.1, ErrInvalidAlpha},
		{"alpha above one", 1.5, 0.1, ErrInvalidAlpha},
		{"negative epsilon", 0.5, -0.1, ErrInvalidEpsilon},
		{"epsilon above one", 0.5, 1.01, ErrInvalidEpsilon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Alpha: tt.alpha, Epsilon: tt.epsilon, Logger: zerolog.Nop()})
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.5, a.Alpha())
	assert.Equal(t, 0.1, a.Epsilon())
	assert.Equal(t, 0, a.Size())
}

func TestValueDefaultsToZero(t *testing.T) {
	a := newTestAgent(t, 0.5, 0.1)
	assert.Equal(t, 0.0, a.Value(core.DefaultPiles(), core.Action{Pile: 3, Count: 7}))
	assert.Equal(t, 0, a.Size(), "reads must not create entries")
}

func TestUpdateHalfAlpha(t *testing.T) {
	a := newTestAgent(t, 0.5, 0.1)

	a.Update(core.Piles{1, 1}, core.Action{Pile: 0, Count: 1}, core.Piles{0, 1}, -1)

	assert.Equal(t, -0.5, a.Value(core.Piles{1, 1}, core.Action{Pile: 0, Count: 1}))
	assert.Equal(t, 1, a.Size())
}

func TestUpdateAlphaOneEqualsTarget(t *testing.T) {
	a := newTestAgent(t, 1, 0)

	next := core.Piles{0, 2}
	a.Update(next, core.Action{Pile: 1, Count: 1}, core.Piles{0, 1}, 0.75)
	a.Update(next, core.Action{Pile: 1, Count: 2}, core.Piles{0, 0}, -1)
	future := a.BestFutureValue(next)
	require.Equal(t, 0.75, future)

	s := core.Piles{1, 2}
	act := core.Action{Pile: 0, Count: 1}
	a.Update(s, act, next, 0.25)
	assert.Equal(t, 0.25+future, a.Value(s, act))
}

func TestUpdateAccumulates(t *testing.T) {
	a := newTestAgent(t, 0.5, 0)
	s, act, terminal := core.Piles{1}, core.Action{Pile: 0, Count: 1}, core.Piles{0}

	a.Update(s, act, terminal, 1)
	a.Update(s, act, terminal, 1)

	// 0 -> 0.5 -> 0.75
	assert.InDelta(t, 0.75, a.Value(s, act), 1e-12)
}

func TestUpdateUsesPreMoveStateKey(t *testing.T) {
	a := newTestAgent(t, 1, 0)
	a.Update(core.Piles{3, 1}, core.Action{Pile: 0, Count: 3}, core.Piles{0, 1}, 1)

	snap := a.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "3,1", snap[0].State)
	assert.Equal(t, core.Action{Pile: 0, Count: 3}, snap[0].Action)
	assert.Equal(t, 0.0, a.Value(core.Piles{0, 1}, core.Action{Pile: 0, Count: 3}))
}

func TestBestFutureValue(t *testing.T) {
	a := newTestAgent(t, 1, 0)

	assert.Equal(t, 0.0, a.BestFutureValue(core.Piles{0, 0, 0}), "terminal state")
	assert.Equal(t, 0.0, a.BestFutureValue(core.Piles{}), "no piles")
	assert.Equal(t, 0.0, a.BestFutureValue(core.Piles{2}), "unseen state")

	a.Update(core.Piles{2}, core.Action{Pile: 0, Count: 1}, core.Piles{0}, -0.5)
	a.Update(core.Piles{2}, core.Action{Pile: 0, Count: 2}, core.Piles{0}, -0.25)
	assert.Equal(t, -0.25, a.BestFutureValue(core.Piles{2}))
}

func TestChooseActionTerminal(t *testing.T) {
	a := newTestAgent(t, 0.5, 0.1)

	_, ok := a.ChooseAction(core.Piles{0, 0}, true)
	assert.False(t, ok)
	_, ok = a.ChooseAction(core.Piles{0, 0}, false)
	assert.False(t, ok)
}

func TestChooseActionGreedy(t *testing.T) {
	a := newTestAgent(t, 1, 1) // epsilon 1 must not matter without exploration
	state := core.DefaultPiles()
	best := core.Action{Pile: 2, Count: 4}

	for _, action := range core.AvailableActions(state) {
		a.Update(state, action, core.Piles{0}, -0.1)
	}
	a.Update(state, best, core.Piles{0}, 0.9)

	for i := 0; i < 100; i++ {
		got, ok := a.ChooseAction(state, false)
		require.True(t, ok)
		assert.Equal(t, best, got)
	}
}

func TestChooseActionTieBreaksOnFirstAction(t *testing.T) {
	a := newTestAgent(t, 0.5, 0)

	got, ok := a.ChooseAction(core.Piles{0, 2, 3}, false)
	require.True(t, ok)
	assert.Equal(t, core.Action{Pile: 1, Count: 1}, got)

	got, ok = a.ChooseAction(core.Piles{0, 2, 3}, true)
	require.True(t, ok)
	assert.Equal(t, core.Action{Pile: 1, Count: 1}, got, "epsilon 0 never explores")
}

func TestChooseActionExplores(t *testing.T) {
	a := newTestAgent(t, 1, 1)
	state := core.DefaultPiles()
	a.Update(state, core.Action{Pile: 0, Count: 1}, core.Piles{0}, 1)

	seen := make(map[core.Action]int)
	for i := 0; i < 2000; i++ {
		got, ok := a.ChooseAction(state, true)
		require.True(t, ok)
		require.True(t, core.IsLegal(state, got))
		seen[got]++
	}
	// 16 legal actions drawn uniformly
	assert.Len(t, seen, 16)
}

func TestChooseActionMostlyGreedyWithSmallEpsilon(t *testing.T) {
	a := newTestAgent(t, 1, 0.1)
	state := core.DefaultPiles()
	best := core.Action{Pile: 3, Count: 7}
	a.Update(state, best, core.Piles{0}, 1)

	greedy := 0
	const draws = 5000
	for i := 0; i < draws; i++ {
		got, _ := a.ChooseAction(state, true)
		if got == best {
			greedy++
		}
	}
	// expected share: 0.9 + 0.1/16
	share := float64(greedy) / draws
	assert.InDelta(t, 0.90625, share, 0.03)
}

func TestActionValues(t *testing.T) {
	a := newTestAgent(t, 1, 0)
	a.Update(core.Piles{2}, core.Action{Pile: 0, Count: 2}, core.Piles{0}, -1)

	values := a.ActionValues(core.Piles{2})
	assert.Equal(t, []ActionValue{
		{Action: core.Action{Pile: 0, Count: 1}, Value: 0},
		{Action: core.Action{Pile: 0, Count: 2}, Value: -1},
	}, values)
	assert.Empty(t, a.ActionValues(core.Piles{0}))
}

func TestSnapshotOrdering(t *testing.T) {
	a := newTestAgent(t, 1, 0)
	a.Update(core.Piles{2, 1}, core.Action{Pile: 1, Count: 1}, core.Piles{2, 0}, 0.1)
	a.Update(core.Piles{1, 1}, core.Action{Pile: 0, Count: 1}, core.Piles{0, 1}, 0.2)
	a.Update(core.Piles{2, 1}, core.Action{Pile: 0, Count: 2}, core.Piles{0, 1}, 0.3)

	snap := a.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "1,1", snap[0].State)
	assert.Equal(t, core.Action{Pile: 0, Count: 2}, snap[1].Action)
	assert.Equal(t, core.Action{Pile: 1, Count: 1}, snap[2].Action)
}

func TestConcurrentUpdatesAndReads(t *testing.T) {
	a := newTestAgent(t, 0.5, 0.2)
	state := core.DefaultPiles()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				a.Update(state, core.Action{Pile: w % 4, Count: 1}, core.Piles{0}, 1)
				a.ChooseAction(state, true)
				a.BestFutureValue(state)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 4, a.Size())
	for pile := 0; pile < 4; pile++ {
		v := a.Value(state, core.Action{Pile: pile, Count: 1})
		assert.Greater(t, v, 0.99)
		assert.LessOrEqual(t, v, 1.0)
	}
}
