package agent

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

var (
	ErrInvalidAlpha   = errors.New("alpha must be in (0, 1]")
	ErrInvalidEpsilon = errors.New("epsilon must be in [0, 1]")
)

const (
	DefaultAlpha   = 0.5
	DefaultEpsilon = 0.1
)

// Config holds the learning parameters of an Agent
type Config struct {
	Alpha   float64
	Epsilon float64
	// Rng drives exploration. A time-seeded source is used when nil.
	Rng    *rand.Rand
	Logger zerolog.Logger
}

// DefaultConfig returns alpha 0.5 and epsilon 0.1
func DefaultConfig() Config {
	return Config{
		Alpha:   DefaultAlpha,
		Epsilon: DefaultEpsilon,
		Logger:  zerolog.Nop(),
	}
}

func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidAlpha, c.Alpha)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidEpsilon, c.Epsilon)
	}
	return nil
}

// ActionValue pairs a legal action with its current estimate
type ActionValue struct {
	Action core.Action
	Value  float64
}

// Agent is a tabular Q-learning player. The value table is its whole policy.
//
// Value lookups take a read lock and Update holds the write lock across its
// read-modify-write, so a trained agent may be queried from many goroutines.
type Agent struct {
	mu    sync.RWMutex
	table *valueTable

	alpha   float64
	epsilon float64

	rngMu sync.Mutex
	rng   *rand.Rand

	logger zerolog.Logger
}

// New creates an agent with an empty value table
func New(cfg Config) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{
		table:   newValueTable(),
		alpha:   cfg.Alpha,
		epsilon: cfg.Epsilon,
		rng:     rng,
		logger:  cfg.Logger.With().Str("component", "QLearningAgent").Logger(),
	}, nil
}

func (a *Agent) Alpha() float64   { return a.alpha }
func (a *Agent) Epsilon() float64 { return a.epsilon }

// Value returns the estimate for taking action in state, 0 if never updated.
func (a *Agent) Value(state core.Piles, action core.Action) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table.get(state.Key(), action)
}

// BestFutureValue returns the highest estimate over the legal actions of
// state, or 0 for a terminal state.
func (a *Agent) BestFutureValue(state core.Piles) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bestFutureValueLocked(state)
}

func (a *Agent) bestFutureValueLocked(state core.Piles) float64 {
	actions := core.AvailableActions(state)
	if len(actions) == 0 {
		return 0
	}
	_, best := a.bestActionLocked(state.Key(), actions)
	return best
}

// bestActionLocked scans actions in order; the first maximum wins ties.
func (a *Agent) bestActionLocked(key string, actions []core.Action) (core.Action, float64) {
	best := actions[0]
	bestValue := a.table.get(key, best)
	for _, action := range actions[1:] {
		if v := a.table.get(key, action); v > bestValue {
			best, bestValue = action, v
		}
	}
	return best, bestValue
}

// Update applies one Q-learning step for taking action in oldState and
// landing in newState with the given reward:
//
//	Q(s,a) <- Q(s,a) + alpha * (reward + max_a' Q(s',a') - Q(s,a))
func (a *Agent) Update(oldState core.Piles, action core.Action, newState core.Piles, reward float64) {
	key := oldState.Key()

	a.mu.Lock()
	old := a.table.get(key, action)
	future := a.bestFutureValueLocked(newState)
	updated := old + a.alpha*(reward+future-old)
	a.table.set(key, action, updated)
	a.mu.Unlock()

	a.logger.Trace().
		Str("state", key).
		Stringer("action", action).
		Float64("reward", reward).
		Float64("old", old).
		Float64("future", future).
		Float64("new", updated).
		Msg("Value updated")
}

// ChooseAction picks a move for state. It reports false when state has no
// legal move. With explore set, a uniformly random legal move is returned
// with probability epsilon; otherwise the highest valued move is returned.
func (a *Agent) ChooseAction(state core.Piles, explore bool) (core.Action, bool) {
	actions := core.AvailableActions(state)
	if len(actions) == 0 {
		return core.Action{}, false
	}

	a.mu.RLock()
	best, _ := a.bestActionLocked(state.Key(), actions)
	a.mu.RUnlock()

	if !explore {
		return best, true
	}

	a.rngMu.Lock()
	defer a.rngMu.Unlock()
	if a.rng.Float64() < a.epsilon {
		return actions[a.rng.Intn(len(actions))], true
	}
	return best, true
}

// ActionValues returns the estimate of every legal action in state, in
// core.AvailableActions order.
func (a *Agent) ActionValues(state core.Piles) []ActionValue {
	actions := core.AvailableActions(state)
	key := state.Key()

	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]ActionValue, len(actions))
	for i, action := range actions {
		out[i] = ActionValue{Action: action, Value: a.table.get(key, action)}
	}
	return out
}

// Size returns the number of (state, action) pairs that have been updated
func (a *Agent) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table.len()
}

// Snapshot copies the value table, ordered by state and action
func (a *Agent) Snapshot() []Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table.entries()
}
