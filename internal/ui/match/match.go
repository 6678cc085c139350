// Package match holds the turn logic of a human-vs-agent game, independent
// of how it is drawn.
package match

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

var ErrNotHumanTurn = errors.New("it is not the human player's turn")

// Policy picks moves for the agent side
type Policy interface {
	ChooseAction(state core.Piles, explore bool) (core.Action, bool)
}

type Config struct {
	InitialPiles core.Piles
	HumanPlayer  int
	// AIDelay is the number of ticks the agent waits before moving
	AIDelay int
	Logger  zerolog.Logger
}

// Match is one game between a human and a policy, advanced by Tick
type Match struct {
	cfg    Config
	policy Policy
	engine *game.Engine

	countdown  int
	lastAction *core.Action
	lastMover  int
	status     string
	logger     zerolog.Logger
}

func New(policy Policy, cfg Config) (*Match, error) {
	if !core.IsValidPlayer(cfg.HumanPlayer) {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidPlayer, cfg.HumanPlayer)
	}
	m := &Match{
		cfg:    cfg,
		policy: policy,
		logger: cfg.Logger.With().Str("component", "Match").Logger(),
	}
	if err := m.Restart(); err != nil {
		return nil, err
	}
	return m, nil
}

// Restart begins a new game with the same settings
func (m *Match) Restart() error {
	engine, err := game.NewEngine(game.GameConfig{InitialPiles: m.cfg.InitialPiles, Logger: m.cfg.Logger})
	if err != nil {
		return err
	}
	if len(engine.AvailableActions()) == 0 {
		return fmt.Errorf("%w: starting position has no moves", core.ErrInvalidMove)
	}
	m.engine = engine
	m.countdown = m.cfg.AIDelay
	m.lastAction = nil
	m.lastMover = core.NoPlayer
	m.status = m.turnStatus()
	m.logger.Debug().Str("game_id", engine.ID()).Int("human_player", m.cfg.HumanPlayer).Msg("Match started")
	return nil
}

// Tick advances the agent's countdown and moves for it when it expires
func (m *Match) Tick() error {
	if m.engine.IsGameOver() || m.IsHumanTurn() {
		return nil
	}
	if m.countdown > 0 {
		m.countdown--
		return nil
	}

	action, ok := m.policy.ChooseAction(m.engine.Piles(), false)
	if !ok {
		return fmt.Errorf("agent has no move from %v", m.engine.Piles())
	}
	if err := m.apply(action); err != nil {
		return fmt.Errorf("agent move: %w", err)
	}
	m.status = fmt.Sprintf("AI took %d from pile %d. %s", action.Count, action.Pile, m.turnStatus())
	return nil
}

// HumanMove applies action for the human. Illegal moves leave the game
// unchanged and set the status line.
func (m *Match) HumanMove(action core.Action) error {
	if !m.IsHumanTurn() {
		return ErrNotHumanTurn
	}
	if err := m.apply(action); err != nil {
		m.status = "Invalid move, try again."
		return err
	}
	m.countdown = m.cfg.AIDelay
	m.status = m.turnStatus()
	return nil
}

func (m *Match) apply(action core.Action) error {
	mover := m.engine.Player()
	if err := m.engine.Move(action); err != nil {
		return err
	}
	m.lastAction = &action
	m.lastMover = mover
	return nil
}

func (m *Match) turnStatus() string {
	if winner, over := m.engine.Winner(); over {
		if winner == m.cfg.HumanPlayer {
			return "GAME OVER - Winner is Human"
		}
		return "GAME OVER - Winner is AI"
	}
	if m.IsHumanTurn() {
		return "Your Turn"
	}
	return "AI's Turn"
}

func (m *Match) IsHumanTurn() bool {
	return !m.engine.IsGameOver() && m.engine.Player() == m.cfg.HumanPlayer
}

func (m *Match) Piles() core.Piles   { return m.engine.Piles() }
func (m *Match) HumanPlayer() int    { return m.cfg.HumanPlayer }
func (m *Match) IsOver() bool        { return m.engine.IsGameOver() }
func (m *Match) Winner() (int, bool) { return m.engine.Winner() }
func (m *Match) Status() string      { return m.status }
func (m *Match) Turn() int           { return m.engine.Turn() }

// LastMove returns the most recent move and who made it
func (m *Match) LastMove() (core.Action, int, bool) {
	if m.lastAction == nil {
		return core.Action{}, core.NoPlayer, false
	}
	return *m.lastAction, m.lastMover, true
}
