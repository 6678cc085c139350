// Package play runs a console game between a human and a trained policy.
package play

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
)

var (
	ErrInputClosed      = errors.New("input closed before the game ended")
	ErrNoPolicyMove     = errors.New("policy returned no move")
	ErrInvalidHumanSeat = errors.New("human player must be -1, 0 or 1")
)

const DefaultMoveDelay = time.Second

// Policy picks moves for the computer side
type Policy interface {
	ChooseAction(state core.Piles, explore bool) (core.Action, bool)
}

// Config holds console game settings
type Config struct {
	// HumanPlayer is the human's seat; -1 picks one at random
	HumanPlayer  int
	InitialPiles core.Piles
	// MoveDelay is the pause before every turn
	MoveDelay time.Duration
	Rng       *rand.Rand
	Logger    zerolog.Logger
	EventBus  events.Publisher
}

// DefaultConfig returns a random human seat on the default piles
func DefaultConfig() Config {
	return Config{
		HumanPlayer: -1,
		MoveDelay:   DefaultMoveDelay,
		Logger:      zerolog.Nop(),
	}
}

// Result describes a finished console game
type Result struct {
	GameID      string
	HumanPlayer int
	Winner      int
	Moves       int
}

func (r Result) HumanWon() bool { return r.Winner == r.HumanPlayer }

// Console plays one game over a line-oriented reader and writer
type Console struct {
	policy Policy
	in     *bufio.Scanner
	out    io.Writer
	cfg    Config
	logger zerolog.Logger
}

func NewConsole(policy Policy, in io.Reader, out io.Writer, cfg Config) (*Console, error) {
	if cfg.HumanPlayer < -1 || cfg.HumanPlayer > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHumanSeat, cfg.HumanPlayer)
	}
	if cfg.InitialPiles != nil && cfg.InitialPiles.IsEmpty() {
		return nil, fmt.Errorf("%w: starting position %v has no moves", core.ErrInvalidMove, cfg.InitialPiles)
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Console{
		policy: policy,
		in:     bufio.NewScanner(in),
		out:    out,
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "ConsolePlay").Logger(),
	}, nil
}

// Play runs a game to completion. It returns early if ctx is cancelled or
// the input runs out.
func (c *Console) Play(ctx context.Context) (Result, error) {
	human := c.cfg.HumanPlayer
	if human == -1 {
		human = c.cfg.Rng.Intn(2)
	}

	g, err := game.NewEngine(game.GameConfig{
		InitialPiles: c.cfg.InitialPiles,
		Logger:       c.cfg.Logger,
		EventBus:     c.cfg.EventBus,
	})
	if err != nil {
		return Result{}, err
	}
	result := Result{GameID: g.ID(), HumanPlayer: human, Winner: core.NoPlayer}
	c.logger.Info().Str("game_id", g.ID()).Int("human_player", human).Msg("Starting console game")

	for !g.IsGameOver() {
		c.printf("\n%s\n", g.Board())

		if err := c.wait(ctx); err != nil {
			return result, err
		}

		var action core.Action
		if g.Player() == human {
			c.printf("Your Turn\n")
			action, err = c.readMove(g.AvailableActions())
			if err != nil {
				return result, err
			}
		} else {
			c.printf("AI's Turn\n")
			var ok bool
			action, ok = c.policy.ChooseAction(g.Piles(), false)
			if !ok {
				return result, ErrNoPolicyMove
			}
			c.printf("AI chose to take %d from pile %d.\n", action.Count, action.Pile)
		}

		if err := g.Move(action); err != nil {
			return result, err
		}
		result.Moves++
	}

	result.Winner, _ = g.Winner()
	winner := "AI"
	if result.HumanWon() {
		winner = "Human"
	}
	c.printf("\nGAME OVER\nWinner is %s\n", winner)
	c.logger.Info().
		Str("game_id", g.ID()).
		Int("winner_player_id", result.Winner).
		Bool("human_won", result.HumanWon()).
		Int("moves", result.Moves).
		Msg("Console game finished")
	return result, nil
}

// readMove prompts until the human enters one of legal. Lines that are not
// numbers count as an invalid move.
func (c *Console) readMove(legal []core.Action) (core.Action, error) {
	for {
		action, err := c.readAction()
		if err == nil && containsAction(legal, action) {
			return action, nil
		}
		var numErr *strconv.NumError
		if err != nil && !errors.As(err, &numErr) {
			return core.Action{}, err
		}
		c.printf("Invalid move, try again.\n")
	}
}

func (c *Console) readAction() (core.Action, error) {
	pile, err := c.readInt("Choose Pile: ")
	if err != nil {
		return core.Action{}, err
	}
	count, err := c.readInt("Choose Count: ")
	if err != nil {
		return core.Action{}, err
	}
	return core.Action{Pile: pile, Count: count}, nil
}

func containsAction(actions []core.Action, action core.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func (c *Console) readInt(prompt string) (int, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return 0, fmt.Errorf("read input: %w", err)
		}
		return 0, ErrInputClosed
	}
	return strconv.Atoi(strings.TrimSpace(c.in.Text()))
}

func (c *Console) wait(ctx context.Context) error {
	if c.cfg.MoveDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.cfg.MoveDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
