package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
)

// GameConfig holds everything needed to start a game
type GameConfig struct {
	// InitialPiles defaults to core.DefaultPiles when nil. It is copied.
	InitialPiles core.Piles
	// GameID defaults to a fresh UUID
	GameID   string
	Logger   zerolog.Logger
	EventBus events.Publisher
}

// Engine is a single game of Nim. Player 0 moves first; the game ends the
// moment the last object is taken.
type Engine struct {
	gameID    string
	piles     core.Piles
	player    int
	winner    int
	turn      int
	startedAt time.Time

	logger   zerolog.Logger
	eventBus events.Publisher
}

// NewEngine creates a game from cfg
func NewEngine(cfg GameConfig) (*Engine, error) {
	piles := cfg.InitialPiles
	if piles == nil {
		piles = core.DefaultPiles()
	}
	if err := piles.Validate(); err != nil {
		return nil, core.NewGameError(0, core.NoPlayer, "create game", err)
	}

	gameID := cfg.GameID
	if gameID == "" {
		gameID = uuid.NewString()
	}

	e := &Engine{
		gameID:    gameID,
		piles:     piles.Clone(),
		player:    core.PlayerOne,
		winner:    core.NoPlayer,
		startedAt: time.Now(),
		logger:    cfg.Logger.With().Str("component", "GameEngine").Str("game_id", gameID).Logger(),
		eventBus:  cfg.EventBus,
	}

	e.logger.Debug().Str("piles", e.piles.String()).Msg("Game created")
	e.publish(func() events.Event {
		return events.NewGameStartedEvent(e.gameID, e.piles, e.player)
	})
	return e, nil
}

// Move removes action.Count objects from pile action.Pile for the current
// player. Any illegal move returns an error matching core.ErrInvalidMove and
// leaves the game untouched.
func (e *Engine) Move(action core.Action) error {
	if err := e.validate(action); err != nil {
		e.logger.Debug().
			Int("player_id", e.player).
			Stringer("action", action).
			Err(err).
			Msg("Move rejected")
		e.publish(func() events.Event {
			return events.NewMoveRejectedEvent(e.gameID, e.turn, e.player, action, err)
		})
		return core.WrapActionError(e.player, action, err)
	}

	var before core.Piles
	if e.eventBus != nil {
		before = e.piles.Clone()
	}

	mover := e.player
	e.piles[action.Pile] -= action.Count
	e.player = core.OtherPlayer(e.player)
	e.turn++

	e.publish(func() events.Event {
		return events.NewMoveExecutedEvent(e.gameID, e.turn, mover, action, before, e.piles)
	})

	if e.piles.IsEmpty() {
		e.winner = e.player
		e.logger.Debug().
			Int("winner_player_id", e.winner).
			Int("final_turn", e.turn).
			Msg("Winner determined")
		e.publish(func() events.Event {
			return events.NewGameEndedEvent(e.gameID, e.winner, e.turn, time.Since(e.startedAt))
		})
	}
	return nil
}

func (e *Engine) validate(action core.Action) error {
	if e.winner != core.NoPlayer {
		return core.ErrGameOver
	}
	return action.Validate(e.piles)
}

// publish builds the event lazily so games without a bus pay nothing
func (e *Engine) publish(build func() events.Event) {
	if e.eventBus == nil {
		return
	}
	e.eventBus.Publish(build())
}

// Public accessors
func (e *Engine) ID() string        { return e.gameID }
func (e *Engine) Piles() core.Piles { return e.piles.Clone() }
func (e *Engine) Player() int       { return e.player }
func (e *Engine) Turn() int         { return e.turn }
func (e *Engine) IsGameOver() bool  { return e.winner != core.NoPlayer }

// Winner returns the winning player once the game is over
func (e *Engine) Winner() (int, bool) {
	return e.winner, e.winner != core.NoPlayer
}

// AvailableActions lists the legal moves for the current position
func (e *Engine) AvailableActions() []core.Action {
	if e.IsGameOver() {
		return nil
	}
	return core.AvailableActions(e.piles)
}

func (e *Engine) String() string {
	return fmt.Sprintf("game %s: piles=%v player=%d turn=%d", e.gameID, e.piles, e.player, e.turn)
}
