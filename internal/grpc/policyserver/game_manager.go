package policyserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// Cleanup configuration
const (
	cleanupInterval      = 5 * time.Minute  // How often to run cleanup
	finishedGameTTL      = 10 * time.Minute // Keep finished games for 10 minutes
	abandonedGameTimeout = 30 * time.Minute // Consider game abandoned after 30 minutes of inactivity
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrAtCapacity   = errors.New("server at capacity")
	ErrNotYourTurn  = errors.New("not the human player's turn")
)

// gameInstance is a remote human-vs-agent game
type gameInstance struct {
	mu          sync.Mutex
	engine      *game.Engine
	humanPlayer int
	// agentAction is the agent's most recent reply, if any
	agentAction *core.Action

	createdAt    time.Time
	lastActivity time.Time
}

// GameManager owns the games played through the service
type GameManager struct {
	mu       sync.RWMutex
	games    map[string]*gameInstance
	maxGames int
	policy   Policy
	logger   zerolog.Logger

	engineLogger zerolog.Logger
}

func NewGameManager(policy Policy, maxGames int, logger zerolog.Logger) *GameManager {
	return &GameManager{
		games:    make(map[string]*gameInstance),
		maxGames: maxGames,
		policy:   policy,
		logger:   logger.With().Str("component", "GameManager").Logger(),

		engineLogger: logger,
	}
}

// CreateGame starts a game on piles with the human in seat humanPlayer. When
// the agent moves first its opening move is already applied.
func (gm *GameManager) CreateGame(piles core.Piles, humanPlayer int) (*gameInstance, string, error) {
	if !core.IsValidPlayer(humanPlayer) {
		return nil, "", fmt.Errorf("%w: %d", core.ErrInvalidPlayer, humanPlayer)
	}

	engine, err := game.NewEngine(game.GameConfig{InitialPiles: piles, Logger: gm.engineLogger})
	if err != nil {
		return nil, "", err
	}
	if len(engine.AvailableActions()) == 0 {
		return nil, "", fmt.Errorf("%w: starting position %v has no moves", core.ErrInvalidMove, engine.Piles())
	}

	now := time.Now()
	g := &gameInstance{
		engine:       engine,
		humanPlayer:  humanPlayer,
		createdAt:    now,
		lastActivity: now,
	}

	gm.mu.Lock()
	if gm.maxGames > 0 && len(gm.games) >= gm.maxGames {
		current := len(gm.games)
		gm.mu.Unlock()
		gm.logger.Warn().
			Int("current_games", current).
			Int("max_games", gm.maxGames).
			Msg("Rejecting game creation - server at capacity")
		return nil, "", fmt.Errorf("%w: %d/%d games active", ErrAtCapacity, current, gm.maxGames)
	}
	gm.games[engine.ID()] = g
	gm.mu.Unlock()

	gm.logger.Info().
		Str("game_id", engine.ID()).
		Str("piles", engine.Piles().String()).
		Int("human_player", humanPlayer).
		Msg("Created game")

	g.mu.Lock()
	err = gm.agentReplyLocked(g)
	g.mu.Unlock()
	if err != nil {
		gm.removeGame(engine.ID())
		gm.logger.Warn().Err(err).Str("game_id", engine.ID()).Msg("Agent failed to open; game removed")
		return nil, "", err
	}
	return g, engine.ID(), nil
}

func (gm *GameManager) removeGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, gameID)
}

// GetGame looks up a game by id
func (gm *GameManager) GetGame(gameID string) (*gameInstance, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	g, exists := gm.games[gameID]
	return g, exists
}

// MakeMove applies the human's move and the agent's reply
func (gm *GameManager) MakeMove(gameID string, action core.Action) (*gameInstance, error) {
	g, exists := gm.GetGame(gameID)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastActivity = time.Now()
	if !g.engine.IsGameOver() && g.engine.Player() != g.humanPlayer {
		return nil, ErrNotYourTurn
	}
	if err := g.engine.Move(action); err != nil {
		return nil, err
	}
	g.agentAction = nil
	if err := gm.agentReplyLocked(g); err != nil {
		return nil, err
	}
	return g, nil
}

// agentReplyLocked plays the agent's move if it is the agent's turn
func (gm *GameManager) agentReplyLocked(g *gameInstance) error {
	if g.engine.IsGameOver() || g.engine.Player() == g.humanPlayer {
		return nil
	}
	action, ok := gm.policy.ChooseAction(g.engine.Piles(), false)
	if !ok {
		return fmt.Errorf("agent has no move from %v", g.engine.Piles())
	}
	if err := g.engine.Move(action); err != nil {
		return fmt.Errorf("agent move: %w", err)
	}
	g.agentAction = &action
	return nil
}

func (gm *GameManager) ActiveGames() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// RunCleanup removes finished and abandoned games until ctx is done
func (gm *GameManager) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.cleanupGames(time.Now())
		}
	}
}

// cleanupGames removes finished and abandoned games from memory
func (gm *GameManager) cleanupGames(now time.Time) {
	// Collect references first so game locks are never taken under gm.mu
	gm.mu.RLock()
	refs := make(map[string]*gameInstance, len(gm.games))
	for id, g := range gm.games {
		refs[id] = g
	}
	gm.mu.RUnlock()

	var toDelete []string
	for id, g := range refs {
		g.mu.Lock()
		reason := ""
		if g.engine.IsGameOver() {
			if now.Sub(g.lastActivity) > finishedGameTTL {
				reason = "finished game TTL expired"
			}
		} else if now.Sub(g.lastActivity) > abandonedGameTimeout {
			reason = "game abandoned (no activity)"
		}
		createdAt := g.createdAt
		g.mu.Unlock()

		if reason != "" {
			toDelete = append(toDelete, id)
			gm.logger.Info().
				Str("game_id", id).
				Str("reason", reason).
				Dur("age", now.Sub(createdAt)).
				Msg("Cleaning up game")
		}
	}

	if len(toDelete) == 0 {
		return
	}
	gm.mu.Lock()
	for _, id := range toDelete {
		delete(gm.games, id)
	}
	remaining := len(gm.games)
	gm.mu.Unlock()

	gm.logger.Info().
		Int("cleaned", len(toDelete)).
		Int("remaining", remaining).
		Msg("Game cleanup completed")
}
