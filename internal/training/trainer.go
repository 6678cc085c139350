package training

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
)

var (
	ErrInvalidEpisodes = errors.New("number of training episodes must be positive")
	ErrNoMoves         = errors.New("starting position has no legal moves")
)

const (
	DefaultEpisodes = 10000
	DefaultLogEvery = 1000
)

// Trainer runs self-play episodes in which one agent plays both seats
type Trainer struct {
	agent    *agent.Agent
	rewards  experience.RewardConfig
	piles    core.Piles
	sink     experience.Sink
	eventBus events.Publisher
	logEvery int
	logger   zerolog.Logger

	// engineLogger is the caller's logger without the trainer's fields
	engineLogger zerolog.Logger
}

// Option configures a Trainer
type Option func(*Trainer)

func WithRewards(r experience.RewardConfig) Option {
	return func(t *Trainer) { t.rewards = r }
}

// WithInitialPiles sets the position every episode starts from
func WithInitialPiles(p core.Piles) Option {
	return func(t *Trainer) { t.piles = p.Clone() }
}

// WithSink forwards every value update to s as a Transition
func WithSink(s experience.Sink) Option {
	return func(t *Trainer) { t.sink = s }
}

// WithEventBus attaches bus to every episode's engine and publishes an
// EpisodeCompletedEvent after each episode.
func WithEventBus(bus events.Publisher) Option {
	return func(t *Trainer) { t.eventBus = bus }
}

// WithLogEvery sets the progress log interval; zero disables it
func WithLogEvery(n int) Option {
	return func(t *Trainer) { t.logEvery = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// NewTrainer creates a trainer for a
func NewTrainer(a *agent.Agent, opts ...Option) *Trainer {
	t := &Trainer{
		agent:    a,
		rewards:  experience.DefaultRewardConfig(),
		piles:    core.DefaultPiles(),
		logEvery: DefaultLogEvery,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.engineLogger = t.logger
	t.logger = t.logger.With().Str("component", "Trainer").Logger()
	return t
}

// Train builds an agent from cfg and trains it for n self-play episodes.
func Train(n int, cfg agent.Config, opts ...Option) (*agent.Agent, *Stats, error) {
	a, err := agent.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create agent: %w", err)
	}
	stats, err := NewTrainer(a, opts...).Run(n)
	if err != nil {
		return nil, stats, err
	}
	return a, stats, nil
}

func (t *Trainer) Agent() *agent.Agent { return t.agent }

// Run plays n episodes. Each episode's updates complete before the next
// episode starts.
func (t *Trainer) Run(n int) (*Stats, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidEpisodes, n)
	}
	if err := t.rewards.Validate(); err != nil {
		return nil, err
	}
	if err := t.piles.Validate(); err != nil {
		return nil, err
	}
	if t.piles.IsEmpty() {
		return nil, fmt.Errorf("%w: %v", ErrNoMoves, t.piles)
	}

	stats := &Stats{}
	start := time.Now()

	t.logger.Info().
		Int("episodes", n).
		Str("piles", t.piles.String()).
		Float64("alpha", t.agent.Alpha()).
		Float64("epsilon", t.agent.Epsilon()).
		Msg("Starting training")

	for i := 1; i <= n; i++ {
		result, err := t.PlayEpisode(i)
		if err != nil {
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("episode %d: %w", i, err)
		}
		stats.record(result)

		if t.logEvery > 0 && i%t.logEvery == 0 {
			t.logger.Info().
				Int("episode", i).
				Int("table_size", t.agent.Size()).
				Float64("player_one_win_rate", stats.WinRate(core.PlayerOne)).
				Float64("avg_moves", stats.AverageMoves()).
				Msg("Training progress")
		}
	}

	stats.TableSize = t.agent.Size()
	stats.Duration = time.Since(start)

	t.logger.Info().
		Int("episodes", stats.Episodes).
		Int("updates", stats.Updates).
		Int("table_size", stats.TableSize).
		Dur("duration", stats.Duration).
		Msg("Done training")

	return stats, nil
}

type lastMove struct {
	state  core.Piles
	action core.Action
}

// EpisodeResult summarises one self-play game
type EpisodeResult struct {
	GameID  string
	Episode int
	Winner  int
	Moves   int
	Updates int
}

// PlayEpisode plays one self-play game and applies its value updates.
func (t *Trainer) PlayEpisode(episode int) (EpisodeResult, error) {
	g, err := game.NewEngine(game.GameConfig{
		InitialPiles: t.piles,
		Logger:       t.engineLogger,
		EventBus:     t.eventBus,
	})
	if err != nil {
		return EpisodeResult{}, err
	}
	result := EpisodeResult{GameID: g.ID(), Episode: episode, Winner: core.NoPlayer}

	t.logger.Debug().Int("episode", episode).Str("game_id", g.ID()).Msg("Playing training game")

	// last move taken by each seat in this episode
	var last [2]*lastMove

	for {
		state := g.Piles()
		player := g.Player()

		action, ok := t.agent.ChooseAction(state, true)
		if !ok {
			return result, core.NewGameError(g.Turn(), player, "choose action", ErrNoMoves)
		}
		last[player] = &lastMove{state: state, action: action}

		if err := g.Move(action); err != nil {
			return result, core.NewGameError(g.Turn(), player, "apply move", err)
		}
		result.Moves++
		newState := g.Piles()

		if g.IsGameOver() {
			moverReward, previousReward := t.rewards.Terminal()
			if err := t.update(&result, player, state, action, newState, moverReward, true); err != nil {
				return result, err
			}
			// g.Player() is now the seat that moved before the final move
			if prev := last[g.Player()]; prev != nil {
				if err := t.update(&result, g.Player(), prev.state, prev.action, newState, previousReward, true); err != nil {
					return result, err
				}
			}
			result.Winner, _ = g.Winner()
			break
		}

		if prev := last[g.Player()]; prev != nil {
			if err := t.update(&result, g.Player(), prev.state, prev.action, newState, t.rewards.Step, false); err != nil {
				return result, err
			}
		}
	}

	if t.eventBus != nil {
		t.eventBus.Publish(events.NewEpisodeCompletedEvent(result.GameID, episode, result.Winner, result.Moves, t.agent.Size()))
	}
	return result, nil
}

func (t *Trainer) update(result *EpisodeResult, playerID int, state core.Piles, action core.Action, next core.Piles, reward float64, done bool) error {
	t.agent.Update(state, action, next, reward)
	result.Updates++

	if t.sink == nil {
		return nil
	}
	tr := experience.NewTransition(result.GameID, result.Episode, playerID, state, action, next, reward, done)
	if err := t.sink.Add(tr); err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	return nil
}
