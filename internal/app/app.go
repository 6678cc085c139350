// Package app holds the start-up steps shared by the commands: loading
// configuration, configuring logging and training an agent from config.
package app

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/logging"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/training"
)

// Bootstrap loads config from configPath (plus the env overlay when env is
// set) and configures the global logger. A non-empty logLevel overrides the
// configured level.
func Bootstrap(configPath, env, logLevel string) (*config.Config, error) {
	if err := config.Init(configPath); err != nil {
		return nil, fmt.Errorf("initialize config: %w", err)
	}
	if err := config.LoadEnvironmentConfig(env); err != nil {
		return nil, fmt.Errorf("load %s config: %w", env, err)
	}
	cfg := config.Get()

	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}
	logging.Setup(logLevel, cfg.Logging.Format)
	return cfg, nil
}

// BoolOverride resolves a tri-state command line value: empty keeps def,
// otherwise the value is parsed as a boolean ("true", "false", "1", "0").
func BoolOverride(value string, def bool) (bool, error) {
	if value == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def, fmt.Errorf("invalid boolean %q: %w", value, err)
	}
	return b, nil
}

// Run is the outcome of TrainAgent
type Run struct {
	Agent      *agent.Agent
	Stats      *training.Stats
	Experience *experience.Buffer // nil unless training.experience_capacity > 0
}

// TrainAgent trains an agent for episodes games using the agent, game and
// training sections of cfg. episodes <= 0 uses training.episodes.
func TrainAgent(cfg *config.Config, episodes int, logger zerolog.Logger) (*Run, error) {
	if episodes <= 0 {
		episodes = cfg.Training.Episodes
	}

	seed := cfg.Agent.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	agentCfg := agent.Config{
		Alpha:   cfg.Agent.Alpha,
		Epsilon: cfg.Agent.Epsilon,
		Rng:     rand.New(rand.NewSource(seed)),
		Logger:  logger,
	}

	opts := []training.Option{
		training.WithInitialPiles(core.Piles(cfg.Game.InitialPiles)),
		training.WithRewards(experience.RewardConfig{
			Win:  cfg.Training.Rewards.Win,
			Lose: cfg.Training.Rewards.Lose,
			Step: cfg.Training.Rewards.Step,
		}),
		training.WithLogEvery(cfg.Training.LogEvery),
		training.WithLogger(logger),
	}

	run := &Run{}
	if cfg.Training.ExperienceCapacity > 0 {
		run.Experience = experience.NewBuffer(cfg.Training.ExperienceCapacity, logger)
		opts = append(opts, training.WithSink(run.Experience))
	}

	// Game events are only published when debug output is enabled
	if zerolog.GlobalLevel() <= zerolog.DebugLevel && logger.GetLevel() <= zerolog.DebugLevel {
		eventLogger := subscribers.NewLoggerSubscriber("training-events", logger, zerolog.DebugLevel)
		eventLogger.SetEventFilter([]string{events.TypeGameEnded, events.TypeEpisodeCompleted})
		bus := events.NewEventBusWithLogger(logger)
		bus.Subscribe(eventLogger)
		opts = append(opts, training.WithEventBus(bus))
	}

	log.Info().Int64("seed", seed).Int("episodes", episodes).Msg("Training agent")
	a, stats, err := training.Train(episodes, agentCfg, opts...)
	if err != nil {
		return nil, err
	}
	run.Agent = a
	run.Stats = stats

	if run.Experience != nil {
		if err := run.Experience.Close(); err != nil {
			return nil, fmt.Errorf("close experience buffer: %w", err)
		}
		bs := run.Experience.Stats()
		logger.Info().
			Int("size", bs.CurrentSize).
			Int("capacity", bs.Capacity).
			Int64("total_added", bs.TotalAdded).
			Int64("total_dropped", bs.TotalDropped).
			Float64("utilization_pct", bs.UtilizationPct).
			Msg("Experience recorded")
	}
	return run, nil
}

// LogExperience writes n uniformly sampled transitions and the n most recent
// ones at debug level. It returns the sampled transitions; nothing is logged
// when the run kept no experience.
func LogExperience(run *Run, n int, rng *rand.Rand, logger zerolog.Logger) []experience.Transition {
	if run == nil || run.Experience == nil || run.Experience.Size() == 0 || n <= 0 {
		return nil
	}

	sample := run.Experience.Sample(n, rng)
	for _, tr := range sample {
		logTransition(logger, "Sampled transition", tr)
	}
	for _, tr := range run.Experience.GetLatest(n) {
		logTransition(logger, "Recent transition", tr)
	}
	return sample
}

func logTransition(logger zerolog.Logger, msg string, tr experience.Transition) {
	logger.Debug().
		Str("game_id", tr.GameID).
		Int("episode", tr.Episode).
		Int("player", tr.PlayerID).
		Str("state", tr.State.String()).
		Stringer("action", tr.Action).
		Str("next_state", tr.NextState.String()).
		Float64("reward", tr.Reward).
		Bool("done", tr.Done).
		Msg(msg)
}
