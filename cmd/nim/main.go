package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/app"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/play"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay (loads config.<env>.yaml)")
	games := flag.Int("games", 0, "Number of games to train the AI with (0 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (trace, debug, info, warn, error) (empty to use config default)")
	human := flag.Int("human", -2, "Human seat: 0 moves first, 1 second, -1 random (-2 to use config default)")
	delay := flag.Duration("delay", -1, "Pause before every turn (negative to use config default)")
	flag.Parse()

	cfg, err := app.Bootstrap(*configPath, *env, *logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}

	if *human == -2 {
		*human = cfg.Play.HumanPlayer
	}
	if *delay < 0 {
		*delay = time.Duration(cfg.Play.MoveDelayMs) * time.Millisecond
	}

	run, err := app.TrainAgent(cfg, *games, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}
	fmt.Printf("Done training: %d games, %d values learned\n", run.Stats.Episodes, run.Stats.TableSize)
	app.LogExperience(run, 5, rand.New(rand.NewSource(time.Now().UnixNano())), log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console, err := play.NewConsole(run.Agent, os.Stdin, os.Stdout, play.Config{
		HumanPlayer:  *human,
		InitialPiles: core.Piles(cfg.Game.InitialPiles),
		MoveDelay:    *delay,
		Logger:       log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}
	if _, err := console.Play(ctx); err != nil {
		log.Fatal().Err(err).Msg("Game aborted")
	}
}
