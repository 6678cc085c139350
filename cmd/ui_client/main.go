package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/app"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui/match"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay (loads config.<env>.yaml)")
	games := flag.Int("games", 0, "Number of games to train the AI with (0 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (empty to use config default)")
	human := flag.Int("human", -2, "Human seat: 0 moves first, 1 second, -1 random (-2 to use config default)")
	flag.Parse()

	cfg, err := app.Bootstrap(*configPath, *env, *logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	if *human == -2 {
		*human = cfg.Play.HumanPlayer
	}
	if *human == -1 {
		*human = rand.New(rand.NewSource(time.Now().UnixNano())).Intn(2)
	}

	run, err := app.TrainAgent(cfg, *games, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}

	uiGame, err := ui.NewHumanGame(run.Agent, match.Config{
		InitialPiles: core.Piles(cfg.Game.InitialPiles),
		HumanPlayer:  *human,
		AIDelay:      cfg.UI.AIDelayFrames,
		Logger:       log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}

	ebiten.SetWindowSize(cfg.UI.Window.Width, cfg.UI.Window.Height)
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(uiGame); err != nil {
		log.Fatal().Err(err).Msg("UI exited with error")
	}
}
