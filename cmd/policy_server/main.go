package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/app"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/grpc/policyserver"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/monitoring"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay (loads config.<env>.yaml)")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	games := flag.Int("games", 0, "Number of training games before serving (0 to use config default)")
	maxGames := flag.Int("max-games", -1, "Maximum concurrent games (-1 to use config default)")
	reflectionFlag := flag.String("enable-reflection", "", "Enable gRPC reflection: true or false (empty to use config default)")
	flag.Parse()

	cfg, err := app.Bootstrap(*configPath, *env, *logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = cfg.Server.Port
	}
	if *host == "" {
		*host = cfg.Server.Host
	}
	if *maxGames == -1 {
		*maxGames = cfg.Server.MaxGames
	}
	enableReflection, err := app.BoolOverride(*reflectionFlag, cfg.Server.EnableReflection)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -enable-reflection")
	}

	run, err := app.TrainAgent(cfg, *games, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}

	app.LogExperience(run, 5, rand.New(rand.NewSource(time.Now().UnixNano())), log.Logger)

	srv := policyserver.NewServer(run.Agent, core.Piles(cfg.Game.InitialPiles), *maxGames, cfg.Server.MaxPileObjects, log.Logger)
	grpcServer, healthServer := policyserver.NewGRPCServer(srv, enableReflection, log.Logger)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go srv.GameManager().RunCleanup(ctx)

	monitor := monitoring.NewGoroutineMonitor(monitoring.DefaultCheckInterval, monitoring.DefaultAlertThreshold, log.Logger)
	monitor.RegisterComponent("game_cleanup", 1)
	go monitor.Run(ctx)

	config.WatchConfig(func(_ *config.Config, err error) {
		if err != nil {
			log.Error().Err(err).Msg("Ignoring invalid config change")
			return
		}
		log.Info().Str("file", config.ConfigFilePath()).Msg("Config file changed; restart to apply training settings")
	})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		policyserver.SetServing(healthServer, false)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(config.Get().Server.GracefulShutdownDelay) * time.Second)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().
		Str("address", lis.Addr().String()).
		Int("max_games", *maxGames).
		Int("table_size", run.Stats.TableSize).
		Msg("gRPC policy server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}
