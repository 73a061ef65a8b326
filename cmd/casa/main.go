package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casa/pkg/api"
	"casa/pkg/awaymode"
	"casa/pkg/config"
	"casa/pkg/db"
	"casa/pkg/discovery"
	"casa/pkg/fleet"

	_ "casa/docs"
)

// @title           Casa API
// @version         1.0
// @description     REST API for managing a fleet of WeMo smart switches

// @host      localhost:8085
// @BasePath  /api/v1
// @schemes   http

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Logging.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
	}

	zone, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve time zone")
	}

	commander := fleet.NewCommander(database.Switches())
	reconciler := discovery.NewReconciler(database.Switches())
	runner := discovery.NewRunner(discovery.NewProber(), reconciler, cfg.Discovery.Interval)

	sun := awaymode.NewSunProvider(cfg.AwayMode.Latitude, cfg.AwayMode.Longitude)
	scheduler := awaymode.NewScheduler(database.Settings(), commander, sun, zone)

	// Background loops
	go runner.Run(ctx)
	go scheduler.Run(ctx, cfg.AwayMode.TickInterval)

	// Create and start API router
	router, err := api.NewRouter(database, commander, runner)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build API router")
	}

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		cancel()
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	log.Info().Str("address", cfg.HTTP.Addr).Msg("Starting API server")
	if err := router.Run(cfg.HTTP.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
