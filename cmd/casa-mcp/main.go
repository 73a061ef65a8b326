package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casa/pkg/api/schema"
	"casa/pkg/config"
	"casa/pkg/db"
	"casa/pkg/discovery"
	"casa/pkg/fleet"
	casamcp "casa/pkg/mcp"
)

func main() {
	// Logging must go to stderr; stdout is the MCP transport.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

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
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
	}

	validator, err := schema.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build payload validator")
	}

	commander := fleet.NewCommander(database.Switches())
	reconciler := discovery.NewReconciler(database.Switches())
	runner := discovery.NewRunner(discovery.NewProber(), reconciler, cfg.Discovery.Interval)

	server := casamcp.NewServer(database, commander, runner, validator)

	log.Info().Msg("Starting MCP server on stdio")
	if err := server.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
