// Venuescope - Demographic Venue Discovery and Compatibility Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuescope

// Package main is the entry point for the Venuescope server.
//
// Venuescope ranks venues for a visitor profile by fusing demographic
// estimates from multiple data sources, adjusting them for time of
// day, weather, and nearby events, and blending the result with
// static category preferences.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, and environment (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Geo index: service area bounds and zone centroids
//  4. Ranking engine: source fetchers, fusion, cache, and scorer
//  5. Supervisor tree: cache sweeper, cache refresher, HTTP server
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - VENUESCOPE_-prefixed environment variables
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests within the
// configured timeout, and stops the background loops.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/venuescope/internal/api"
	"github.com/tomtom215/venuescope/internal/config"
	"github.com/tomtom215/venuescope/internal/demographics"
	"github.com/tomtom215/venuescope/internal/logging"
	"github.com/tomtom215/venuescope/internal/supervisor"
	"github.com/tomtom215/venuescope/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet; use the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Int("zones", len(cfg.Geo.Zones)).
		Msg("Starting Venuescope")

	index, err := cfg.Geo.Index()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build zone index")
	}

	engine, err := demographics.NewEngine(
		cfg.Engine,
		demographics.DefaultPreferenceTables(),
		index,
		demographics.NewSimulatedClient(index),
		logging.Logger(),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build ranking engine")
	}

	handler := api.NewHandler(engine)
	mw := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimit,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
	})
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(logging.Logger()), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddEngineService(services.NewSweeperService(
		engine.Cache(), cfg.Engine.SweepInterval, logging.Logger()))
	if cfg.Refresh.Enabled {
		tree.AddEngineService(services.NewRefresherService(
			engine.Cache(),
			cfg.Engine.UpdateInterval,
			cfg.Refresh.RatePerSecond,
			cfg.Refresh.Burst,
			logging.Logger()))
	}
	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("Supervisor tree exited")
		os.Exit(1)
	}
	logging.Info().Msg("Shutdown complete")
}
