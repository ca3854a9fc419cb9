// Package main is the entry point for Ashardalon.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/game"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/logging"
	"github.com/samdwyer/ashardalon/internal/rng"
	"github.com/samdwyer/ashardalon/internal/server"
	"github.com/samdwyer/ashardalon/internal/storage/sqlite"
	"github.com/samdwyer/ashardalon/internal/telemetry"
)

func main() {
	os.Exit(start())
}

// start runs the game and returns the process exit code once every deferred
// cleanup has run.
func start() int {
	// Load .env file for local development
	// This makes HONEYCOMB_ASHARDALON_API_KEY and ASHARDALON_* available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 2
	}

	var logOpts []logging.Option
	if !cfg.Headless {
		logOpts = append(logOpts, logging.WithOutput(cfg.LogFile))
	}
	logger, err := logging.New(cfg.LogLevel, cfg.DevLog, logOpts...)
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry {
		shutdown, err := telemetry.Setup(ctx,
			telemetry.WithHoneycomb(cfg.HoneycombAPIKey, cfg.HoneycombDataset),
			telemetry.WithSampleRatio(cfg.TraceSampleRatio),
		)
		if err != nil {
			logger.Warn("telemetry setup failed, running without observability", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown", zap.Error(err))
				}
			}()
		}
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ashardalon stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg game.Config, logger *zap.Logger) error {
	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	eng := engine.New(catalog)
	var session *game.Session
	if cfg.Resume != "" {
		session, err = game.ResumeSession(ctx, eng, store, logger, cfg.Resume)
	} else {
		setup := cfg.Setup()
		if setup.Seed == 0 {
			if setup.Seed, err = rng.NewSeed(); err != nil {
				return fmt.Errorf("generate seed: %w", err)
			}
		}
		session, err = game.NewSession(ctx, eng, store, logger, setup)
	}
	if err != nil {
		return err
	}
	logger.Info("playing", zap.String("game_id", session.ID()), zap.String("db", cfg.DBPath))

	g, ctx := errgroup.WithContext(ctx)
	if cfg.ListenAddr != "" {
		srv := server.New(session, logger, server.WithOriginPatterns(cfg.AllowedOrigins...))
		g.Go(func() error { return srv.ListenAndServe(ctx, cfg.ListenAddr) })
	}
	if !cfg.Headless {
		term, err := game.New(session, catalog, logger)
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		g.Go(func() error {
			if err := term.Run(ctx); err != nil {
				return err
			}
			// Quitting the terminal ends the program, server included.
			return errQuit
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

var errQuit = errors.New("quit")
