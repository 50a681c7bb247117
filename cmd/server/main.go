package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discordwell/hyperdraft/internal/config"
	"github.com/discordwell/hyperdraft/internal/decks"
	"github.com/discordwell/hyperdraft/internal/game"
	"github.com/discordwell/hyperdraft/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting hyperdraft server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	deckFile, err := decks.Load(cfg.Decks.Path)
	if err != nil {
		logger.Fatal("failed to load deck file",
			zap.String("path", cfg.Decks.Path),
			zap.Error(err))
	}
	logger.Info("deck file loaded",
		zap.String("path", cfg.Decks.Path),
		zap.Int("decks", len(deckFile.Decks)),
	)

	engine := game.NewEngine(game.GameOptions{
		StartingLife:  cfg.Game.StartingLife,
		HandSize:      cfg.Game.HandSize,
		MaxDrain:      cfg.Game.MaxDrain,
		Seed:          time.Now().UnixNano(),
		ChoiceTimeout: cfg.Game.ChoiceTimeout,
	}, logger)
	logger.Info("game engine initialized",
		zap.Int("starting_life", cfg.Game.StartingLife),
		zap.Int("hand_size", cfg.Game.HandSize),
	)

	gateway := server.NewServer(engine, deckFile, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: gateway.Handler(),
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go gateway.SweepChoices(sweepCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting websocket server", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("websocket server error", zap.Error(serveErr))
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("hyperdraft server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
