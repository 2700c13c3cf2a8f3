package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowgenius/scheduler/adapter/cli"
	"github.com/flowgenius/scheduler/adapter/cli/event"
	"github.com/flowgenius/scheduler/internal/app"
	"github.com/flowgenius/scheduler/pkg/config"
	"github.com/flowgenius/scheduler/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logger := observability.NewLogger(logCfg)
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(cli.NewApp(
		container.SuggestSlotsHandler,
		container.AddEventHandler,
		container.ListEventsHandler,
		container.Health,
	))

	// Register commands
	cli.AddCommand(event.Cmd)

	// Execute CLI
	cli.Execute()
}
