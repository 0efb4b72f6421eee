package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gamebank/internal/config"
	"gamebank/internal/infrastructure"
)

type bootstrapFunc func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*infrastructure.App, func(), error)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger, err := infrastructure.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logger, infrastructure.Bootstrap)
	stop()
	os.Exit(code)
}

// run returns the process exit code. Connections opened by bootstrap are
// released before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, bootstrap bootstrapFunc) int {
	app, cleanup, err := bootstrap(ctx, cfg, logger)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		return 1
	}

	logger.Info("gamebank is running")
	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", "error", err)
		return 1
	}
	logger.Info("gamebank stopped")
	return 0
}
