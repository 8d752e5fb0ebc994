package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zonera/scoreboard-service/internal/config"
	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scoreboard-service:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server setup failed", err)
		return err
	}
	srv.Run(ctx, stop)
	return nil
}
