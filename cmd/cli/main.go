package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/tasklist/internal/buildinfo"
	"github.com/dmitrijs2005/tasklist/internal/client/cli"
	"github.com/dmitrijs2005/tasklist/internal/client/config"
	"github.com/dmitrijs2005/tasklist/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "error starting client", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

	if err := app.Close(); err != nil {
		logger.Error(ctx, "error closing client", "error", err)
	}
}
