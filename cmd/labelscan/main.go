package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/healthyindia/labelscan/internal/buildinfo"
	"github.com/healthyindia/labelscan/internal/client/cli"
	"github.com/healthyindia/labelscan/internal/client/config"
	"github.com/healthyindia/labelscan/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
