package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jobpulse/analyzer/internal/api"
	"github.com/jobpulse/analyzer/internal/bootstrap"
	"github.com/jobpulse/analyzer/internal/config"
	"github.com/jobpulse/analyzer/internal/search"
	"github.com/jobpulse/analyzer/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Server.Debug)
	defer logger.Sync()

	logger.Info("Starting Job Posting Analyzer API",
		zap.Bool("debug", cfg.Server.Debug),
		zap.String("fetcher", cfg.Scraper.Fetcher),
	)

	linkedin, closeFetcher := bootstrap.Scraper(cfg, logger.Get())
	defer closeFetcher()

	charts, err := bootstrap.Charts(cfg)
	if err != nil {
		logger.Fatal("Failed to load chart assets", zap.Error(err))
	}

	queue := search.NewQueue(linkedin, bootstrap.Aggregator(cfg), cfg.Queue.Capacity, cfg.Queue.MaxPages, logger.Named("queue"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go queue.Run(ctx)

	app := api.NewApp(cfg, &api.Dependencies{
		Searches: queue,
		Charts:   charts,
		Logger:   logger.Named("http"),
	})

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gracefully...")
		_ = app.Shutdown()
	}()

	addr := cfg.Server.Address()
	logger.Info("Server starting", zap.String("address", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}
