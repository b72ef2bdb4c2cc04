package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"filedrive/internal/engine/favorites"
	"filedrive/internal/engine/files"
	"filedrive/internal/engine/retention"
	"filedrive/internal/pkg/logger"
	"filedrive/internal/platform/config"
	"filedrive/internal/platform/database"
	"filedrive/internal/platform/storage"
	"filedrive/internal/workers"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	blobs, err := storage.NewDiskStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	sweeper := retention.NewSweeper(
		files.NewRepository(db),
		favorites.NewRepository(db),
		blobs,
		cfg.Retention.Period,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.RunRetentionSweeper(ctx, sweeper, cfg.Retention.SweepInterval)
}
