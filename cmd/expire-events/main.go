// Command expire-events marks every pending reminder whose date has passed
// as expired, then exits. Run it from an external scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/config"
	"github.com/OscarGAV/eventrely-backend/internal/database"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
	"github.com/OscarGAV/eventrely-backend/internal/service"
)

func main() {
	batch := flag.Int("batch", service.DefaultExpireBatch, "events loaded per query")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *batch, log); err != nil {
		log.Error("expire sweep failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, batch int, log *zap.Logger) error {
	db, err := database.Open(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	var publisher service.Publisher = service.NopPublisher{}
	if cfg.Queue.Enabled {
		publisher = service.NewAMQPPublisher(cfg.Queue.URL)
	}

	svc := service.NewEventCommandService(repository.NewEventRepo(db), publisher, log)
	n, err := svc.ExpireOverdue(ctx, batch)
	if err != nil {
		return fmt.Errorf("expired %d before failing: %w", n, err)
	}
	log.Info("expire sweep done", zap.Int("expired", n))
	return nil
}
