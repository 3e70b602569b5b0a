package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/OscarGAV/eventrely-backend/internal/config"
	"github.com/OscarGAV/eventrely-backend/internal/database"
	"github.com/OscarGAV/eventrely-backend/internal/handler"
	"github.com/OscarGAV/eventrely-backend/internal/middleware"
	"github.com/OscarGAV/eventrely-backend/internal/queue"
	"github.com/OscarGAV/eventrely-backend/internal/repository"
	"github.com/OscarGAV/eventrely-backend/internal/router"
	"github.com/OscarGAV/eventrely-backend/internal/service"
	"github.com/OscarGAV/eventrely-backend/internal/utils"
)

func newLogger(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if env == "dev" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		newLogger(os.Getenv("APP_ENV")).Fatal("load config", zap.Error(err))
	}
	log := newLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── MySQL ────────────────────────────────────────────────
	db, err := database.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal("mysql connect", zap.Error(err))
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("mysql migrate", zap.Error(err))
		}
	}

	// ── Redis (optional) ─────────────────────────────────────
	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and response cache disabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		defer rdb.Close()
	}

	// ── RabbitMQ (optional) ──────────────────────────────────
	var publisher service.Publisher = service.NopPublisher{}
	if cfg.Queue.Enabled {
		publisher = service.NewAMQPPublisher(cfg.Queue.URL)
		consumer := queue.NewAuditConsumer(cfg.Queue.URL, cfg.Queue.AuditLog, log.Named("audit"))
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	// ── Services ─────────────────────────────────────────────
	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatal("token service", zap.Error(err))
	}
	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)

	authCmd := service.NewAuthCommandService(users, utils.NewBcryptHasher(cfg.BcryptCost), tokens, log.Named("auth"))
	userQ := service.NewUserQueryService(users)
	eventCmd := service.NewEventCommandService(events, publisher, log.Named("events"))
	eventQ := service.NewEventQueryService(events)

	e := router.New(router.Deps{
		Log:         log,
		DB:          db,
		Auth:        handler.NewAuthHandler(authCmd, userQ, log),
		Events:      handler.NewEventHandler(eventCmd, eventQ, log),
		Tokens:      tokens,
		Users:       users,
		RateLimit:   middleware.NewTokenBucket(cfg.RateLimit, rdb, log.Named("ratelimit")),
		Cache:       middleware.NewRedisCache(cfg.Cache, rdb),
		CORSOrigins: cfg.CORSOrigins,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
}
