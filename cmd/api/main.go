package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/config"
	dbpkg "github.com/BruksfildServices01/barberbook/internal/db"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/barberbook/internal/infra/repository"
	"github.com/BruksfildServices01/barberbook/internal/logger"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/retry"
	"github.com/BruksfildServices01/barberbook/internal/routes"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barberbook/internal/usecase/appointment"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// INFRA
	// ======================================================
	db, err := dbpkg.NewDB(ctx, cfg, zl.Named("db"))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	loc := timezone.Location(cfg.Timezone)
	schedule := ucAppointment.Schedule{
		Clock: timezone.NewClock(loc),
		Hours: domain.DefaultHours{
			Start: cfg.DefaultOpenTime,
			End:   cfg.DefaultCloseTime,
		},
		StorageTimeout: cfg.StorageTimeout,
	}

	hub := realtime.NewHub()
	defer hub.Close()

	var (
		notifier    realtime.Notifier = hub
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		redisClient, err = realtime.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		rn := realtime.NewRedisNotifier(redisClient, hub, zl.Named("realtime"))
		go rn.Listen(ctx, retry.Policy{
			MaxElapsed: 5 * time.Minute,
			Initial:    500 * time.Millisecond,
			Max:        30 * time.Second,
		})
		notifier = rn
	} else {
		zl.Info("REDIS_URL not set, realtime events stay in process")
	}

	dispatcher := audit.NewDispatcher(audit.New(db), zl.Named("audit"))

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Log:      zl,
		DB:       db,
		Redis:    redisClient,
		Repo:     infraRepo.NewAppointmentGormRepository(db, loc),
		Schedule: schedule,
		Notifier: notifier,
		Audit:    dispatcher,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Open streams end when their subscriptions close.
	hub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		zl.Warn("audit drain", zap.Error(err))
	}
	return nil
}
