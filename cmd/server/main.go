package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"skill-alert/internal/app"
	"skill-alert/internal/config"
	"skill-alert/internal/database/migration"
	"skill-alert/internal/dispatch"
	applog "skill-alert/internal/pkg/logger"
	"skill-alert/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := applog.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("cleanup error", zap.Error(err))
		}
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	n, err := migration.Runner{FS: migrations.FS, Logger: logger.Named("migration")}.Run(migrateCtx, c.DB.SQLDB())
	cancelMigrate()
	if err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	logger.Info("migrations done", zap.Int("applied", n))

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		logger.Fatal("invalid HTTP port", zap.Error(err))
	}

	done := make(chan struct{})
	go c.Hub.Run(done)
	defer close(done)

	var sched *dispatch.Scheduler
	if cfg.Dispatch.Enabled {
		sched = dispatch.NewScheduler(c.Dispatcher, cfg.Dispatch.Spec, cfg.Dispatch.DigestSpec, logger.Named("scheduler"))
		if err := sched.Start(context.Background()); err != nil {
			logger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	server := app.New(c)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Fiber.ShutdownWithContext(ctx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}
}
