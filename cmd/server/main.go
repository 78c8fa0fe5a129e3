package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expert-match/internal/app"
	"expert-match/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	logger := c.Logger
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("cleanup error", zap.Error(err))
		}
	}()

	if cfg.Database.MigrateOnStart {
		migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := c.Migrate(migCtx)
		migCancel()
		if err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
	}

	server := app.New(c)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		logger.Fatal("invalid HTTP port", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Fiber.Listen(addr)
	}()
	logger.Info("http server starting", zap.String("addr", addr), zap.String("env", cfg.App.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Fiber.ShutdownWithContext(ctx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}
}
