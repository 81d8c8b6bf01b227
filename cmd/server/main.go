package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/config"
	"github.com/philippe-delaval/Lesot-bon/internal/api/handler"
	"github.com/philippe-delaval/Lesot-bon/internal/api/router"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/database"
	"github.com/philippe-delaval/Lesot-bon/pkg/jwt"
	"github.com/philippe-delaval/Lesot-bon/pkg/logger"
	"github.com/philippe-delaval/Lesot-bon/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, zlog)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zlog); err != nil {
		return err
	}

	// Redis is optional: without it, tokens cannot be revoked before expiry.
	redisClient, err := redis.NewClient(&cfg.Redis, zlog)
	if err != nil {
		zlog.Warn("redis unavailable, token revocation disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	jwtManager := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, jwtManager, redisClient, cfg, zlog)
	h := handler.NewHandler(svc, zlog)
	engine := router.NewRouter(h, jwtManager, svc.Auth, cfg, zlog)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	zlog.Info("server stopped")
	return nil
}
