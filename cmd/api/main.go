package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment == config.Production)
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DSN(), log)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.DSN()); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Redis is optional: without it tokens are revoked in memory and recipe
	// creation is not rate limited.
	var redisClient *redis.Client
	var tokens service.TokenStore
	if addr := cfg.RedisAddr(); addr != "" {
		redisClient, err = database.NewRedisClient(addr, log)
		if err != nil {
			log.WithError(err).Warn("continuing without redis")
		} else {
			defer redisClient.Close()
			tokens = service.NewRedisTokenStore(redisClient)
		}
	}

	images, err := newImageStore(cfg, log)
	if err != nil {
		log.Fatalf("failed to set up image storage: %v", err)
	}

	srv := server.New(server.Options{
		Config:        cfg,
		DB:            db,
		Auth:          service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, tokens, log),
		Images:        images,
		RecipeLimiter: middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit, log),
		Log:           log,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
		return
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	log.Info("server stopped")
}

func newImageStore(cfg *config.Config, log *logrus.Logger) (service.ImageStore, error) {
	if cfg.StorageDriver == "s3" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return service.NewS3ImageStore(s3cfg, log), nil
	}
	if err := os.MkdirAll(cfg.MediaRoot, 0o755); err != nil {
		return nil, err
	}
	return service.NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL), nil
}
