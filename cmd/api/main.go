package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	if config.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	store, err := service.NewObjectStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up media storage: %v", err)
	}

	var (
		revoked service.TokenStore
		limiter *middleware.RateLimiter
	)
	if redisClient != nil {
		defer redisClient.Close()
		revoked = service.NewRedisTokenStore(redisClient)
		limiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit)
	} else {
		log.Warn("redis not configured: logout will not revoke tokens and recipe creation is not rate limited")
	}

	svc := api.Services{
		Auth:      service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, revoked),
		Users:     service.NewUserService(db),
		Catalog:   service.NewCatalogService(db),
		Recipes:   service.NewRecipeService(db, service.NewImageService(store)),
		Relations: service.NewRelationService(db),
		Shopping:  service.NewShoppingService(db),
	}
	srv := server.New(cfg, db, store, svc, api.Options{
		PageSize:      cfg.PageSize,
		RecipeLimiter: limiter,
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
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("received signal")
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
		return
	}
	log.Info("server stopped")
}
