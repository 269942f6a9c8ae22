package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/auth"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/config"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/database"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/handler"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/middleware"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/queue"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/repository"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/router"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	cancel()

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLMin) * time.Minute,
	})

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	shares := repository.NewShareRepo(db)

	authHandler := handler.NewAuthHandler(cfg, tokens, users)
	eventHandler := handler.NewEventHandler(users, events, shares)

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, rdb)
	router.RegisterAuth(e, authHandler, tokens)
	router.RegisterEvents(e, eventHandler, tokens)

	// Activity feed consumer; reconnects forever in the background.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
