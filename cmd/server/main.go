package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	_ "casaads/docs" // swagger docs

	"casaads/internal/auth"
	"casaads/internal/cache"
	"casaads/internal/config"
	"casaads/internal/db"
	"casaads/internal/handler"
	"casaads/internal/middleware"
	"casaads/internal/repository"
	"casaads/internal/router"
	"casaads/internal/service"
)

// @title Casaads API
// @version 1.0
// @description Real-estate classifieds API with JWT authentication and property listings.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)

	userRepo := repository.NewUserRepository(database)
	listingRepo := repository.NewListingRepository(database)

	authService := service.NewAuthService(userRepo, jwtService)
	listingService := service.NewListingService(listingRepo, cacheClient)
	userService := service.NewUserService(userRepo)

	gate := middleware.NewAuthGate(jwtService, userRepo)

	e := echo.New()
	e.HideBanner = true

	router.Register(
		e,
		cfg,
		gate,
		handler.NewAuthHandler(authService),
		handler.NewListingHandler(listingService),
		handler.NewUserHandler(userService),
	)

	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
