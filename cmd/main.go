package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/playtube/playtube-api/config"
	"github.com/playtube/playtube-api/db"
	"github.com/playtube/playtube-api/internal/lib/sl"
	"github.com/playtube/playtube-api/internal/media"
	"github.com/playtube/playtube-api/internal/user/handler"
	repo "github.com/playtube/playtube-api/internal/user/repository/mongodb"
	"github.com/playtube/playtube-api/internal/user/service"
)

func main() {
	cfg := config.Load()
	logger := setupLogger(cfg.Env)

	ctx := context.Background()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("failed to connect to MongoDB", sl.Err(err))
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	database := client.Database(cfg.DBName)

	userRepo, err := repo.NewUserRepository(ctx, database)
	if err != nil {
		logger.Error("failed to set up user repository", sl.Err(err))
		os.Exit(1)
	}
	subscriptionRepo, err := repo.NewSubscriptionRepository(ctx, database)
	if err != nil {
		logger.Error("failed to set up subscription repository", sl.Err(err))
		os.Exit(1)
	}

	uploader, err := media.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		logger.Error("failed to configure media uploader", sl.Err(err))
		os.Exit(1)
	}

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := service.NewUserService(logger, userRepo, subscriptionRepo, tokenService, uploader)

	authHandler := handler.NewAuthHandler(userService, tokenService, cfg.TempDir)
	userHandler := handler.NewUserHandler(userService, cfg.TempDir)

	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: handler.NewErrorHandler(logger),
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: cfg.CORSOrigin != "*",
	}))
	app.Static("/", "./public")

	handler.RegisterRoutes(app, authHandler, userHandler, handler.RequireAuth(tokenService, userRepo))

	logger.Info("server listening", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", sl.Err(err))
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	var h slog.Handler
	if env == "production" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(h)
}
