package main

import (
	"context"
	"gin-itemtracker/infra"
	"gin-itemtracker/repositories"
	"gin-itemtracker/services"
	"os"
)

func main() {
	logger, err := infra.NewLogger(os.Getenv("ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	infra.Initialize(logger)
	cfg, err := infra.NewConfig()
	if err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	db, err := infra.SetupDB(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}

	if err := infra.Migrate(db); err != nil {
		logger.Fatalw("failed to migrate database", "error", err)
	}
	logger.Infow("database migrated")

	if !cfg.SeedAdmin {
		return
	}
	authService := services.NewAuthService(
		repositories.NewAuthRepository(db),
		services.NewBcryptHasher(cfg.BcryptCost),
		services.NewTokenService(cfg.SecretKey, cfg.AccessTokenTTL),
		logger,
	)
	created, err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatalw("failed to seed admin", "error", err)
	}
	logger.Infow("admin seed finished", "created", created)
}
