package main

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/seed"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(cfg.LogMode, cfg.LogFile).Named("seed")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	userID, err := seed.Apply(ctx, pool)
	if err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}

	log.Info("seed applied",
		zap.String("user_id", userID),
		zap.String("email", seed.DemoAccount.Email),
		zap.String("password", seed.DemoAccount.Password),
	)
}
