package main

import (
	"context"
	"flag"

	"indexpool-go/internal/common"
	"indexpool-go/internal/config"

	"go.uber.org/zap"
)

func seedVenues(ctx context.Context, services *common.Services) {
	venues := services.Venues
	zap.L().Info("Seeding venues",
		zap.Int("tokens", len(venues.Tokens)),
		zap.Int("pairs", len(venues.Pairs)),
		zap.Int("pools", len(venues.Pools)),
		zap.Int("faucet_entries", len(venues.Faucet)),
		zap.Int("allowances", len(venues.Allowances)))

	if err := venues.Seed(ctx, services.DbService, services.Registry.Address()); err != nil {
		zap.L().Fatal("Failed to seed venues", zap.Error(err))
	}

	zap.L().Info("Venues seeded successfully")
}

func runInit(ctx context.Context, services *common.Services) {
	zap.L().Info("Initializing database and seeding venues")

	maxDeposit, err := services.Registry.MaxDeposit(ctx)
	if err != nil {
		zap.L().Fatal("Failed to read max deposit", zap.Error(err))
	}
	zap.L().Info("Registry ready",
		zap.String("address", services.Registry.Address().Hex()),
		zap.String("max_deposit", maxDeposit.String()))

	seedVenues(ctx, services)

	zap.L().Info("Initialization complete")
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	initFlag := flag.Bool("init", false, "Create the schema only, without seeding venues")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	if *initFlag {
		dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
		if err != nil {
			zap.L().Fatal("Failed to initialize database", zap.Error(err))
		}
		dbService.Close()
		zap.L().Info("Schema created", zap.String("path", cfg.Database.Path))
		return
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	runInit(ctx, services)
}
