package main

import (
	"context"
	"flag"
	"fmt"

	"indexpool-go/internal/api"
	"indexpool-go/internal/common"
	"indexpool-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	amountFlag := flag.String("amount", "", "New maximum deposit in whole native units, e.g. 1000 (required)")
	callerFlag := flag.String("caller", "", "Account submitting the change (defaults to ADMIN_ADDRESS)")
	flag.Parse()

	if *amountFlag == "" {
		logger.Fatal("Missing required -amount flag")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	caller := cfg.Registry.Admin
	if *callerFlag != "" {
		if caller, err = services.Venues.Resolve(*callerFlag); err != nil {
			logger.Fatal("Unknown caller", zap.Error(err))
		}
	}

	native, amount, err := services.Venues.ParseAmount(common.NativeSymbol, *amountFlag)
	if err != nil {
		logger.Fatal("Invalid amount", zap.Error(err))
	}

	service := api.NewPortfolioService(services.Registry, services.Venues)
	result, err := service.UpdateMaxDeposit(ctx, caller, amount)
	if err != nil {
		logger.Fatal("Failed to update max deposit", zap.Error(err))
	}
	if !result.Success {
		logger.Fatal("Max deposit change rejected", zap.String("reason", result.Reason), zap.String("error", result.Error))
	}

	current, err := services.Registry.MaxDeposit(ctx)
	if err != nil {
		logger.Fatal("Failed to read max deposit", zap.Error(err))
	}
	fmt.Printf("Max deposit is now %s\n", services.Venues.FormatAmount(native, current))
}
