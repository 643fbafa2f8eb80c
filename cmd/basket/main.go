/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"

	"indexpool-go/internal/api"
	"indexpool-go/internal/common"
	"indexpool-go/internal/config"
	"indexpool-go/internal/models"

	"go.uber.org/zap"
)

func printResult(result *models.OperationResult) {
	common.PrintHeader("BASKET RESULT", common.DefaultWidth)
	if result.Success {
		fmt.Printf("%s succeeded for portfolio #%d\n", result.Kind, result.TokenId)
	} else {
		fmt.Printf("%s reverted: %s\n", result.Kind, result.Reason)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	planFlag := flag.String("plan", "", "Path to the basket plan YAML file (required)")
	tokenFlag := flag.Int64("token", -1, "Edit this portfolio instead of minting a new one")
	flag.Parse()

	if *planFlag == "" {
		logger.Fatal("Missing required -plan flag")
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

	plan, err := common.LoadPlan(*planFlag)
	if err != nil {
		logger.Fatal("Failed to load plan", zap.Error(err))
	}

	bridges, err := services.Venues.BuildBridges()
	if err != nil {
		logger.Fatal("Failed to build bridges", zap.Error(err))
	}
	opts, params, err := plan.Build(services.Venues, bridges)
	if err != nil {
		logger.Fatal("Failed to build plan", zap.Error(err))
	}

	service := api.NewPortfolioService(services.Registry, services.Venues)

	var result *models.OperationResult
	if *tokenFlag >= 0 {
		result, err = service.ProcessEdit(ctx, opts, uint64(*tokenFlag), params)
	} else {
		result, err = service.ProcessMint(ctx, opts, params)
	}
	if err != nil {
		logger.Fatal("Basket failed", zap.Error(err))
	}

	printResult(result)
	if !result.Success {
		logger.Fatal("Basket reverted", zap.String("reason", result.Reason))
	}

	view, err := service.GetPortfolio(ctx, result.TokenId)
	if err != nil {
		logger.Fatal("Failed to read portfolio", zap.Error(err))
	}
	fmt.Printf("┌─ Portfolio #%d wallet %s\n", view.TokenId, view.Wallet)
	common.PrintHoldings(view.Holdings, services.Venues)
}
