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

type portfolioStats struct {
	totalPortfolios int
	totalHoldings   int
	emptyPortfolios int
}

func printPortfolioHeader(portfolio models.PortfolioView) {
	fmt.Printf("\n┌─ Portfolio #%d\n", portfolio.TokenId)
	fmt.Printf("│  Owner:  %s\n", portfolio.Owner)
	fmt.Printf("│  Wallet: %s\n", portfolio.Wallet)
	fmt.Printf("│  Edits:  %d (updated: %s)\n", portfolio.EditCount, portfolio.UpdatedAt.Format("2006-01-02 15:04:05"))
	common.PrintBoxSeparator(common.BoxWidth)
}

func printHistory(ctx context.Context, service *api.PortfolioService, tokenId uint64, logger *zap.Logger) {
	events, err := service.GetHistory(ctx, tokenId, 20, 0)
	if err != nil {
		logger.Error("Failed to get history", zap.Uint64("token_id", tokenId), zap.Error(err))
		return
	}
	for i, event := range events {
		fmt.Printf("%s %s by %s at %s\n",
			common.BoxDetailPrefix(i == len(events)-1),
			event.Kind,
			common.ShortAddress(event.Actor),
			event.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func generateReport(ctx context.Context, service *api.PortfolioService, venues *common.Venues, portfolios []models.PortfolioView, history bool, logger *zap.Logger) portfolioStats {
	stats := portfolioStats{}

	for _, portfolio := range portfolios {
		stats.totalPortfolios++
		stats.totalHoldings += len(portfolio.Holdings)
		if len(portfolio.Holdings) == 0 {
			stats.emptyPortfolios++
		}

		printPortfolioHeader(portfolio)
		common.PrintHoldings(portfolio.Holdings, venues)
		if history {
			common.PrintBoxSeparator(common.BoxWidth)
			printHistory(ctx, service, portfolio.TokenId, logger)
		}
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ownerFlag := flag.String("owner", "", "Filter by owner account name or address (optional)")
	historyFlag := flag.Bool("history", false, "Print each portfolio's event history")
	flag.Parse()

	logger.Info("Starting portfolio query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	service := api.NewPortfolioService(services.Registry, services.Venues)
	if err := service.HealthCheck(ctx); err != nil {
		logger.Fatal("Health check failed", zap.Error(err))
	}

	portfolios, err := common.InitializePortfolios(ctx, service, services.Venues, *ownerFlag, logger)
	if err != nil {
		logger.Fatal("Failed to load portfolios", zap.Error(err))
	}

	common.PrintHeader("PORTFOLIO HOLDINGS REPORT", common.DefaultWidth)

	stats := generateReport(ctx, service, services.Venues, portfolios, *historyFlag, logger)

	summary := fmt.Sprintf("SUMMARY: %d portfolios (%d holdings, %d empty)",
		stats.totalPortfolios, stats.totalHoldings, stats.emptyPortfolios)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Portfolio query completed",
		zap.Int("portfolios", stats.totalPortfolios),
		zap.Int("holdings", stats.totalHoldings),
		zap.Int("empty_portfolios", stats.emptyPortfolios))
}
