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

package api

import (
	"context"
	"fmt"

	"indexpool-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// GetPortfolio returns a portfolio with its current holdings
func (s *PortfolioService) GetPortfolio(ctx context.Context, tokenId uint64) (*models.PortfolioView, error) {
	portfolio, err := s.registry.Portfolio(ctx, tokenId)
	if err != nil {
		zap.L().Error("Failed to get portfolio", zap.Uint64("token_id", tokenId), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve portfolio %d: %w", tokenId, err)
	}
	return s.view(ctx, *portfolio)
}

// GetOwnerPortfolios returns every portfolio held by owner, or all portfolios for the zero address
func (s *PortfolioService) GetOwnerPortfolios(ctx context.Context, owner common.Address) ([]models.PortfolioView, error) {
	portfolios, err := s.registry.Portfolios(ctx, owner)
	if err != nil {
		zap.L().Error("Failed to list portfolios", zap.String("owner", owner.Hex()), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve portfolios")
	}

	result := make([]models.PortfolioView, 0, len(portfolios))
	for _, portfolio := range portfolios {
		view, err := s.view(ctx, portfolio)
		if err != nil {
			return nil, err
		}
		result = append(result, *view)
	}
	return result, nil
}

// GetHistory returns a page of the events recorded against a portfolio
func (s *PortfolioService) GetHistory(ctx context.Context, tokenId uint64, limit, offset int) ([]models.EventRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	events, err := s.registry.Events(ctx, tokenId, limit, offset)
	if err != nil {
		zap.L().Error("Failed to get portfolio history", zap.Uint64("token_id", tokenId), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve history")
	}

	result := make([]models.EventRecord, len(events))
	for i, event := range events {
		result[i] = models.EventRecord{
			Id:        event.Id,
			Kind:      event.Kind,
			Actor:     event.Actor.Hex(),
			Data:      event.Data,
			CreatedAt: event.CreatedAt,
		}
	}
	return result, nil
}

func (s *PortfolioService) view(ctx context.Context, portfolio models.Portfolio) (*models.PortfolioView, error) {
	balances, err := s.registry.Holdings(ctx, portfolio.TokenId)
	if err != nil {
		zap.L().Error("Failed to get holdings", zap.Uint64("token_id", portfolio.TokenId), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve holdings")
	}

	holdings := make([]models.Holding, len(balances))
	for i, balance := range balances {
		holdings[i] = models.Holding{
			Token:   balance.Token.Hex(),
			Symbol:  s.symbol(balance.Token),
			Balance: balance.Balance,
		}
	}

	return &models.PortfolioView{
		TokenId:   portfolio.TokenId,
		Owner:     portfolio.Owner.Hex(),
		Wallet:    portfolio.Wallet.Hex(),
		EditCount: portfolio.EditCount,
		Holdings:  holdings,
		UpdatedAt: portfolio.UpdatedAt,
	}, nil
}
