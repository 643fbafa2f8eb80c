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
	"errors"

	"indexpool-go/internal/indexpool"
	"indexpool-go/internal/models"
	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ProcessMint mints a portfolio. Reverts are reported in the result; only
// infrastructure failures are returned as errors.
func (s *PortfolioService) ProcessMint(ctx context.Context, opts indexpool.CallOpts, params indexpool.PortfolioParams) (*models.OperationResult, error) {
	zap.L().Info("Processing portfolio mint",
		zap.String("from", opts.From.Hex()),
		zap.String("recipient", params.Recipient.Hex()),
		zap.String("value", opts.Value.String()),
		zap.Int("inputs", len(params.InputTokens)),
		zap.Int("bridge_calls", len(params.BridgeAddresses)))

	tokenId, err := s.registry.MintPortfolio(ctx, opts, params)
	if err != nil {
		return failedResult("mint", 0, err)
	}

	return &models.OperationResult{Success: true, Kind: "mint", TokenId: tokenId}, nil
}

// ProcessEdit runs a new deposit and bridge sequence against an existing portfolio
func (s *PortfolioService) ProcessEdit(ctx context.Context, opts indexpool.CallOpts, tokenId uint64, params indexpool.PortfolioParams) (*models.OperationResult, error) {
	zap.L().Info("Processing portfolio edit",
		zap.String("from", opts.From.Hex()),
		zap.Uint64("token_id", tokenId),
		zap.String("value", opts.Value.String()),
		zap.Int("inputs", len(params.InputTokens)),
		zap.Int("bridge_calls", len(params.BridgeAddresses)))

	if err := s.registry.EditPortfolio(ctx, opts, tokenId, params); err != nil {
		return failedResult("edit", tokenId, err)
	}

	return &models.OperationResult{Success: true, Kind: "edit", TokenId: tokenId}, nil
}

// ProcessRegister records a named portfolio for caller
func (s *PortfolioService) ProcessRegister(ctx context.Context, caller common.Address, name string) (*models.OperationResult, error) {
	zap.L().Info("Processing portfolio registration",
		zap.String("creator", caller.Hex()),
		zap.String("name", name))

	registration, err := s.registry.RegisterPortfolio(ctx, caller, name)
	if err != nil {
		return failedResult("register", 0, err)
	}

	return &models.OperationResult{Success: true, Kind: "register", RegistrationId: registration.Id}, nil
}

func failedResult(kind string, tokenId uint64, err error) (*models.OperationResult, error) {
	var revert *store.Revert
	if !errors.As(err, &revert) {
		zap.L().Error("Portfolio operation failed", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	zap.L().Warn("Portfolio operation reverted",
		zap.String("kind", kind),
		zap.Uint64("token_id", tokenId),
		zap.String("reason", revert.Reason))
	return &models.OperationResult{
		Success: false,
		Kind:    kind,
		TokenId: tokenId,
		Reason:  revert.Reason,
		Error:   err.Error(),
	}, nil
}
