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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UpdateMaxDeposit raises or lowers the deposit ceiling through the registry's self-call path
func (s *PortfolioService) UpdateMaxDeposit(ctx context.Context, caller common.Address, amount decimal.Decimal) (*models.OperationResult, error) {
	calldata, err := s.registry.EncodeSetMaxDeposit(amount)
	if err != nil {
		return &models.OperationResult{
			Success: false,
			Kind:    "setMaxDeposit",
			Error:   err.Error(),
		}, nil
	}

	zap.L().Info("Submitting max deposit change",
		zap.String("caller", caller.Hex()),
		zap.String("amount", amount.String()))

	if err := s.registry.SelfCall(ctx, caller, calldata); err != nil {
		return failedResult("setMaxDeposit", 0, err)
	}

	current, err := s.registry.MaxDeposit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read max deposit after update: %w", err)
	}
	zap.L().Info("Max deposit updated", zap.String("current", current.String()))

	return &models.OperationResult{Success: true, Kind: "setMaxDeposit"}, nil
}
