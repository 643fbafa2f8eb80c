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

package common

import (
	"context"
	"fmt"

	"indexpool-go/internal/api"
	"indexpool-go/internal/models"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// InitializePortfolios retrieves portfolios based on an optional owner filter.
// The filter may be a named account or a hex address; empty returns all portfolios.
func InitializePortfolios(ctx context.Context, service *api.PortfolioService, venues *Venues, ownerFilter string, logger *zap.Logger) ([]models.PortfolioView, error) {
	var owner ethcommon.Address
	if ownerFilter != "" {
		logger.Info("Looking up portfolios by owner", zap.String("owner", ownerFilter))
		resolved, err := venues.Resolve(ownerFilter)
		if err != nil {
			return nil, fmt.Errorf("owner not found: %w", err)
		}
		owner = resolved
	}

	portfolios, err := service.GetOwnerPortfolios(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolios: %w", err)
	}

	logger.Info("Retrieved portfolios", zap.Int("count", len(portfolios)))
	return portfolios, nil
}
