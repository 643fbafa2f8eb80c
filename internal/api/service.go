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

	"indexpool-go/internal/indexpool"

	"github.com/ethereum/go-ethereum/common"
)

// TokenNamer maps token addresses to display symbols.
type TokenNamer interface {
	Symbol(token common.Address) string
}

// PortfolioService is the read and write surface the command line tools use
type PortfolioService struct {
	registry *indexpool.Registry
	namer    TokenNamer
}

func NewPortfolioService(registry *indexpool.Registry, namer TokenNamer) *PortfolioService {
	return &PortfolioService{
		registry: registry,
		namer:    namer,
	}
}

func (s *PortfolioService) HealthCheck(ctx context.Context) error {
	if _, err := s.registry.MaxDeposit(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (s *PortfolioService) symbol(token common.Address) string {
	if s.namer == nil {
		return ""
	}
	return s.namer.Symbol(token)
}
