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

package store

import (
	"context"

	"indexpool-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// NativeToken is the pseudo-token address for the chain's native currency.
var NativeToken = common.Address{}

// Ledger is the balance view that wallets and bridge adapters act on. Movements
// are visible to the enclosing unit of work immediately and persist only if it commits.
type Ledger interface {
	BalanceOf(ctx context.Context, holder, token common.Address) (decimal.Decimal, error)
	Transfer(ctx context.Context, from, to, token common.Address, amount decimal.Decimal) error
	Mint(ctx context.Context, to, token common.Address, amount decimal.Decimal) error
	Burn(ctx context.Context, from, token common.Address, amount decimal.Decimal) error
	TotalSupply(ctx context.Context, token common.Address) (decimal.Decimal, error)
}

// UnitOfWork is everything a registry operation may touch atomically.
type UnitOfWork interface {
	Ledger

	// --- Allowances ---
	Allowance(ctx context.Context, owner, spender, token common.Address) (decimal.Decimal, error)
	Approve(ctx context.Context, owner, spender, token common.Address, amount decimal.Decimal) error
	TransferFrom(ctx context.Context, spender, from, to, token common.Address, amount decimal.Decimal) error

	// --- Balances ---
	GetAllBalances(ctx context.Context, holder common.Address) ([]models.AccountBalance, error)
	ReconcileBalance(ctx context.Context, holder, token common.Address) error

	// --- Portfolios ---
	NextTokenId(ctx context.Context) (uint64, error)
	InsertPortfolio(ctx context.Context, portfolio models.Portfolio) error
	GetPortfolio(ctx context.Context, tokenId uint64) (*models.Portfolio, error)
	MarkPortfolioEdited(ctx context.Context, tokenId uint64) error
	CountPortfolios(ctx context.Context, owner common.Address) (uint64, error)
	ListPortfolios(ctx context.Context, owner common.Address) ([]models.Portfolio, error)
	InsertRegistration(ctx context.Context, registration models.Registration) error

	// --- Events ---
	AppendEvent(ctx context.Context, event models.Event) error
	GetEvents(ctx context.Context, tokenId uint64, limit, offset int) ([]models.Event, error)

	// --- Settings ---
	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Store opens units of work. Atomic commits only when fn returns nil; View always rolls back.
type Store interface {
	Atomic(ctx context.Context, fn func(UnitOfWork) error) error
	View(ctx context.Context, fn func(UnitOfWork) error) error
	Close()
}
