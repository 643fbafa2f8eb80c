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

package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Event kinds written to the events table
const (
	EventPortfolioMinted     = "PortfolioMinted"
	EventPortfolioEdited     = "PortfolioEdited"
	EventPortfolioRegistered = "PortfolioRegistered"
	EventMaxDepositChanged   = "MaxDepositChanged"
	EventBridgeCallExecuted  = "BridgeCallExecuted"
)

// Portfolio is the ownership token for a basket of positions held by its wallet
type Portfolio struct {
	TokenId   uint64         `db:"token_id"`
	Owner     common.Address `db:"owner"`
	Wallet    common.Address `db:"wallet"`
	EditCount int64          `db:"edit_count"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// AccountBalance represents current balance state of one holder for one token
type AccountBalance struct {
	Id        string          `db:"id"`
	Holder    common.Address  `db:"holder"`
	Token     common.Address  `db:"token"`
	Balance   decimal.Decimal `db:"balance"`
	Version   int64           `db:"version"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// JournalEntry is one side of a double-entry ledger movement
type JournalEntry struct {
	Id        string          `db:"id"`
	Reference string          `db:"reference"`
	Account   common.Address  `db:"account"`
	Token     common.Address  `db:"token"`
	Debit     decimal.Decimal `db:"debit_amount"`
	Credit    decimal.Decimal `db:"credit_amount"`
	CreatedAt time.Time       `db:"created_at"`
}

// Registration associates a human readable name with a creator
type Registration struct {
	Id        string         `db:"id"`
	Creator   common.Address `db:"creator"`
	Name      string         `db:"name"`
	CreatedAt time.Time      `db:"created_at"`
}

// Event is an append-only log row. TokenId is nil for registry-wide events.
type Event struct {
	Id          string         `db:"id"`
	OperationId string         `db:"operation_id"`
	TokenId     *uint64        `db:"token_id"`
	Kind        string         `db:"kind"`
	Actor       common.Address `db:"actor"`
	Data        string         `db:"data"`
	CreatedAt   time.Time      `db:"created_at"`
}
