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

	"github.com/shopspring/decimal"
)

// Holding represents one token balance held by a portfolio wallet
type Holding struct {
	Token   string          `json:"token"`
	Symbol  string          `json:"symbol,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}

// PortfolioView is the read model returned for a single portfolio
type PortfolioView struct {
	TokenId   uint64    `json:"token_id"`
	Owner     string    `json:"owner"`
	Wallet    string    `json:"wallet"`
	EditCount int64     `json:"edit_count"`
	Holdings  []Holding `json:"holdings"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventRecord represents an event in a portfolio's history
type EventRecord struct {
	Id        string    `json:"id"`
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	Data      string    `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OperationResult represents the outcome of a mint, edit, registration or governance call
type OperationResult struct {
	Success        bool   `json:"success"`
	Kind           string `json:"kind"`
	TokenId        uint64 `json:"token_id"`
	RegistrationId string `json:"registration_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Error          string `json:"error,omitempty"`
}
