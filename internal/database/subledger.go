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

package database

import (
	"database/sql"
)

// SubledgerService owns the token ledger schema: balances, allowances, supply and journal
type SubledgerService struct {
	db *sql.DB
}

func NewSubledgerService(db *sql.DB) *SubledgerService {
	return &SubledgerService{
		db: db,
	}
}

// InitSchema creates the ledger tables. Amounts are TEXT so base units never pass through a float.
func (s *SubledgerService) InitSchema() error {
	schema := `
	-- Account Balances Table (Current State - Hot Data)
	CREATE TABLE IF NOT EXISTS account_balances (
		id TEXT PRIMARY KEY,
		holder TEXT NOT NULL,
		token TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0',
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(holder, token)
	);

	CREATE INDEX IF NOT EXISTS idx_account_balances_holder ON account_balances(holder);
	CREATE INDEX IF NOT EXISTS idx_account_balances_token ON account_balances(token);

	-- Spending approvals granted by token holders
	CREATE TABLE IF NOT EXISTS allowances (
		owner TEXT NOT NULL,
		spender TEXT NOT NULL,
		token TEXT NOT NULL,
		amount TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (owner, spender, token)
	);

	-- Total minted minus burned per token
	CREATE TABLE IF NOT EXISTS token_supply (
		token TEXT PRIMARY KEY,
		total TEXT NOT NULL DEFAULT '0'
	);

	-- Journal Entries for Double-Entry Bookkeeping (Audit Trail - Cold Data)
	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		reference TEXT NOT NULL,
		account TEXT NOT NULL,
		token TEXT NOT NULL,
		debit_amount TEXT NOT NULL DEFAULT '0',
		credit_amount TEXT NOT NULL DEFAULT '0',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_journal_reference ON journal_entries(reference);
	CREATE INDEX IF NOT EXISTS idx_journal_account ON journal_entries(account, token);
	`

	_, err := s.db.Exec(schema)
	return err
}
