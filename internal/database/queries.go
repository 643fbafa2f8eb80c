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

const (
	// Balance queries
	queryGetBalance = `
		SELECT balance
		FROM account_balances
		WHERE holder = ? AND token = ?`

	queryGetAllHolderBalances = `
		SELECT id, holder, token, balance, version, updated_at
		FROM account_balances
		WHERE holder = ? AND balance != '0'
		ORDER BY token`

	queryGetAccountBalance = `
		SELECT id, balance, version
		FROM account_balances
		WHERE holder = ? AND token = ?`

	queryInsertAccountBalance = `
		INSERT INTO account_balances (id, holder, token, balance, version, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryUpdateAccountBalance = `
		UPDATE account_balances
		SET balance = ?, version = version + 1, updated_at = ?
		WHERE holder = ? AND token = ? AND version = ?`

	queryGetJournalForAccount = `
		SELECT debit_amount, credit_amount
		FROM journal_entries
		WHERE account = ? AND token = ?`

	queryInsertJournalEntry = `
		INSERT INTO journal_entries (id, reference, account, token, debit_amount, credit_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	// Supply queries
	queryGetSupply = `
		SELECT total FROM token_supply WHERE token = ?`

	queryUpsertSupply = `
		INSERT INTO token_supply (token, total) VALUES (?, ?)
		ON CONFLICT(token) DO UPDATE SET total = excluded.total`

	// Allowance queries
	queryGetAllowance = `
		SELECT amount FROM allowances WHERE owner = ? AND spender = ? AND token = ?`

	queryUpsertAllowance = `
		INSERT INTO allowances (owner, spender, token, amount) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner, spender, token) DO UPDATE SET amount = excluded.amount`

	// Portfolio queries
	queryNextTokenId = `
		SELECT COALESCE(MAX(token_id) + 1, 0) FROM portfolios`

	queryInsertPortfolio = `
		INSERT INTO portfolios (token_id, owner, wallet, edit_count, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)`

	queryGetPortfolio = `
		SELECT token_id, owner, wallet, edit_count, created_at, updated_at
		FROM portfolios
		WHERE token_id = ?`

	queryMarkPortfolioEdited = `
		UPDATE portfolios
		SET edit_count = edit_count + 1, updated_at = ?
		WHERE token_id = ?`

	queryCountPortfolios = `
		SELECT COUNT(*) FROM portfolios WHERE owner = ?`

	queryListPortfolios = `
		SELECT token_id, owner, wallet, edit_count, created_at, updated_at
		FROM portfolios
		WHERE owner = ?
		ORDER BY token_id`

	queryListAllPortfolios = `
		SELECT token_id, owner, wallet, edit_count, created_at, updated_at
		FROM portfolios
		ORDER BY token_id`

	queryInsertRegistration = `
		INSERT INTO registrations (id, creator, name, created_at)
		VALUES (?, ?, ?, ?)`

	// Event queries
	queryInsertEvent = `
		INSERT INTO events (id, operation_id, token_id, kind, actor, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetEvents = `
		SELECT id, operation_id, token_id, kind, actor, data, created_at
		FROM events
		WHERE token_id = ?
		ORDER BY rowid
		LIMIT ? OFFSET ?`

	// Setting queries
	queryGetSetting = `
		SELECT value FROM settings WHERE key = ?`

	queryUpsertSetting = `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)
