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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"indexpool-go/internal/models"
	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BalanceOf returns current balance for holder/token (O(1) lookup)
func (t *Tx) BalanceOf(ctx context.Context, holder, token common.Address) (decimal.Decimal, error) {
	var balanceStr string
	err := t.tx.QueryRowContext(ctx, queryGetBalance, holder.Hex(), token.Hex()).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		// No balance record means zero balance
		return decimal.Zero, nil
	}
	if err != nil {
		zap.L().Error("Failed to get balance", zap.String("holder", holder.Hex()), zap.String("token", token.Hex()), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
	}
	return balance, nil
}

// adjustBalance applies delta to holder/token with optimistic locking and refuses to go below zero
func (t *Tx) adjustBalance(ctx context.Context, holder, token common.Address, delta decimal.Decimal) (decimal.Decimal, error) {
	var accountId, currentBalanceStr string
	var version int64

	err := t.tx.QueryRowContext(ctx, queryGetAccountBalance, holder.Hex(), token.Hex()).Scan(&accountId, &currentBalanceStr, &version)

	currentBalance := decimal.Zero
	if errors.Is(err, sql.ErrNoRows) {
		accountId = uuid.New().String()
		version = 1
		_, err = t.tx.ExecContext(ctx, queryInsertAccountBalance, accountId, holder.Hex(), token.Hex(), "0", version, time.Now().UTC())
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to create account balance: %w", err)
		}
	} else if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get current balance: %w", err)
	} else {
		currentBalance, err = decimal.NewFromString(currentBalanceStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse current balance '%s': %w", currentBalanceStr, err)
		}
	}

	newBalance := currentBalance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s holds %s of %s, needs %s",
			store.ErrInsufficientBalance, holder.Hex(), currentBalance.String(), token.Hex(), delta.Neg().String())
	}

	result, err := t.tx.ExecContext(ctx, queryUpdateAccountBalance, newBalance.String(), time.Now().UTC(), holder.Hex(), token.Hex(), version)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return decimal.Zero, fmt.Errorf("balance update failed - %w", store.ErrConcurrentModification)
	}

	return newBalance, nil
}

// GetAllBalances returns all non-zero balances for a holder
func (t *Tx) GetAllBalances(ctx context.Context, holder common.Address) ([]models.AccountBalance, error) {
	zap.L().Debug("Getting all balances", zap.String("holder", holder.Hex()))

	rows, err := t.tx.QueryContext(ctx, queryGetAllHolderBalances, holder.Hex())
	if err != nil {
		zap.L().Error("Failed to get all balances", zap.String("holder", holder.Hex()), zap.Error(err))
		return nil, fmt.Errorf("failed to get all balances: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var balances []models.AccountBalance
	for rows.Next() {
		var balance models.AccountBalance
		var holderStr, tokenStr, balanceStr string
		err := rows.Scan(&balance.Id, &holderStr, &tokenStr, &balanceStr, &balance.Version, &balance.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}

		balance.Holder = common.HexToAddress(holderStr)
		balance.Token = common.HexToAddress(tokenStr)
		balance.Balance, err = decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
		}

		balances = append(balances, balance)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during balance row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating balance rows: %w", err)
	}

	zap.L().Debug("Retrieved all balances", zap.String("holder", holder.Hex()), zap.Int("count", len(balances)))
	return balances, nil
}

// ReconcileBalance verifies that current balance matches the sum of its journal entries
func (t *Tx) ReconcileBalance(ctx context.Context, holder, token common.Address) error {
	currentBalance, err := t.BalanceOf(ctx, holder, token)
	if err != nil {
		return fmt.Errorf("failed to get current balance: %w", err)
	}

	rows, err := t.tx.QueryContext(ctx, queryGetJournalForAccount, holder.Hex(), token.Hex())
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	calculatedBalance := decimal.Zero
	for rows.Next() {
		var debitStr, creditStr string
		if err := rows.Scan(&debitStr, &creditStr); err != nil {
			return fmt.Errorf("failed to scan journal entry: %w", err)
		}
		debit, err := decimal.NewFromString(debitStr)
		if err != nil {
			return fmt.Errorf("failed to parse debit '%s': %w", debitStr, err)
		}
		credit, err := decimal.NewFromString(creditStr)
		if err != nil {
			return fmt.Errorf("failed to parse credit '%s': %w", creditStr, err)
		}
		calculatedBalance = calculatedBalance.Add(credit).Sub(debit)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating journal rows: %w", err)
	}

	// Check if balances match (exact decimal comparison)
	if !currentBalance.Equal(calculatedBalance) {
		zap.L().Error("Balance reconciliation failed",
			zap.String("holder", holder.Hex()),
			zap.String("token", token.Hex()),
			zap.String("current_balance", currentBalance.String()),
			zap.String("calculated_balance", calculatedBalance.String()),
			zap.String("difference", currentBalance.Sub(calculatedBalance).String()))
		return fmt.Errorf("balance mismatch: current=%s, calculated=%s", currentBalance.String(), calculatedBalance.String())
	}

	return nil
}
