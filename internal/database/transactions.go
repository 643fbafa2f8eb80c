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

// Compile-time check: *Tx must satisfy store.UnitOfWork.
var _ store.UnitOfWork = (*Tx)(nil)

// issuer is the journal counter-account for mints and burns
var issuer = common.Address{}

// Tx is one unit of work over the ledger
type Tx struct {
	tx *sql.Tx
}

// Transfer atomically moves amount of token from one holder to another
func (t *Tx) Transfer(ctx context.Context, from, to, token common.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("transfer amount cannot be negative: %s", amount.String())
	}
	if amount.IsZero() {
		return nil
	}

	if _, err := t.adjustBalance(ctx, from, token, amount.Neg()); err != nil {
		return err
	}
	if _, err := t.adjustBalance(ctx, to, token, amount); err != nil {
		return err
	}

	if err := t.addJournalEntries(ctx, from, to, token, amount); err != nil {
		return fmt.Errorf("failed to add journal entries: %w", err)
	}

	zap.L().Debug("Transfer applied",
		zap.String("from", from.Hex()),
		zap.String("to", to.Hex()),
		zap.String("token", token.Hex()),
		zap.String("amount", amount.String()))
	return nil
}

// Mint creates amount of token for holder and grows the token's supply
func (t *Tx) Mint(ctx context.Context, to, token common.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("mint amount cannot be negative: %s", amount.String())
	}
	if amount.IsZero() {
		return nil
	}

	if _, err := t.adjustBalance(ctx, to, token, amount); err != nil {
		return err
	}
	if err := t.adjustSupply(ctx, token, amount); err != nil {
		return err
	}
	return t.addJournalEntries(ctx, issuer, to, token, amount)
}

// Burn destroys amount of token held by holder and shrinks the token's supply
func (t *Tx) Burn(ctx context.Context, from, token common.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("burn amount cannot be negative: %s", amount.String())
	}
	if amount.IsZero() {
		return nil
	}

	if _, err := t.adjustBalance(ctx, from, token, amount.Neg()); err != nil {
		return err
	}
	if err := t.adjustSupply(ctx, token, amount.Neg()); err != nil {
		return err
	}
	return t.addJournalEntries(ctx, from, issuer, token, amount)
}

// TotalSupply returns minted minus burned for token
func (t *Tx) TotalSupply(ctx context.Context, token common.Address) (decimal.Decimal, error) {
	var totalStr string
	err := t.tx.QueryRowContext(ctx, queryGetSupply, token.Hex()).Scan(&totalStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get supply: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse supply '%s': %w", totalStr, err)
	}
	return total, nil
}

func (t *Tx) adjustSupply(ctx context.Context, token common.Address, delta decimal.Decimal) error {
	current, err := t.TotalSupply(ctx, token)
	if err != nil {
		return err
	}

	total := current.Add(delta)
	if total.IsNegative() {
		return fmt.Errorf("%w: supply of %s would become %s", store.ErrInsufficientBalance, token.Hex(), total.String())
	}

	if _, err := t.tx.ExecContext(ctx, queryUpsertSupply, token.Hex(), total.String()); err != nil {
		return fmt.Errorf("failed to update supply: %w", err)
	}
	return nil
}

// Allowance returns how much spender may still pull from owner's token balance
func (t *Tx) Allowance(ctx context.Context, owner, spender, token common.Address) (decimal.Decimal, error) {
	var amountStr string
	err := t.tx.QueryRowContext(ctx, queryGetAllowance, owner.Hex(), spender.Hex(), token.Hex()).Scan(&amountStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get allowance: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse allowance '%s': %w", amountStr, err)
	}
	return amount, nil
}

// Approve sets the allowance of spender over owner's token balance
func (t *Tx) Approve(ctx context.Context, owner, spender, token common.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("allowance cannot be negative: %s", amount.String())
	}

	if _, err := t.tx.ExecContext(ctx, queryUpsertAllowance, owner.Hex(), spender.Hex(), token.Hex(), amount.String()); err != nil {
		return fmt.Errorf("failed to set allowance: %w", err)
	}

	zap.L().Debug("Allowance set",
		zap.String("owner", owner.Hex()),
		zap.String("spender", spender.Hex()),
		zap.String("token", token.Hex()),
		zap.String("amount", amount.String()))
	return nil
}

// TransferFrom moves amount from a holder on behalf of spender, consuming allowance
func (t *Tx) TransferFrom(ctx context.Context, spender, from, to, token common.Address, amount decimal.Decimal) error {
	allowance, err := t.Allowance(ctx, from, spender, token)
	if err != nil {
		return err
	}
	if allowance.LessThan(amount) {
		return fmt.Errorf("%w: %s approved %s of %s to %s, needs %s",
			store.ErrInsufficientAllowance, from.Hex(), allowance.String(), token.Hex(), spender.Hex(), amount.String())
	}

	if err := t.Approve(ctx, from, spender, token, allowance.Sub(amount)); err != nil {
		return err
	}
	return t.Transfer(ctx, from, to, token, amount)
}

// addJournalEntries creates double-entry bookkeeping entries for one movement
func (t *Tx) addJournalEntries(ctx context.Context, from, to, token common.Address, amount decimal.Decimal) error {
	reference := uuid.New().String()
	if op := models.GetOperation(ctx); op != nil {
		reference = op.Id
	}
	now := time.Now().UTC()

	entries := []models.JournalEntry{
		// Sender account decreases (debit)
		{Account: from, Token: token, Debit: amount, Credit: decimal.Zero},
		// Receiver account increases (credit)
		{Account: to, Token: token, Debit: decimal.Zero, Credit: amount},
	}

	for _, entry := range entries {
		_, err := t.tx.ExecContext(ctx, queryInsertJournalEntry,
			uuid.New().String(), reference, entry.Account.Hex(), entry.Token.Hex(),
			entry.Debit.String(), entry.Credit.String(), now)
		if err != nil {
			return err
		}
	}

	return nil
}
