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
	"go.uber.org/zap"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	var tokenId int64
	var ownerStr, walletStr string
	err := row.Scan(&tokenId, &ownerStr, &walletStr, &portfolio.EditCount, &portfolio.CreatedAt, &portfolio.UpdatedAt)
	if err != nil {
		return nil, err
	}

	portfolio.TokenId = uint64(tokenId)
	portfolio.Owner = common.HexToAddress(ownerStr)
	portfolio.Wallet = common.HexToAddress(walletStr)
	return &portfolio, nil
}

// NextTokenId returns the id the next minted portfolio will take
func (t *Tx) NextTokenId(ctx context.Context) (uint64, error) {
	var next int64
	if err := t.tx.QueryRowContext(ctx, queryNextTokenId).Scan(&next); err != nil {
		return 0, fmt.Errorf("unable to allocate token id: %w", err)
	}
	return uint64(next), nil
}

func (t *Tx) InsertPortfolio(ctx context.Context, portfolio models.Portfolio) error {
	now := time.Now().UTC()
	_, err := t.tx.ExecContext(ctx, queryInsertPortfolio,
		int64(portfolio.TokenId), portfolio.Owner.Hex(), portfolio.Wallet.Hex(), now, now)
	if err != nil {
		zap.L().Error("Failed to insert portfolio", zap.Uint64("token_id", portfolio.TokenId), zap.Error(err))
		return fmt.Errorf("unable to insert portfolio: %w", err)
	}
	return nil
}

func (t *Tx) GetPortfolio(ctx context.Context, tokenId uint64) (*models.Portfolio, error) {
	portfolio, err := scanPortfolio(t.tx.QueryRowContext(ctx, queryGetPortfolio, int64(tokenId)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: token %d", store.ErrPortfolioNotFound, tokenId)
		}
		zap.L().Error("Failed to query portfolio", zap.Uint64("token_id", tokenId), zap.Error(err))
		return nil, fmt.Errorf("unable to query portfolio: %w", err)
	}
	return portfolio, nil
}

func (t *Tx) MarkPortfolioEdited(ctx context.Context, tokenId uint64) error {
	result, err := t.tx.ExecContext(ctx, queryMarkPortfolioEdited, time.Now().UTC(), int64(tokenId))
	if err != nil {
		return fmt.Errorf("unable to update portfolio: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: token %d", store.ErrPortfolioNotFound, tokenId)
	}
	return nil
}

func (t *Tx) CountPortfolios(ctx context.Context, owner common.Address) (uint64, error) {
	var count int64
	if err := t.tx.QueryRowContext(ctx, queryCountPortfolios, owner.Hex()).Scan(&count); err != nil {
		return 0, fmt.Errorf("unable to count portfolios: %w", err)
	}
	return uint64(count), nil
}

// ListPortfolios returns the portfolios held by owner, or all portfolios when owner is the zero address
func (t *Tx) ListPortfolios(ctx context.Context, owner common.Address) ([]models.Portfolio, error) {
	var rows *sql.Rows
	var err error
	if owner == (common.Address{}) {
		rows, err = t.tx.QueryContext(ctx, queryListAllPortfolios)
	} else {
		rows, err = t.tx.QueryContext(ctx, queryListPortfolios, owner.Hex())
	}
	if err != nil {
		zap.L().Error("Failed to query portfolios", zap.String("owner", owner.Hex()), zap.Error(err))
		return nil, fmt.Errorf("unable to query portfolios: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var portfolios []models.Portfolio
	for rows.Next() {
		portfolio, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan portfolio row: %w", err)
		}
		portfolios = append(portfolios, *portfolio)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio rows: %w", err)
	}
	return portfolios, nil
}

func (t *Tx) InsertRegistration(ctx context.Context, registration models.Registration) error {
	_, err := t.tx.ExecContext(ctx, queryInsertRegistration,
		registration.Id, registration.Creator.Hex(), registration.Name, registration.CreatedAt)
	if err != nil {
		return fmt.Errorf("unable to insert registration: %w", err)
	}
	return nil
}

func (t *Tx) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := t.tx.QueryRowContext(ctx, queryGetSetting, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("unable to read setting %s: %w", key, err)
	}
	return value, true, nil
}

func (t *Tx) PutSetting(ctx context.Context, key, value string) error {
	if _, err := t.tx.ExecContext(ctx, queryUpsertSetting, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("unable to write setting %s: %w", key, err)
	}
	return nil
}
