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
	"fmt"

	"indexpool-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

func (t *Tx) AppendEvent(ctx context.Context, event models.Event) error {
	var tokenId sql.NullInt64
	if event.TokenId != nil {
		tokenId = sql.NullInt64{Int64: int64(*event.TokenId), Valid: true}
	}

	_, err := t.tx.ExecContext(ctx, queryInsertEvent,
		event.Id, event.OperationId, tokenId, event.Kind, event.Actor.Hex(), event.Data, event.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to append event", zap.String("kind", event.Kind), zap.Error(err))
		return fmt.Errorf("unable to append event: %w", err)
	}
	return nil
}

// GetEvents returns a page of a portfolio's events in the order they were written
func (t *Tx) GetEvents(ctx context.Context, tokenId uint64, limit, offset int) ([]models.Event, error) {
	rows, err := t.tx.QueryContext(ctx, queryGetEvents, int64(tokenId), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to query events: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var events []models.Event
	for rows.Next() {
		var event models.Event
		var id sql.NullInt64
		var actorStr string
		var data sql.NullString
		if err := rows.Scan(&event.Id, &event.OperationId, &id, &event.Kind, &actorStr, &data, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan event row: %w", err)
		}

		if id.Valid {
			v := uint64(id.Int64)
			event.TokenId = &v
		}
		event.Actor = common.HexToAddress(actorStr)
		event.Data = data.String
		events = append(events, event)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}
