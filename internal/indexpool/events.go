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

package indexpool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"indexpool-go/internal/models"
	"indexpool-go/internal/store"
	"indexpool-go/internal/wallet"

	"github.com/google/uuid"
)

type portfolioEventData struct {
	Recipient string   `json:"recipient"`
	Payer     string   `json:"payer"`
	Value     string   `json:"value"`
	Tokens    []string `json:"tokens,omitempty"`
	Amounts   []string `json:"amounts,omitempty"`
	Bridges   []string `json:"bridges,omitempty"`
}

type bridgeCallEventData struct {
	Index   int    `json:"index"`
	Bridge  string `json:"bridge"`
	Adapter string `json:"adapter"`
	Method  string `json:"method"`
}

type maxDepositEventData struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

type registrationEventData struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func newPortfolioEventData(opts CallOpts, params PortfolioParams) portfolioEventData {
	data := portfolioEventData{
		Recipient: params.Recipient.Hex(),
		Payer:     params.Payer.Hex(),
		Value:     opts.Value.String(),
	}
	for i, token := range params.InputTokens {
		data.Tokens = append(data.Tokens, token.Hex())
		data.Amounts = append(data.Amounts, params.InputAmounts[i].String())
	}
	for _, address := range params.BridgeAddresses {
		data.Bridges = append(data.Bridges, address.Hex())
	}
	return data
}

// appendEvent writes an event for the running operation.
func (r *Registry) appendEvent(ctx context.Context, uow store.UnitOfWork, kind string, data any) error {
	op := models.GetOperation(ctx)
	if op == nil {
		return fmt.Errorf("no operation in context for %s event", kind)
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("unable to encode %s event: %w", kind, err)
	}

	return uow.AppendEvent(ctx, models.Event{
		Id:          uuid.New().String(),
		OperationId: op.Id,
		TokenId:     op.TokenId,
		Kind:        kind,
		Actor:       op.Caller,
		Data:        string(encoded),
		CreatedAt:   time.Now().UTC(),
	})
}

func (r *Registry) appendExecuted(ctx context.Context, uow store.UnitOfWork, executed []wallet.Executed) error {
	for _, call := range executed {
		err := r.appendEvent(ctx, uow, models.EventBridgeCallExecuted, bridgeCallEventData{
			Index:   call.Index,
			Bridge:  call.Bridge.Hex(),
			Adapter: call.Adapter,
			Method:  call.Method,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
