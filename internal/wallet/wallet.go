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

package wallet

import (
	"context"
	"errors"
	"fmt"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/models"
	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

const (
	ReasonLengthMismatch   = "WALLET: BRIDGE ADDRESSES AND CALLS LENGTH MISMATCH"
	ReasonBridgeNotAllowed = "WALLET: BRIDGE NOT ALLOWED"
	ReasonUnknownFunction  = "WALLET: UNKNOWN BRIDGE FUNCTION"
)

// Executed describes one bridge call that completed.
type Executed struct {
	Index   int
	Bridge  common.Address
	Adapter string
	Method  string
}

// Wallet holds a portfolio's positions under its own address and runs bridge
// calls against them.
type Wallet struct {
	address common.Address
	bridges *bridge.Registry
}

// Derive returns the wallet address of portfolio tokenId under registry.
func Derive(registry common.Address, tokenId uint64) common.Address {
	return crypto.CreateAddress(registry, tokenId)
}

func New(address common.Address, bridges *bridge.Registry) *Wallet {
	return &Wallet{address: address, bridges: bridges}
}

func (w *Wallet) Address() common.Address {
	return w.address
}

// UseBridges dispatches calls[i] to addresses[i] in order. Each call sees the
// balances left by the previous one. The first failure stops the sequence;
// undoing earlier calls is left to the ledger's unit of work.
func (w *Wallet) UseBridges(ctx context.Context, ledger store.Ledger, addresses []common.Address, calls [][]byte) ([]Executed, error) {
	if len(addresses) != len(calls) {
		return nil, store.NewRevert(store.ErrInputValidation, ReasonLengthMismatch,
			fmt.Errorf("%d bridge addresses, %d calls", len(addresses), len(calls)))
	}

	var operationId string
	if op := models.GetOperation(ctx); op != nil {
		operationId = op.Id
	}

	env := bridge.Env{Wallet: w.address, Ledger: ledger}
	executed := make([]Executed, 0, len(calls))
	for i, address := range addresses {
		adapter, ok := w.bridges.Lookup(address)
		if !ok {
			zap.L().Warn("Bridge call rejected",
				zap.String("operation_id", operationId),
				zap.Int("index", i),
				zap.String("bridge", address.Hex()))
			return nil, store.NewRevert(store.ErrAdapterExecution, ReasonBridgeNotAllowed,
				fmt.Errorf("bridge %s is not allow-listed", address.Hex()))
		}

		method, args, err := bridge.Decode(adapter, calls[i])
		if err != nil {
			return nil, store.NewRevert(store.ErrAdapterExecution, ReasonUnknownFunction,
				fmt.Errorf("call %d to %s: %w", i, adapter.Name(), err))
		}

		if err := adapter.Execute(ctx, env, method, args); err != nil {
			zap.L().Info("Bridge call reverted",
				zap.String("operation_id", operationId),
				zap.Int("index", i),
				zap.String("adapter", adapter.Name()),
				zap.String("method", method.Name),
				zap.Error(err))
			return nil, classify(adapter, i, err)
		}

		zap.L().Debug("Bridge call executed",
			zap.String("operation_id", operationId),
			zap.String("wallet", w.address.Hex()),
			zap.Int("index", i),
			zap.String("adapter", adapter.Name()),
			zap.String("method", method.Name))

		executed = append(executed, Executed{Index: i, Bridge: address, Adapter: adapter.Name(), Method: method.Name})
	}
	return executed, nil
}

// classify keeps adapter reverts as they are, turns overdrafts into a revert
// of the adapter that caused them, and passes infrastructure errors through.
func classify(adapter bridge.Adapter, index int, err error) error {
	var revert *store.Revert
	if errors.As(err, &revert) {
		return err
	}
	if errors.Is(err, store.ErrInsufficientBalance) {
		return store.NewRevert(store.ErrAdapterExecution,
			fmt.Sprintf("%s: TRANSFER_AMOUNT_EXCEEDS_BALANCE", adapter.Name()), err)
	}
	return fmt.Errorf("bridge call %d (%s) failed: %w", index, adapter.Name(), err)
}
