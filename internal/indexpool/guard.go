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
	"fmt"
	"math/big"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/models"
	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxDepositKey = "max_deposit"

const ReasonUnknownFunction = "INDEXPOOL: UNKNOWN FUNCTION"

// registryABI lists the functions reachable through SelfCall.
const registryABI = `[
	{"type":"function","name":"setMaxDeposit","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]}
]`

// DefaultMaxDeposit is 100 units of native currency at 18 decimals.
var DefaultMaxDeposit = decimal.New(100, 18)

// MaxDeposit returns the current ceiling on native value attached to a mint or edit.
func (r *Registry) MaxDeposit(ctx context.Context) (decimal.Decimal, error) {
	var maxDeposit decimal.Decimal
	err := r.store.View(ctx, func(uow store.UnitOfWork) error {
		var err error
		maxDeposit, err = r.maxDeposit(ctx, uow)
		return err
	})
	return maxDeposit, err
}

func (r *Registry) maxDeposit(ctx context.Context, uow store.UnitOfWork) (decimal.Decimal, error) {
	value, ok, err := uow.GetSetting(ctx, maxDepositKey)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return r.defaultMaxDeposit, nil
	}

	maxDeposit, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored max deposit %q: %w", value, err)
	}
	return maxDeposit, nil
}

// checkDeposit enforces value <= maxDeposit.
func (r *Registry) checkDeposit(ctx context.Context, uow store.UnitOfWork, value decimal.Decimal) error {
	maxDeposit, err := r.maxDeposit(ctx, uow)
	if err != nil {
		return err
	}
	if value.GreaterThan(maxDeposit) {
		return store.NewRevert(store.ErrGuardRail, store.ReasonDepositAboveMax,
			fmt.Errorf("deposit %s above maximum %s", value.String(), maxDeposit.String()))
	}
	return nil
}

// SetMaxDeposit changes the deposit ceiling. The only caller allowed is the
// registry itself, which external callers reach through SelfCall.
func (r *Registry) SetMaxDeposit(ctx context.Context, caller common.Address, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.setMaxDeposit(ctx, caller, amount)
}

func (r *Registry) setMaxDeposit(ctx context.Context, caller common.Address, amount decimal.Decimal) error {
	if caller != r.address {
		return store.NewRevert(store.ErrAuthorization, store.ReasonOnlyIndexPool, nil)
	}
	if amount.IsNegative() {
		return store.NewRevert(store.ErrInputValidation, ReasonNegativeAmount, nil)
	}

	op := models.GetOperation(ctx)
	if op == nil {
		op = &models.Operation{Id: uuid.New().String(), Kind: "set-max-deposit", Caller: caller}
		ctx = models.WithOperation(ctx, op)
	}

	var previous decimal.Decimal
	err := r.store.Atomic(ctx, func(uow store.UnitOfWork) error {
		var err error
		if previous, err = r.maxDeposit(ctx, uow); err != nil {
			return err
		}
		if err := uow.PutSetting(ctx, maxDepositKey, amount.String()); err != nil {
			return err
		}
		return r.appendEvent(ctx, uow, models.EventMaxDepositChanged, maxDepositEventData{
			Previous: previous.String(),
			Current:  amount.String(),
		})
	})
	if err != nil {
		return err
	}

	zap.L().Info("Max deposit changed",
		zap.String("operation_id", op.Id),
		zap.String("previous", previous.String()),
		zap.String("current", amount.String()))
	return nil
}

// SelfCall is the privileged path into the registry's own functions. Only the
// admin may use it; the decoded call then runs with the registry as caller.
func (r *Registry) SelfCall(ctx context.Context, caller common.Address, calldata []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.admin == (common.Address{}) || caller != r.admin {
		return store.NewRevert(store.ErrAuthorization, store.ReasonOnlyAdmin, nil)
	}

	if len(calldata) < 4 {
		return store.NewRevert(store.ErrInputValidation, ReasonUnknownFunction, bridge.ErrCalldataTooShort)
	}
	method, err := r.abi.MethodById(calldata[:4])
	if err != nil {
		return store.NewRevert(store.ErrInputValidation, ReasonUnknownFunction, err)
	}
	args, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return store.NewRevert(store.ErrInputValidation, ReasonUnknownFunction, err)
	}

	op := &models.Operation{Id: uuid.New().String(), Kind: method.Name, Caller: caller}
	ctx = models.WithOperation(ctx, op)
	zap.L().Info("Self call", zap.String("operation_id", op.Id), zap.String("admin", caller.Hex()), zap.String("method", method.Name))

	switch method.Name {
	case "setMaxDeposit":
		amount, ok := args[0].(*big.Int)
		if !ok {
			return store.NewRevert(store.ErrInputValidation, ReasonUnknownFunction, fmt.Errorf("unexpected argument %T", args[0]))
		}
		return r.setMaxDeposit(ctx, r.address, decimal.NewFromBigInt(amount, 0))
	}
	return store.NewRevert(store.ErrInputValidation, ReasonUnknownFunction, nil)
}

// EncodeSetMaxDeposit builds SelfCall calldata for setMaxDeposit(amount).
func (r *Registry) EncodeSetMaxDeposit(amount decimal.Decimal) ([]byte, error) {
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return nil, fmt.Errorf("max deposit must be a non-negative integer amount, got %s", amount.String())
	}
	return r.abi.Pack("setMaxDeposit", amount.BigInt())
}
