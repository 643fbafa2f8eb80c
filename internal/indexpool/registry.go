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
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/models"
	"indexpool-go/internal/store"
	"indexpool-go/internal/wallet"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	ReasonCallsLengthMismatch  = "INDEXPOOL: BRIDGE ADDRESSES AND CALLS LENGTH MISMATCH"
	ReasonInputsLengthMismatch = "INDEXPOOL: INPUT TOKENS AND AMOUNTS LENGTH MISMATCH"
	ReasonMintToZeroAddress    = "INDEXPOOL: MINT TO THE ZERO ADDRESS"
	ReasonNonexistentToken     = "INDEXPOOL: NONEXISTENT TOKEN"
	ReasonNegativeAmount       = "INDEXPOOL: NEGATIVE AMOUNT"
	ReasonEmptyName            = "INDEXPOOL: EMPTY NAME"
	ReasonExceedsAllowance     = "INDEXPOOL: TRANSFER AMOUNT EXCEEDS ALLOWANCE"
	ReasonExceedsBalance       = "INDEXPOOL: TRANSFER AMOUNT EXCEEDS BALANCE"
	ReasonNativeInput          = "INDEXPOOL: NATIVE TOKEN NOT AN INPUT"
)

// CallOpts carries who is calling and how much native value is attached.
type CallOpts struct {
	From  common.Address
	Value decimal.Decimal
}

// PortfolioParams describes what to deposit into a portfolio and which bridge
// calls to run against it.
type PortfolioParams struct {
	Recipient          common.Address
	Payer              common.Address
	InputTokens        []common.Address
	InputAmounts       []decimal.Decimal
	BridgeAddresses    []common.Address
	BridgeEncodedCalls [][]byte
}

// Registry mints and edits portfolios. Mutating calls are serialized and each
// one commits or rolls back as a whole.
type Registry struct {
	mu                sync.Mutex
	store             store.Store
	bridges           *bridge.Registry
	address           common.Address
	admin             common.Address
	defaultMaxDeposit decimal.Decimal
	abi               *abi.ABI
}

func New(st store.Store, bridges *bridge.Registry, cfg models.RegistryConfig) (*Registry, error) {
	if cfg.Address == (common.Address{}) {
		return nil, fmt.Errorf("registry address cannot be zero")
	}
	if cfg.MaxDeposit.IsNegative() {
		return nil, fmt.Errorf("max deposit cannot be negative, got %s", cfg.MaxDeposit.String())
	}
	// unset; a zero ceiling can still be stored through setMaxDeposit
	maxDeposit := cfg.MaxDeposit
	if maxDeposit.IsZero() {
		maxDeposit = DefaultMaxDeposit
	}

	return &Registry{
		store:             st,
		bridges:           bridges,
		address:           cfg.Address,
		admin:             cfg.Admin,
		defaultMaxDeposit: maxDeposit,
		abi:               bridge.MustParseABI(registryABI),
	}, nil
}

func (r *Registry) Address() common.Address {
	return r.address
}

// MintPortfolio creates a portfolio owned by params.Recipient, funds its wallet
// and runs the bridge calls. It returns the new token id.
func (r *Registry) MintPortfolio(ctx context.Context, opts CallOpts, params PortfolioParams) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := validateParams(opts, params); err != nil {
		return 0, err
	}
	if params.Recipient == (common.Address{}) {
		return 0, store.NewRevert(store.ErrInputValidation, ReasonMintToZeroAddress, nil)
	}

	op := &models.Operation{Id: uuid.New().String(), Kind: "mint", Caller: opts.From}
	ctx = models.WithOperation(ctx, op)

	var tokenId uint64
	err := r.store.Atomic(ctx, func(uow store.UnitOfWork) error {
		if err := r.checkDeposit(ctx, uow, opts.Value); err != nil {
			return err
		}

		id, err := uow.NextTokenId(ctx)
		if err != nil {
			return err
		}
		op.TokenId = &id
		w := wallet.New(wallet.Derive(r.address, id), r.bridges)

		executed, err := r.fundAndExecute(ctx, uow, w, opts, params)
		if err != nil {
			return err
		}

		if err := uow.InsertPortfolio(ctx, models.Portfolio{TokenId: id, Owner: params.Recipient, Wallet: w.Address()}); err != nil {
			return err
		}
		if err := r.appendEvent(ctx, uow, models.EventPortfolioMinted, newPortfolioEventData(opts, params)); err != nil {
			return err
		}
		if err := r.appendExecuted(ctx, uow, executed); err != nil {
			return err
		}

		tokenId = id
		return nil
	})
	if err != nil {
		logRejected(op, err)
		return 0, err
	}

	zap.L().Info("Portfolio minted",
		zap.String("operation_id", op.Id),
		zap.Uint64("token_id", tokenId),
		zap.String("owner", params.Recipient.Hex()),
		zap.String("value", opts.Value.String()),
		zap.Int("bridge_calls", len(params.BridgeAddresses)))
	return tokenId, nil
}

// EditPortfolio runs a new deposit and bridge sequence against an existing
// portfolio. Only its owner may do so; the token id and owner never change.
func (r *Registry) EditPortfolio(ctx context.Context, opts CallOpts, tokenId uint64, params PortfolioParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op := &models.Operation{Id: uuid.New().String(), Kind: "edit", Caller: opts.From, TokenId: &tokenId}
	ctx = models.WithOperation(ctx, op)

	err := r.store.Atomic(ctx, func(uow store.UnitOfWork) error {
		portfolio, err := uow.GetPortfolio(ctx, tokenId)
		if err != nil {
			if errors.Is(err, store.ErrPortfolioNotFound) {
				return store.NewRevert(store.ErrInputValidation, ReasonNonexistentToken, err)
			}
			return err
		}
		if portfolio.Owner != opts.From {
			return store.NewRevert(store.ErrAuthorization, store.ReasonOnlyOwner, nil)
		}
		if err := validateParams(opts, params); err != nil {
			return err
		}
		if err := r.checkDeposit(ctx, uow, opts.Value); err != nil {
			return err
		}

		w := wallet.New(portfolio.Wallet, r.bridges)
		executed, err := r.fundAndExecute(ctx, uow, w, opts, params)
		if err != nil {
			return err
		}

		if err := uow.MarkPortfolioEdited(ctx, tokenId); err != nil {
			return err
		}
		if err := r.appendEvent(ctx, uow, models.EventPortfolioEdited, newPortfolioEventData(opts, params)); err != nil {
			return err
		}
		return r.appendExecuted(ctx, uow, executed)
	})
	if err != nil {
		logRejected(op, err)
		return err
	}

	zap.L().Info("Portfolio edited",
		zap.String("operation_id", op.Id),
		zap.Uint64("token_id", tokenId),
		zap.String("value", opts.Value.String()),
		zap.Int("bridge_calls", len(params.BridgeAddresses)))
	return nil
}

// RegisterPortfolio records a human readable name for caller.
func (r *Registry) RegisterPortfolio(ctx context.Context, caller common.Address, name string) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, store.NewRevert(store.ErrInputValidation, ReasonEmptyName, nil)
	}

	op := &models.Operation{Id: uuid.New().String(), Kind: "register", Caller: caller}
	ctx = models.WithOperation(ctx, op)

	registration := &models.Registration{
		Id:        uuid.New().String(),
		Creator:   caller,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	err := r.store.Atomic(ctx, func(uow store.UnitOfWork) error {
		if err := uow.InsertRegistration(ctx, *registration); err != nil {
			return err
		}
		return r.appendEvent(ctx, uow, models.EventPortfolioRegistered, registrationEventData{Id: registration.Id, Name: name})
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Portfolio registered",
		zap.String("operation_id", op.Id),
		zap.String("creator", caller.Hex()),
		zap.String("name", name))
	return registration, nil
}

func validateParams(opts CallOpts, params PortfolioParams) error {
	if len(params.InputTokens) != len(params.InputAmounts) {
		return store.NewRevert(store.ErrInputValidation, ReasonInputsLengthMismatch,
			fmt.Errorf("%d tokens, %d amounts", len(params.InputTokens), len(params.InputAmounts)))
	}
	if len(params.BridgeAddresses) != len(params.BridgeEncodedCalls) {
		return store.NewRevert(store.ErrInputValidation, ReasonCallsLengthMismatch,
			fmt.Errorf("%d bridge addresses, %d calls", len(params.BridgeAddresses), len(params.BridgeEncodedCalls)))
	}
	if opts.Value.IsNegative() {
		return store.NewRevert(store.ErrInputValidation, ReasonNegativeAmount, nil)
	}
	for i, token := range params.InputTokens {
		// native value enters only through opts.Value, where the guard sees it
		if token == store.NativeToken {
			return store.NewRevert(store.ErrInputValidation, ReasonNativeInput, fmt.Errorf("input %d", i))
		}
		if params.InputAmounts[i].IsNegative() {
			return store.NewRevert(store.ErrInputValidation, ReasonNegativeAmount, nil)
		}
	}
	return nil
}

// fundAndExecute moves the attached value and input tokens into the wallet,
// then hands the wallet to the bridge sequence.
func (r *Registry) fundAndExecute(ctx context.Context, uow store.UnitOfWork, w *wallet.Wallet, opts CallOpts, params PortfolioParams) ([]wallet.Executed, error) {
	if err := uow.Transfer(ctx, opts.From, w.Address(), store.NativeToken, opts.Value); err != nil {
		return nil, depositError(err)
	}
	for i, token := range params.InputTokens {
		if err := uow.TransferFrom(ctx, r.address, params.Payer, w.Address(), token, params.InputAmounts[i]); err != nil {
			return nil, depositError(err)
		}
	}
	return w.UseBridges(ctx, uow, params.BridgeAddresses, params.BridgeEncodedCalls)
}

func depositError(err error) error {
	switch {
	case errors.Is(err, store.ErrInsufficientAllowance):
		return store.NewRevert(store.ErrInputValidation, ReasonExceedsAllowance, err)
	case errors.Is(err, store.ErrInsufficientBalance):
		return store.NewRevert(store.ErrInputValidation, ReasonExceedsBalance, err)
	}
	return err
}

func logRejected(op *models.Operation, err error) {
	var revert *store.Revert
	if !errors.As(err, &revert) {
		zap.L().Error("Registry operation failed",
			zap.String("operation_id", op.Id),
			zap.String("kind", op.Kind),
			zap.Error(err))
		return
	}
	zap.L().Info("Registry operation reverted",
		zap.String("operation_id", op.Id),
		zap.String("kind", op.Kind),
		zap.String("caller", op.Caller.Hex()),
		zap.String("reason", revert.Reason))
}
