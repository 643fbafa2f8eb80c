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
	"math/big"
	"testing"
	"time"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/bridge/adapters"
	"indexpool-go/internal/database"
	"indexpool-go/internal/models"
	"indexpool-go/internal/store"
	"indexpool-go/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var (
	registryAddress = common.HexToAddress("0x00000000000000000000000000000000001d9001")
	admin           = common.HexToAddress("0x000000000000000000000000000000000000ad01")
	alice           = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob             = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	swapBridge      = common.HexToAddress("0x0000000000000000000000000000000000000b01")
	depositBridge   = common.HexToAddress("0x0000000000000000000000000000000000000b02")
	router          = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	lendingPool     = common.HexToAddress("0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9")
	weth            = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	dai             = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	usdc            = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	full            = big.NewInt(bridge.PercentageBase)
)

func ether(n int64) decimal.Decimal {
	return decimal.New(n, 18)
}

type testEnv struct {
	db       *database.Service
	registry *Registry
	swap     bridge.Adapter
	deposit  bridge.Adapter
}

func setupRegistry(t *testing.T) (*testEnv, func()) {
	ctx := context.Background()
	db, err := database.NewService(ctx, models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		PingTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	env := &testEnv{
		db:      db,
		swap:    adapters.NewUniswapV2SwapBridge(weth),
		deposit: adapters.NewAaveV2DepositBridge(),
	}
	bridges := bridge.NewRegistry()
	if err := bridges.Allow(swapBridge, env.swap); err != nil {
		t.Fatalf("Failed to allow swap bridge: %v", err)
	}
	if err := bridges.Allow(depositBridge, env.deposit); err != nil {
		t.Fatalf("Failed to allow deposit bridge: %v", err)
	}

	env.registry, err = New(db, bridges, models.RegistryConfig{Address: registryAddress, Admin: admin})
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	pair := adapters.PairFor(router, dai, usdc)
	env.atomic(t, func(uow store.UnitOfWork) error {
		for _, seed := range []struct {
			holder, token common.Address
			amount        decimal.Decimal
		}{
			{alice, store.NativeToken, ether(1000)},
			{bob, store.NativeToken, ether(1000)},
			{alice, dai, decimal.NewFromInt(1000)},
			{pair, dai, decimal.NewFromInt(10000)},
			{pair, usdc, decimal.NewFromInt(10000)},
		} {
			if err := uow.Mint(ctx, seed.holder, seed.token, seed.amount); err != nil {
				return err
			}
		}
		return uow.Approve(ctx, alice, registryAddress, dai, decimal.NewFromInt(1000))
	})

	return env, db.Close
}

func (e *testEnv) atomic(t *testing.T, fn func(store.UnitOfWork) error) {
	t.Helper()
	if err := e.db.Atomic(context.Background(), fn); err != nil {
		t.Fatalf("Atomic failed: %v", err)
	}
}

func (e *testEnv) balance(t *testing.T, holder, token common.Address) decimal.Decimal {
	t.Helper()
	var balance decimal.Decimal
	err := e.db.View(context.Background(), func(uow store.UnitOfWork) error {
		var err error
		balance, err = uow.BalanceOf(context.Background(), holder, token)
		return err
	})
	if err != nil {
		t.Fatalf("BalanceOf failed: %v", err)
	}
	return balance
}

func (e *testEnv) balanceOf(t *testing.T, owner common.Address) uint64 {
	t.Helper()
	count, err := e.registry.BalanceOf(context.Background(), owner)
	if err != nil {
		t.Fatalf("BalanceOf failed: %v", err)
	}
	return count
}

func (e *testEnv) encode(t *testing.T, adapter bridge.Adapter, method string, args ...any) []byte {
	t.Helper()
	calldata, err := bridge.Encode(adapter, method, args...)
	if err != nil {
		t.Fatalf("Failed to encode %s: %v", method, err)
	}
	return calldata
}

func expectRevert(t *testing.T, err error, kind error, reason string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %q, got nil", reason)
	}
	if !errors.Is(err, kind) {
		t.Errorf("Expected kind %v, got %v", kind, err)
	}
	if got := store.ReasonOf(err); got != reason {
		t.Errorf("Expected reason %q, got %q", reason, got)
	}
}

func TestMintPortfolio_EmptyCallsIncrementsBalance(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	if got := env.balanceOf(t, bob); got != 0 {
		t.Fatalf("Expected bob to start with 0 portfolios, got %d", got)
	}

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice, Value: ether(1)}, PortfolioParams{Recipient: bob, Payer: alice})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}
	if tokenId != 0 {
		t.Errorf("Expected first token id 0, got %d", tokenId)
	}
	if got := env.balanceOf(t, bob); got != 1 {
		t.Errorf("Expected bob to hold 1 portfolio, got %d", got)
	}

	owner, err := env.registry.OwnerOf(ctx, tokenId)
	if err != nil {
		t.Fatalf("OwnerOf failed: %v", err)
	}
	if owner != bob {
		t.Errorf("Expected owner %s, got %s", bob.Hex(), owner.Hex())
	}

	holdings, err := env.registry.Holdings(ctx, tokenId)
	if err != nil {
		t.Fatalf("Holdings failed: %v", err)
	}
	if len(holdings) != 1 || holdings[0].Token != store.NativeToken || !holdings[0].Balance.Equal(ether(1)) {
		t.Errorf("Expected wallet to hold 1 ether, got %+v", holdings)
	}
	if got := env.balance(t, alice, store.NativeToken); !got.Equal(ether(999)) {
		t.Errorf("Expected alice to have paid 1 ether, got %s", got)
	}

	second, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{Recipient: bob})
	if err != nil {
		t.Fatalf("Second MintPortfolio failed: %v", err)
	}
	if second != 1 {
		t.Errorf("Expected second token id 1, got %d", second)
	}
	if got := env.balanceOf(t, bob); got != 2 {
		t.Errorf("Expected bob to hold 2 portfolios, got %d", got)
	}
}

func TestMintPortfolio_GuardBoundary(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name  string
		value decimal.Decimal
		ok    bool
	}{
		{"1.1 ether", decimal.RequireFromString("1100000000000000000"), true},
		{"11 ether", ether(11), true},
		{"exactly the maximum", ether(100), true},
		{"one wei above the maximum", ether(100).Add(decimal.NewFromInt(1)), false},
		{"101 ether", ether(101), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice, Value: tt.value}, PortfolioParams{Recipient: alice})
			if tt.ok && err != nil {
				t.Errorf("Expected mint to succeed, got %v", err)
			}
			if !tt.ok {
				expectRevert(t, err, store.ErrGuardRail, store.ReasonDepositAboveMax)
			}
		})
	}

	if got := env.balanceOf(t, alice); got != 3 {
		t.Errorf("Expected 3 successful mints, got %d", got)
	}
}

func TestSetMaxDeposit_OnlyThroughSelfCall(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	err := env.registry.SetMaxDeposit(ctx, alice, ether(1000))
	expectRevert(t, err, store.ErrAuthorization, store.ReasonOnlyIndexPool)

	err = env.registry.SetMaxDeposit(ctx, admin, ether(1000))
	expectRevert(t, err, store.ErrAuthorization, store.ReasonOnlyIndexPool)

	_, err = env.registry.MintPortfolio(ctx, CallOpts{From: alice, Value: ether(500)}, PortfolioParams{Recipient: alice})
	expectRevert(t, err, store.ErrGuardRail, store.ReasonDepositAboveMax)

	calldata, err := env.registry.EncodeSetMaxDeposit(ether(1000))
	if err != nil {
		t.Fatalf("EncodeSetMaxDeposit failed: %v", err)
	}

	err = env.registry.SelfCall(ctx, alice, calldata)
	expectRevert(t, err, store.ErrAuthorization, store.ReasonOnlyAdmin)

	if err := env.registry.SelfCall(ctx, admin, calldata); err != nil {
		t.Fatalf("SelfCall failed: %v", err)
	}

	maxDeposit, err := env.registry.MaxDeposit(ctx)
	if err != nil {
		t.Fatalf("MaxDeposit failed: %v", err)
	}
	if !maxDeposit.Equal(ether(1000)) {
		t.Errorf("Expected max deposit 1000 ether, got %s", maxDeposit)
	}

	if _, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice, Value: ether(500)}, PortfolioParams{Recipient: alice}); err != nil {
		t.Errorf("Expected mint under the raised ceiling to succeed, got %v", err)
	}
}

func TestSelfCall_RejectsUnknownCalldata(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()

	err := env.registry.SelfCall(context.Background(), admin, []byte{0xde, 0xad, 0xbe, 0xef})
	expectRevert(t, err, store.ErrInputValidation, ReasonUnknownFunction)

	err = env.registry.SelfCall(context.Background(), admin, []byte{0x01})
	expectRevert(t, err, store.ErrInputValidation, ReasonUnknownFunction)
}

func TestSetMaxDeposit_RegistryCallerIsAllowed(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	if err := env.registry.SetMaxDeposit(ctx, registryAddress, ether(5)); err != nil {
		t.Fatalf("SetMaxDeposit failed: %v", err)
	}
	_, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice, Value: ether(6)}, PortfolioParams{Recipient: alice})
	expectRevert(t, err, store.ErrGuardRail, store.ReasonDepositAboveMax)
}

func TestMintPortfolio_SwapThenDepositUsesRealizedOutput(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{
		Recipient:       alice,
		Payer:           alice,
		InputTokens:     []common.Address{dai},
		InputAmounts:    []decimal.Decimal{decimal.NewFromInt(1000)},
		BridgeAddresses: []common.Address{swapBridge, depositBridge},
		BridgeEncodedCalls: [][]byte{
			env.encode(t, env.swap, "swapExactTokensForTokens", router, full, big.NewInt(0), []common.Address{dai, usdc}),
			env.encode(t, env.deposit, "deposit", lendingPool, usdc, full),
		},
	})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}

	walletAddress := wallet.Derive(registryAddress, tokenId)
	swapped := adapters.GetAmountOut(decimal.NewFromInt(1000), decimal.NewFromInt(10000), decimal.NewFromInt(10000))
	if got := env.balance(t, walletAddress, adapters.ReceiptToken(lendingPool, usdc)); !got.Equal(swapped) {
		t.Errorf("Expected deposited amount %s, got %s", swapped, got)
	}
	if got := env.balance(t, walletAddress, usdc); !got.IsZero() {
		t.Errorf("Expected no usdc left in the wallet, got %s", got)
	}
	if got := env.balance(t, alice, dai); !got.IsZero() {
		t.Errorf("Expected alice's dai to be pulled, got %s", got)
	}

	events, err := env.registry.Events(ctx, tokenId, 10, 0)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	kinds := make([]string, len(events))
	for i, event := range events {
		kinds[i] = event.Kind
	}
	if len(kinds) != 3 || kinds[0] != models.EventPortfolioMinted || kinds[1] != models.EventBridgeCallExecuted || kinds[2] != models.EventBridgeCallExecuted {
		t.Errorf("Unexpected events: %v", kinds)
	}
}

func TestMintPortfolio_SecondCallRevertRollsBackEverything(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice, Value: ether(1)}, PortfolioParams{
		Recipient:       bob,
		Payer:           alice,
		InputTokens:     []common.Address{dai},
		InputAmounts:    []decimal.Decimal{decimal.NewFromInt(1000)},
		BridgeAddresses: []common.Address{swapBridge, swapBridge},
		BridgeEncodedCalls: [][]byte{
			env.encode(t, env.swap, "swapExactTokensForTokens", router, full, big.NewInt(0), []common.Address{dai, usdc}),
			env.encode(t, env.swap, "swapExactTokensForTokens", router, full, big.NewInt(1_000_000), []common.Address{usdc, dai}),
		},
	})
	expectRevert(t, err, store.ErrAdapterExecution, "UniswapV2SwapBridge: INSUFFICIENT_OUTPUT_AMOUNT")

	if got := env.balanceOf(t, bob); got != 0 {
		t.Errorf("Expected no portfolio minted, got %d", got)
	}
	if got := env.balance(t, alice, dai); !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected alice's dai untouched, got %s", got)
	}
	if got := env.balance(t, alice, store.NativeToken); !got.Equal(ether(1000)) {
		t.Errorf("Expected alice's ether untouched, got %s", got)
	}
	pair := adapters.PairFor(router, dai, usdc)
	if got := env.balance(t, pair, usdc); !got.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected pair reserves untouched, got %s", got)
	}

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{Recipient: bob})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}
	if tokenId != 0 {
		t.Errorf("Expected the reverted mint not to consume an id, got %d", tokenId)
	}
}

func TestMintPortfolio_InputValidation(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{
		Recipient:    alice,
		InputTokens:  []common.Address{dai},
		InputAmounts: nil,
	})
	expectRevert(t, err, store.ErrInputValidation, ReasonInputsLengthMismatch)

	_, err = env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{
		Recipient:       alice,
		BridgeAddresses: []common.Address{swapBridge},
	})
	expectRevert(t, err, store.ErrInputValidation, ReasonCallsLengthMismatch)

	// length checks come before the guard
	_, err = env.registry.MintPortfolio(ctx, CallOpts{From: alice, Value: ether(101)}, PortfolioParams{
		Recipient:       alice,
		BridgeAddresses: []common.Address{swapBridge},
	})
	expectRevert(t, err, store.ErrInputValidation, ReasonCallsLengthMismatch)

	_, err = env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{})
	expectRevert(t, err, store.ErrInputValidation, ReasonMintToZeroAddress)

	_, err = env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{
		Recipient:    alice,
		Payer:        bob,
		InputTokens:  []common.Address{dai},
		InputAmounts: []decimal.Decimal{decimal.NewFromInt(1)},
	})
	expectRevert(t, err, store.ErrInputValidation, ReasonExceedsAllowance)

	if got := env.balanceOf(t, alice); got != 0 {
		t.Errorf("Expected no portfolio minted, got %d", got)
	}
}

func TestMintPortfolio_NativeInputRejected(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	env.atomic(t, func(uow store.UnitOfWork) error {
		return uow.Approve(ctx, alice, registryAddress, store.NativeToken, ether(1000))
	})

	params := PortfolioParams{
		Recipient:    alice,
		Payer:        alice,
		InputTokens:  []common.Address{store.NativeToken},
		InputAmounts: []decimal.Decimal{ether(500)},
	}
	_, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, params)
	expectRevert(t, err, store.ErrInputValidation, ReasonNativeInput)

	if got := env.balanceOf(t, alice); got != 0 {
		t.Errorf("Expected no portfolio minted, got %d", got)
	}
	if got := env.balance(t, wallet.Derive(registryAddress, 0), store.NativeToken); !got.IsZero() {
		t.Errorf("Expected no native value in the wallet, got %s", got)
	}

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{Recipient: alice})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}
	err = env.registry.EditPortfolio(ctx, CallOpts{From: alice}, tokenId, params)
	expectRevert(t, err, store.ErrInputValidation, ReasonNativeInput)
	if got := env.balance(t, alice, store.NativeToken); !got.Equal(ether(1000)) {
		t.Errorf("Expected alice's ether untouched, got %s", got)
	}
}

func TestMintPortfolio_BridgeNotAllowed(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()

	_, err := env.registry.MintPortfolio(context.Background(), CallOpts{From: alice}, PortfolioParams{
		Recipient:          alice,
		BridgeAddresses:    []common.Address{lendingPool},
		BridgeEncodedCalls: [][]byte{env.encode(t, env.deposit, "deposit", lendingPool, dai, full)},
	})
	expectRevert(t, err, store.ErrAdapterExecution, wallet.ReasonBridgeNotAllowed)
}

func TestEditPortfolio_OnlyOwner(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{Recipient: bob})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}

	err = env.registry.EditPortfolio(ctx, CallOpts{From: alice}, tokenId, PortfolioParams{Recipient: alice})
	expectRevert(t, err, store.ErrAuthorization, store.ReasonOnlyOwner)

	// ownership is checked before the guard
	err = env.registry.EditPortfolio(ctx, CallOpts{From: alice, Value: ether(101)}, tokenId, PortfolioParams{})
	expectRevert(t, err, store.ErrAuthorization, store.ReasonOnlyOwner)

	if err := env.registry.EditPortfolio(ctx, CallOpts{From: bob}, tokenId, PortfolioParams{Recipient: bob}); err != nil {
		t.Fatalf("EditPortfolio by owner failed: %v", err)
	}

	err = env.registry.EditPortfolio(ctx, CallOpts{From: bob}, 42, PortfolioParams{})
	expectRevert(t, err, store.ErrInputValidation, ReasonNonexistentToken)
	if !errors.Is(err, store.ErrPortfolioNotFound) {
		t.Errorf("Expected portfolio not found cause, got %v", err)
	}
}

func TestEditPortfolio_PreservesIdentityAndAppliesEffects(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{
		Recipient:          alice,
		Payer:              alice,
		InputTokens:        []common.Address{dai},
		InputAmounts:       []decimal.Decimal{decimal.NewFromInt(400)},
		BridgeAddresses:    []common.Address{depositBridge},
		BridgeEncodedCalls: [][]byte{env.encode(t, env.deposit, "deposit", lendingPool, dai, full)},
	})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}
	before, err := env.registry.Portfolio(ctx, tokenId)
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}

	// the recipient of an edit never changes ownership
	err = env.registry.EditPortfolio(ctx, CallOpts{From: alice, Value: ether(2)}, tokenId, PortfolioParams{
		Recipient:          bob,
		Payer:              alice,
		InputTokens:        []common.Address{dai},
		InputAmounts:       []decimal.Decimal{decimal.NewFromInt(600)},
		BridgeAddresses:    []common.Address{depositBridge},
		BridgeEncodedCalls: [][]byte{env.encode(t, env.deposit, "deposit", lendingPool, dai, big.NewInt(50_000))},
	})
	if err != nil {
		t.Fatalf("EditPortfolio failed: %v", err)
	}

	after, err := env.registry.Portfolio(ctx, tokenId)
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}
	if after.TokenId != before.TokenId || after.Owner != alice || after.Wallet != before.Wallet {
		t.Errorf("Expected identity preserved, before %+v after %+v", before, after)
	}
	if after.EditCount != 1 {
		t.Errorf("Expected edit count 1, got %d", after.EditCount)
	}
	if got := env.balanceOf(t, bob); got != 0 {
		t.Errorf("Expected bob to own nothing, got %d", got)
	}

	receipt := adapters.ReceiptToken(lendingPool, dai)
	if got := env.balance(t, after.Wallet, receipt); !got.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected 400 + 300 receipt tokens, got %s", got)
	}
	if got := env.balance(t, after.Wallet, dai); !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected 300 dai left in wallet, got %s", got)
	}
	if got := env.balance(t, after.Wallet, store.NativeToken); !got.Equal(ether(2)) {
		t.Errorf("Expected 2 ether in wallet, got %s", got)
	}
}

func TestEditPortfolio_GuardBoundary(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{Recipient: alice})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}

	err = env.registry.EditPortfolio(ctx, CallOpts{From: alice, Value: ether(100).Add(decimal.NewFromInt(1))}, tokenId, PortfolioParams{})
	expectRevert(t, err, store.ErrGuardRail, store.ReasonDepositAboveMax)

	if err := env.registry.EditPortfolio(ctx, CallOpts{From: alice, Value: ether(100)}, tokenId, PortfolioParams{}); err != nil {
		t.Fatalf("Expected edit at the maximum to succeed, got %v", err)
	}

	portfolio, err := env.registry.Portfolio(ctx, tokenId)
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}
	if portfolio.EditCount != 1 {
		t.Errorf("Expected only the accepted edit to count, got %d", portfolio.EditCount)
	}
	if got := env.balance(t, portfolio.Wallet, store.NativeToken); !got.Equal(ether(100)) {
		t.Errorf("Expected 100 ether in wallet, got %s", got)
	}
}

func TestEditPortfolio_RevertRollsBack(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	tokenId, err := env.registry.MintPortfolio(ctx, CallOpts{From: alice}, PortfolioParams{
		Recipient:    alice,
		Payer:        alice,
		InputTokens:  []common.Address{dai},
		InputAmounts: []decimal.Decimal{decimal.NewFromInt(400)},
	})
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}

	err = env.registry.EditPortfolio(ctx, CallOpts{From: alice, Value: ether(1)}, tokenId, PortfolioParams{
		Payer:           alice,
		InputTokens:     []common.Address{dai},
		InputAmounts:    []decimal.Decimal{decimal.NewFromInt(600)},
		BridgeAddresses: []common.Address{swapBridge, swapBridge},
		BridgeEncodedCalls: [][]byte{
			env.encode(t, env.swap, "swapExactTokensForTokens", router, full, big.NewInt(0), []common.Address{dai, usdc}),
			env.encode(t, env.swap, "swapExactTokensForTokens", router, full, big.NewInt(1_000_000), []common.Address{usdc, dai}),
		},
	})
	expectRevert(t, err, store.ErrAdapterExecution, "UniswapV2SwapBridge: INSUFFICIENT_OUTPUT_AMOUNT")

	portfolio, err := env.registry.Portfolio(ctx, tokenId)
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}
	if portfolio.EditCount != 0 {
		t.Errorf("Expected edit count 0, got %d", portfolio.EditCount)
	}

	tests := []struct {
		name          string
		holder, token common.Address
		want          decimal.Decimal
	}{
		{"wallet dai", portfolio.Wallet, dai, decimal.NewFromInt(400)},
		{"wallet usdc", portfolio.Wallet, usdc, decimal.Zero},
		{"wallet ether", portfolio.Wallet, store.NativeToken, decimal.Zero},
		{"alice dai", alice, dai, decimal.NewFromInt(600)},
		{"alice ether", alice, store.NativeToken, ether(1000)},
		{"pair dai", adapters.PairFor(router, dai, usdc), dai, decimal.NewFromInt(10000)},
		{"pair usdc", adapters.PairFor(router, dai, usdc), usdc, decimal.NewFromInt(10000)},
	}
	for _, tt := range tests {
		if got := env.balance(t, tt.holder, tt.token); !got.Equal(tt.want) {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}

	events, err := env.registry.Events(ctx, tokenId, 10, 0)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 1 || events[0].Kind != models.EventPortfolioMinted {
		t.Errorf("Expected only the mint event, got %+v", events)
	}
}

func TestRegisterPortfolio(t *testing.T) {
	env, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.registry.RegisterPortfolio(ctx, alice, "   ")
	expectRevert(t, err, store.ErrInputValidation, ReasonEmptyName)

	registration, err := env.registry.RegisterPortfolio(ctx, alice, " Blue Chips ")
	if err != nil {
		t.Fatalf("RegisterPortfolio failed: %v", err)
	}
	if registration.Name != "Blue Chips" || registration.Creator != alice || registration.Id == "" {
		t.Errorf("Unexpected registration: %+v", registration)
	}
}

func TestNew_RejectsZeroAddress(t *testing.T) {
	if _, err := New(nil, bridge.NewRegistry(), models.RegistryConfig{}); err == nil {
		t.Error("Expected error for zero registry address")
	}
}
