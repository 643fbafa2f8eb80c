package adapters

import (
	"context"
	"math/big"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const wrapABI = `[
	{"type":"function","name":"wrap","stateMutability":"nonpayable","inputs":[{"name":"percentage","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"unwrap","stateMutability":"nonpayable","inputs":[{"name":"percentage","type":"uint256"}],"outputs":[]}
]`

// WrapBridge converts native currency to its wrapped token and back.
type WrapBridge struct {
	abi     *abi.ABI
	wrapped common.Address
}

func NewWrapBridge(wrapped common.Address) *WrapBridge {
	return &WrapBridge{abi: bridge.MustParseABI(wrapABI), wrapped: wrapped}
}

func (b *WrapBridge) Name() string  { return "WrapBridge" }
func (b *WrapBridge) ABI() *abi.ABI { return b.abi }

type wrapParams struct {
	Percentage *big.Int
}

func (b *WrapBridge) Execute(ctx context.Context, env bridge.Env, method *abi.Method, args []any) error {
	var params wrapParams
	if err := method.Inputs.Copy(&params, args); err != nil {
		return bridge.Revert(b, "INVALID_ARGUMENTS")
	}

	switch method.Name {
	case "wrap":
		balance, err := env.Ledger.BalanceOf(ctx, env.Wallet, store.NativeToken)
		if err != nil {
			return err
		}
		amount, err := bridge.Percentage(balance, params.Percentage)
		if err != nil {
			return bridge.Revert(b, "INVALID_PERCENTAGE")
		}
		return wrapNative(ctx, env, b.wrapped, amount)
	case "unwrap":
		balance, err := env.Ledger.BalanceOf(ctx, env.Wallet, b.wrapped)
		if err != nil {
			return err
		}
		amount, err := bridge.Percentage(balance, params.Percentage)
		if err != nil {
			return bridge.Revert(b, "INVALID_PERCENTAGE")
		}
		return unwrapNative(ctx, env, b.wrapped, amount)
	}
	return bridge.Revert(b, "UNKNOWN_METHOD")
}

// wrapNative locks native value in the wrapped token contract and mints the same amount to the wallet.
func wrapNative(ctx context.Context, env bridge.Env, wrapped common.Address, amount decimal.Decimal) error {
	if err := env.Ledger.Transfer(ctx, env.Wallet, wrapped, store.NativeToken, amount); err != nil {
		return err
	}
	return env.Ledger.Mint(ctx, env.Wallet, wrapped, amount)
}

func unwrapNative(ctx context.Context, env bridge.Env, wrapped common.Address, amount decimal.Decimal) error {
	if err := env.Ledger.Burn(ctx, env.Wallet, wrapped, amount); err != nil {
		return err
	}
	return env.Ledger.Transfer(ctx, wrapped, env.Wallet, store.NativeToken, amount)
}
