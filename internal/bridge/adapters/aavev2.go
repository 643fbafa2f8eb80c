package adapters

import (
	"context"
	"math/big"

	"indexpool-go/internal/bridge"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const aaveV2ABI = `[
	{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"pool","type":"address"},{"name":"token","type":"address"},{"name":"percentage","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"pool","type":"address"},{"name":"token","type":"address"},{"name":"percentage","type":"uint256"}],"outputs":[]}
]`

// AaveV2DepositBridge supplies tokens to a lending pool in exchange for receipt tokens.
type AaveV2DepositBridge struct {
	abi *abi.ABI
}

func NewAaveV2DepositBridge() *AaveV2DepositBridge {
	return &AaveV2DepositBridge{abi: bridge.MustParseABI(aaveV2ABI)}
}

func (b *AaveV2DepositBridge) Name() string  { return "AaveV2DepositBridge" }
func (b *AaveV2DepositBridge) ABI() *abi.ABI { return b.abi }

type lendingParams struct {
	Pool       common.Address
	Token      common.Address
	Percentage *big.Int
}

func (b *AaveV2DepositBridge) Execute(ctx context.Context, env bridge.Env, method *abi.Method, args []any) error {
	var params lendingParams
	if err := method.Inputs.Copy(&params, args); err != nil {
		return bridge.Revert(b, "INVALID_ARGUMENTS")
	}
	receipt := ReceiptToken(params.Pool, params.Token)

	switch method.Name {
	case "deposit":
		balance, err := env.Ledger.BalanceOf(ctx, env.Wallet, params.Token)
		if err != nil {
			return err
		}
		amount, err := bridge.Percentage(balance, params.Percentage)
		if err != nil {
			return bridge.Revert(b, "INVALID_PERCENTAGE")
		}
		if amount.IsZero() {
			return bridge.Revert(b, "INVALID_AMOUNT")
		}

		if err := env.Ledger.Transfer(ctx, env.Wallet, params.Pool, params.Token, amount); err != nil {
			return err
		}
		return env.Ledger.Mint(ctx, env.Wallet, receipt, amount)

	case "withdraw":
		balance, err := env.Ledger.BalanceOf(ctx, env.Wallet, receipt)
		if err != nil {
			return err
		}
		amount, err := bridge.Percentage(balance, params.Percentage)
		if err != nil {
			return bridge.Revert(b, "INVALID_PERCENTAGE")
		}
		if amount.IsZero() {
			return bridge.Revert(b, "INVALID_AMOUNT")
		}

		if err := env.Ledger.Burn(ctx, env.Wallet, receipt, amount); err != nil {
			return err
		}
		return env.Ledger.Transfer(ctx, params.Pool, env.Wallet, params.Token, amount)
	}
	return bridge.Revert(b, "UNKNOWN_METHOD")
}
