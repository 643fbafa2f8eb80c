package adapters

import (
	"context"
	"math/big"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const uniswapV2ABI = `[
	{"type":"function","name":"swapExactTokensForTokens","stateMutability":"nonpayable","inputs":[{"name":"router","type":"address"},{"name":"percentage","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"}],"outputs":[]},
	{"type":"function","name":"swapExactETHForTokens","stateMutability":"nonpayable","inputs":[{"name":"router","type":"address"},{"name":"percentage","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"}],"outputs":[]},
	{"type":"function","name":"swapExactTokensForETH","stateMutability":"nonpayable","inputs":[{"name":"router","type":"address"},{"name":"percentage","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"}],"outputs":[]}
]`

var (
	feeNumerator   = decimal.NewFromInt(997)
	feeDenominator = decimal.NewFromInt(1000)
)

// UniswapV2SwapBridge swaps along constant-product pairs with a 0.3% fee.
type UniswapV2SwapBridge struct {
	abi     *abi.ABI
	wrapped common.Address
}

func NewUniswapV2SwapBridge(wrapped common.Address) *UniswapV2SwapBridge {
	return &UniswapV2SwapBridge{abi: bridge.MustParseABI(uniswapV2ABI), wrapped: wrapped}
}

func (b *UniswapV2SwapBridge) Name() string  { return "UniswapV2SwapBridge" }
func (b *UniswapV2SwapBridge) ABI() *abi.ABI { return b.abi }

type swapParams struct {
	Router       common.Address
	Percentage   *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
}

func (b *UniswapV2SwapBridge) Execute(ctx context.Context, env bridge.Env, method *abi.Method, args []any) error {
	var params swapParams
	if err := method.Inputs.Copy(&params, args); err != nil {
		return bridge.Revert(b, "INVALID_ARGUMENTS")
	}
	if err := checkPath(b, params.Path); err != nil {
		return err
	}
	first, last := params.Path[0], params.Path[len(params.Path)-1]

	switch method.Name {
	case "swapExactTokensForTokens":
		amountIn, err := b.percentageOf(ctx, env, first, params.Percentage)
		if err != nil {
			return err
		}
		_, err = b.swap(ctx, env, params, amountIn)
		return err

	case "swapExactETHForTokens":
		if first != b.wrapped {
			return bridge.Revert(b, "INVALID_PATH")
		}
		amountIn, err := b.percentageOf(ctx, env, store.NativeToken, params.Percentage)
		if err != nil {
			return err
		}
		if err := wrapNative(ctx, env, b.wrapped, amountIn); err != nil {
			return err
		}
		_, err = b.swap(ctx, env, params, amountIn)
		return err

	case "swapExactTokensForETH":
		if last != b.wrapped {
			return bridge.Revert(b, "INVALID_PATH")
		}
		amountIn, err := b.percentageOf(ctx, env, first, params.Percentage)
		if err != nil {
			return err
		}
		amountOut, err := b.swap(ctx, env, params, amountIn)
		if err != nil {
			return err
		}
		return unwrapNative(ctx, env, b.wrapped, amountOut)
	}
	return bridge.Revert(b, "UNKNOWN_METHOD")
}

func (b *UniswapV2SwapBridge) percentageOf(ctx context.Context, env bridge.Env, token common.Address, pct *big.Int) (decimal.Decimal, error) {
	balance, err := env.Ledger.BalanceOf(ctx, env.Wallet, token)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := bridge.Percentage(balance, pct)
	if err != nil {
		return decimal.Zero, bridge.Revert(b, "INVALID_PERCENTAGE")
	}
	return amount, nil
}

func (b *UniswapV2SwapBridge) swap(ctx context.Context, env bridge.Env, params swapParams, amountIn decimal.Decimal) (decimal.Decimal, error) {
	pairs := make([]common.Address, len(params.Path)-1)
	for i := range pairs {
		pairs[i] = PairFor(params.Router, params.Path[i], params.Path[i+1])
	}
	return swapThrough(ctx, b, env, pairs, params.Path, amountIn, bridge.ToAmount(params.AmountOutMin))
}

// checkPath requires at least one hop and no hop from a token to itself.
func checkPath(adapter bridge.Adapter, path []common.Address) error {
	if len(path) < 2 {
		return bridge.Revert(adapter, "INVALID_PATH")
	}
	for i := 0; i < len(path)-1; i++ {
		if path[i] == path[i+1] {
			return bridge.Revert(adapter, "IDENTICAL_ADDRESSES")
		}
	}
	return nil
}

// swapThrough quotes every hop from current reserves, enforces amountOutMin on the
// final output, then moves tokens wallet -> pools[0] -> ... -> wallet.
// pools[i] trades path[i] for path[i+1].
func swapThrough(ctx context.Context, adapter bridge.Adapter, env bridge.Env, pools, path []common.Address, amountIn, amountOutMin decimal.Decimal) (decimal.Decimal, error) {
	if !amountIn.IsPositive() {
		return decimal.Zero, bridge.Revert(adapter, "INSUFFICIENT_INPUT_AMOUNT")
	}

	amounts := make([]decimal.Decimal, len(path))
	amounts[0] = amountIn
	for i, pool := range pools {
		reserveIn, err := env.Ledger.BalanceOf(ctx, pool, path[i])
		if err != nil {
			return decimal.Zero, err
		}
		reserveOut, err := env.Ledger.BalanceOf(ctx, pool, path[i+1])
		if err != nil {
			return decimal.Zero, err
		}
		if reserveIn.IsZero() || reserveOut.IsZero() {
			return decimal.Zero, bridge.Revert(adapter, "INSUFFICIENT_LIQUIDITY")
		}
		amounts[i+1] = GetAmountOut(amounts[i], reserveIn, reserveOut)
	}

	amountOut := amounts[len(amounts)-1]
	if amountOut.LessThan(amountOutMin) || amountOut.IsZero() {
		return decimal.Zero, bridge.Revert(adapter, "INSUFFICIENT_OUTPUT_AMOUNT")
	}

	if err := env.Ledger.Transfer(ctx, env.Wallet, pools[0], path[0], amountIn); err != nil {
		return decimal.Zero, err
	}
	for i, pool := range pools {
		to := env.Wallet
		if i < len(pools)-1 {
			to = pools[i+1]
		}
		if err := env.Ledger.Transfer(ctx, pool, to, path[i+1], amounts[i+1]); err != nil {
			return decimal.Zero, err
		}
	}

	zap.L().Debug("Swap executed",
		zap.String("adapter", adapter.Name()),
		zap.String("wallet", env.Wallet.Hex()),
		zap.String("token_in", path[0].Hex()),
		zap.String("token_out", path[len(path)-1].Hex()),
		zap.String("amount_in", amountIn.String()),
		zap.String("amount_out", amountOut.String()))
	return amountOut, nil
}

// GetAmountOut is the constant-product quote after the 0.3% input fee.
func GetAmountOut(amountIn, reserveIn, reserveOut decimal.Decimal) decimal.Decimal {
	amountInWithFee := amountIn.Mul(feeNumerator)
	denominator := reserveIn.Mul(feeDenominator).Add(amountInWithFee)
	return bridge.MulDiv(amountInWithFee, reserveOut, denominator)
}
