package adapters

import (
	"context"
	"math/big"

	"indexpool-go/internal/bridge"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const kyberABI = `[
	{"type":"function","name":"addLiquidity","stateMutability":"nonpayable","inputs":[{"name":"tokens","type":"address[]"},{"name":"pool","type":"address"},{"name":"percentages","type":"uint256[]"},{"name":"minAmounts","type":"uint256[]"},{"name":"vReserveRatioBounds","type":"uint256[]"}],"outputs":[]}
]`

const kyberSwapABI = `[
	{"type":"function","name":"swapTokenToToken","stateMutability":"nonpayable","inputs":[{"name":"amountInPercentage","type":"uint256"},{"name":"minAmountOut","type":"uint256"},{"name":"poolsPath","type":"address[]"},{"name":"path","type":"address[]"}],"outputs":[]}
]`

// Q112 scales reserve ratios the way vReserveRatioBounds are expressed.
var q112 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 112), 0)

// KyberLiquidityBridge adds two-sided liquidity to a pool. The pool address is
// also the liquidity token it issues.
type KyberLiquidityBridge struct {
	abi *abi.ABI
}

func NewKyberLiquidityBridge() *KyberLiquidityBridge {
	return &KyberLiquidityBridge{abi: bridge.MustParseABI(kyberABI)}
}

func (b *KyberLiquidityBridge) Name() string  { return "KyberLiquidityBridge" }
func (b *KyberLiquidityBridge) ABI() *abi.ABI { return b.abi }

type liquidityParams struct {
	Tokens              []common.Address
	Pool                common.Address
	Percentages         []*big.Int
	MinAmounts          []*big.Int
	VReserveRatioBounds []*big.Int
}

func (b *KyberLiquidityBridge) Execute(ctx context.Context, env bridge.Env, method *abi.Method, args []any) error {
	if method.Name != "addLiquidity" {
		return bridge.Revert(b, "UNKNOWN_METHOD")
	}

	var params liquidityParams
	if err := method.Inputs.Copy(&params, args); err != nil {
		return bridge.Revert(b, "INVALID_ARGUMENTS")
	}
	if len(params.Tokens) != 2 || len(params.Percentages) != 2 || len(params.MinAmounts) != 2 || len(params.VReserveRatioBounds) != 2 {
		return bridge.Revert(b, "INVALID_ARGUMENTS")
	}
	if params.Tokens[0] == params.Tokens[1] {
		return bridge.Revert(b, "IDENTICAL_ADDRESSES")
	}

	var desired, reserves [2]decimal.Decimal
	for i, token := range params.Tokens {
		balance, err := env.Ledger.BalanceOf(ctx, env.Wallet, token)
		if err != nil {
			return err
		}
		if desired[i], err = bridge.Percentage(balance, params.Percentages[i]); err != nil {
			return bridge.Revert(b, "INVALID_PERCENTAGE")
		}
		if reserves[i], err = env.Ledger.BalanceOf(ctx, params.Pool, token); err != nil {
			return err
		}
	}
	minAmounts := [2]decimal.Decimal{bridge.ToAmount(params.MinAmounts[0]), bridge.ToAmount(params.MinAmounts[1])}

	amounts, err := b.optimalAmounts(desired, reserves, minAmounts, params.VReserveRatioBounds)
	if err != nil {
		return err
	}

	supply, err := env.Ledger.TotalSupply(ctx, params.Pool)
	if err != nil {
		return err
	}
	var liquidity decimal.Decimal
	if supply.IsZero() || reserves[0].IsZero() || reserves[1].IsZero() {
		liquidity = bridge.Sqrt(amounts[0].Mul(amounts[1]))
	} else {
		liquidity = bridge.Min(
			bridge.MulDiv(amounts[0], supply, reserves[0]),
			bridge.MulDiv(amounts[1], supply, reserves[1]),
		)
	}
	if !liquidity.IsPositive() {
		return bridge.Revert(b, "INSUFFICIENT_LIQUIDITY_MINTED")
	}

	for i, token := range params.Tokens {
		if err := env.Ledger.Transfer(ctx, env.Wallet, params.Pool, token, amounts[i]); err != nil {
			return err
		}
	}
	return env.Ledger.Mint(ctx, env.Wallet, params.Pool, liquidity)
}

// optimalAmounts keeps the pool ratio: one side is used in full and the other
// is scaled down to match. Empty pools take the desired amounts as given.
func (b *KyberLiquidityBridge) optimalAmounts(desired, reserves, minAmounts [2]decimal.Decimal, bounds []*big.Int) ([2]decimal.Decimal, error) {
	if reserves[0].IsZero() && reserves[1].IsZero() {
		if desired[0].LessThan(minAmounts[0]) {
			return desired, bridge.Revert(b, "INSUFFICIENT_A_AMOUNT")
		}
		if desired[1].LessThan(minAmounts[1]) {
			return desired, bridge.Revert(b, "INSUFFICIENT_B_AMOUNT")
		}
		return desired, nil
	}
	if reserves[0].IsZero() || reserves[1].IsZero() {
		return desired, bridge.Revert(b, "INSUFFICIENT_LIQUIDITY")
	}

	// [0, 0] disables the ratio check.
	upper := bridge.ToAmount(bounds[1])
	if upper.IsPositive() {
		rate := bridge.MulDiv(reserves[1], q112, reserves[0])
		if rate.LessThan(bridge.ToAmount(bounds[0])) || rate.GreaterThan(upper) {
			return desired, bridge.Revert(b, "OUT_OF_BOUNDS")
		}
	}

	optimal1 := bridge.MulDiv(desired[0], reserves[1], reserves[0])
	if optimal1.LessThanOrEqual(desired[1]) {
		if optimal1.LessThan(minAmounts[1]) {
			return desired, bridge.Revert(b, "INSUFFICIENT_B_AMOUNT")
		}
		return [2]decimal.Decimal{desired[0], optimal1}, nil
	}

	optimal0 := bridge.MulDiv(desired[1], reserves[0], reserves[1])
	if optimal0.LessThan(minAmounts[0]) {
		return desired, bridge.Revert(b, "INSUFFICIENT_A_AMOUNT")
	}
	return [2]decimal.Decimal{optimal0, desired[1]}, nil
}

// KyberSwapBridge swaps along an explicit list of pools, one per hop.
type KyberSwapBridge struct {
	abi *abi.ABI
}

func NewKyberSwapBridge() *KyberSwapBridge {
	return &KyberSwapBridge{abi: bridge.MustParseABI(kyberSwapABI)}
}

func (b *KyberSwapBridge) Name() string  { return "KyberSwapBridge" }
func (b *KyberSwapBridge) ABI() *abi.ABI { return b.abi }

type poolSwapParams struct {
	AmountInPercentage *big.Int
	MinAmountOut       *big.Int
	PoolsPath          []common.Address
	Path               []common.Address
}

func (b *KyberSwapBridge) Execute(ctx context.Context, env bridge.Env, method *abi.Method, args []any) error {
	if method.Name != "swapTokenToToken" {
		return bridge.Revert(b, "UNKNOWN_METHOD")
	}

	var params poolSwapParams
	if err := method.Inputs.Copy(&params, args); err != nil {
		return bridge.Revert(b, "INVALID_ARGUMENTS")
	}
	if err := checkPath(b, params.Path); err != nil {
		return err
	}
	if len(params.PoolsPath) != len(params.Path)-1 {
		return bridge.Revert(b, "INVALID_POOLS_PATH")
	}

	balance, err := env.Ledger.BalanceOf(ctx, env.Wallet, params.Path[0])
	if err != nil {
		return err
	}
	amountIn, err := bridge.Percentage(balance, params.AmountInPercentage)
	if err != nil {
		return bridge.Revert(b, "INVALID_PERCENTAGE")
	}

	_, err = swapThrough(ctx, b, env, params.PoolsPath, params.Path, amountIn, bridge.ToAmount(params.MinAmountOut))
	return err
}
