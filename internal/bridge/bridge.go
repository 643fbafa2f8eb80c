// Package bridge defines the calling convention every protocol adapter follows:
// calls arrive as ABI-encoded calldata, act on the calling wallet's balances, and
// size their principal as a percentage of the wallet's current balance.
package bridge

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// PercentageBase is 100%. A percentage argument of 50_000 means half the balance.
const PercentageBase = 100_000

var percentageBase = decimal.NewFromInt(PercentageBase)

// Env is the execution context of one bridge call. Wallet is the account whose
// balances the adapter spends and credits; Ledger is the running unit of work.
type Env struct {
	Wallet common.Address
	Ledger store.Ledger
}

// Adapter is a stateless protocol strategy.
type Adapter interface {
	Name() string
	ABI() *abi.ABI
	Execute(ctx context.Context, env Env, method *abi.Method, args []any) error
}

// Revert fails the current bridge call with a stable reason prefixed by the adapter name.
func Revert(adapter Adapter, reason string) error {
	return store.NewRevert(store.ErrAdapterExecution, fmt.Sprintf("%s: %s", adapter.Name(), reason), nil)
}

// Percentage returns floor(balance * pct / PercentageBase).
func Percentage(balance decimal.Decimal, pct *big.Int) (decimal.Decimal, error) {
	if pct == nil || pct.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("percentage must be non-negative")
	}
	p := decimal.NewFromBigInt(pct, 0)
	if p.GreaterThan(percentageBase) {
		return decimal.Zero, fmt.Errorf("percentage %s exceeds %d", p.String(), PercentageBase)
	}
	return MulDiv(balance, p, percentageBase), nil
}

// MulDiv returns floor(a * b / c) for non-negative integers held in decimals.
func MulDiv(a, b, c decimal.Decimal) decimal.Decimal {
	if c.IsZero() {
		return decimal.Zero
	}
	q, _ := a.Mul(b).QuoRem(c, 0)
	return q
}

// Sqrt returns the integer square root of a non-negative integer decimal.
func Sqrt(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Sqrt(d.BigInt()), 0)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ToAmount converts an ABI uint256 argument into a ledger amount.
func ToAmount(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0)
}

// MustParseABI parses an adapter's static ABI definition.
func MustParseABI(definition string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid adapter ABI: %v", err))
	}
	return &parsed
}
