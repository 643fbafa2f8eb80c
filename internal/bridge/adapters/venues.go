// Package adapters holds the protocol strategies wallets may dispatch to.
//
// Venues (swap pairs, lending pools) are plain ledger accounts. A pair's
// reserves are its balances of the two tokens; a lending pool's liquidity is its
// balance of the underlying token.
package adapters

import (
	"bytes"
	"fmt"

	"indexpool-go/internal/bridge"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SortTokens orders a token pair the way pair addresses are derived.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

// PairFor derives the constant-product pair of tokenA/tokenB under router.
func PairFor(router, tokenA, tokenB common.Address) common.Address {
	token0, token1 := SortTokens(tokenA, tokenB)
	hash := crypto.Keccak256(router.Bytes(), token0.Bytes(), token1.Bytes())
	return common.BytesToAddress(hash[12:])
}

// ReceiptToken derives the interest-bearing token a lending pool mints for deposits of token.
func ReceiptToken(pool, token common.Address) common.Address {
	hash := crypto.Keccak256([]byte("receipt"), pool.Bytes(), token.Bytes())
	return common.BytesToAddress(hash[12:])
}

// Kinds accepted by New.
const (
	KindUniswapV2Swap  = "uniswap-v2-swap"
	KindAaveV2Deposit  = "aave-v2-deposit"
	KindWrap           = "wrap"
	KindKyberLiquidity = "kyber-liquidity"
	KindKyberSwap      = "kyber-swap"
)

// New builds an adapter by kind. wrapped is the wrapped-native token used by adapters that touch native value.
func New(kind string, wrapped common.Address) (bridge.Adapter, error) {
	switch kind {
	case KindUniswapV2Swap:
		return NewUniswapV2SwapBridge(wrapped), nil
	case KindAaveV2Deposit:
		return NewAaveV2DepositBridge(), nil
	case KindWrap:
		return NewWrapBridge(wrapped), nil
	case KindKyberLiquidity:
		return NewKyberLiquidityBridge(), nil
	case KindKyberSwap:
		return NewKyberSwapBridge(), nil
	}
	return nil, fmt.Errorf("unknown adapter kind %q", kind)
}
