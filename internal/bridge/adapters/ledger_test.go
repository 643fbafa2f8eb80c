package adapters

import (
	"context"
	"fmt"

	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type balanceKey struct {
	holder common.Address
	token  common.Address
}

// memLedger is a map-backed store.Ledger for exercising adapters without SQLite.
type memLedger struct {
	balances map[balanceKey]decimal.Decimal
	supply   map[common.Address]decimal.Decimal
}

func newMemLedger() *memLedger {
	return &memLedger{
		balances: make(map[balanceKey]decimal.Decimal),
		supply:   make(map[common.Address]decimal.Decimal),
	}
}

func (l *memLedger) BalanceOf(_ context.Context, holder, token common.Address) (decimal.Decimal, error) {
	return l.balances[balanceKey{holder, token}], nil
}

func (l *memLedger) debit(holder, token common.Address, amount decimal.Decimal) error {
	key := balanceKey{holder, token}
	if l.balances[key].LessThan(amount) {
		return fmt.Errorf("%w: %s holds %s of %s, needs %s", store.ErrInsufficientBalance,
			holder.Hex(), l.balances[key], token.Hex(), amount)
	}
	l.balances[key] = l.balances[key].Sub(amount)
	return nil
}

func (l *memLedger) Transfer(_ context.Context, from, to, token common.Address, amount decimal.Decimal) error {
	if err := l.debit(from, token, amount); err != nil {
		return err
	}
	key := balanceKey{to, token}
	l.balances[key] = l.balances[key].Add(amount)
	return nil
}

func (l *memLedger) Mint(_ context.Context, to, token common.Address, amount decimal.Decimal) error {
	key := balanceKey{to, token}
	l.balances[key] = l.balances[key].Add(amount)
	l.supply[token] = l.supply[token].Add(amount)
	return nil
}

func (l *memLedger) Burn(_ context.Context, from, token common.Address, amount decimal.Decimal) error {
	if err := l.debit(from, token, amount); err != nil {
		return err
	}
	l.supply[token] = l.supply[token].Sub(amount)
	return nil
}

func (l *memLedger) TotalSupply(_ context.Context, token common.Address) (decimal.Decimal, error) {
	return l.supply[token], nil
}

func (l *memLedger) set(holder, token common.Address, amount int64) {
	l.balances[balanceKey{holder, token}] = decimal.NewFromInt(amount)
}

func (l *memLedger) get(holder, token common.Address) decimal.Decimal {
	return l.balances[balanceKey{holder, token}]
}
