package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/bridge/adapters"
	"indexpool-go/internal/store"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// NativeSymbol names the chain's native currency in venue and plan files.
const NativeSymbol = "ETH"

type TokenConfig struct {
	Symbol   string `yaml:"symbol"`
	Address  string `yaml:"address"`
	Decimals int32  `yaml:"decimals"`
}

type BridgeConfig struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Address string `yaml:"address"`
}

// PairConfig seeds a constant-product pair's reserves. Amounts are in whole token units.
type PairConfig struct {
	Router   string   `yaml:"router"`
	Tokens   []string `yaml:"tokens"`
	Reserves []string `yaml:"reserves"`
}

// PoolConfig seeds one token of a lending or liquidity pool.
type PoolConfig struct {
	Pool      string `yaml:"pool"`
	Token     string `yaml:"token"`
	Liquidity string `yaml:"liquidity"`
}

type FaucetConfig struct {
	Holder string `yaml:"holder"`
	Token  string `yaml:"token"`
	Amount string `yaml:"amount"`
}

// AllowanceConfig grants spender (the registry when empty) a pull allowance over owner's tokens.
type AllowanceConfig struct {
	Owner   string `yaml:"owner"`
	Spender string `yaml:"spender"`
	Token   string `yaml:"token"`
	Amount  string `yaml:"amount"`
}

// Venues is the contents of the venues file: the tokens, named accounts,
// bridges and seeded liquidity of a local deployment.
type Venues struct {
	Wrapped    string            `yaml:"wrapped"`
	Accounts   map[string]string `yaml:"accounts"`
	Tokens     []TokenConfig     `yaml:"tokens"`
	Bridges    []BridgeConfig    `yaml:"bridges"`
	Pairs      []PairConfig      `yaml:"pairs"`
	Pools      []PoolConfig      `yaml:"pools"`
	Faucet     []FaucetConfig    `yaml:"faucet"`
	Allowances []AllowanceConfig `yaml:"allowances"`

	tokens  map[string]TokenConfig
	symbols map[ethcommon.Address]string
}

func resolvePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, file), nil
}

func LoadVenues(venuesFile string) (*Venues, error) {
	venuesPath, err := resolvePath(venuesFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(venuesPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", venuesFile, err)
	}
	return ParseVenues(data)
}

func ParseVenues(data []byte) (*Venues, error) {
	var venues Venues
	if err := yaml.Unmarshal(data, &venues); err != nil {
		return nil, fmt.Errorf("unable to parse venues: %w", err)
	}

	venues.tokens = map[string]TokenConfig{
		NativeSymbol: {Symbol: NativeSymbol, Address: store.NativeToken.Hex(), Decimals: 18},
	}
	venues.symbols = map[ethcommon.Address]string{store.NativeToken: NativeSymbol}

	for i, token := range venues.Tokens {
		if token.Symbol == "" {
			return nil, fmt.Errorf("token at index %d missing symbol", i)
		}
		if !ethcommon.IsHexAddress(token.Address) {
			return nil, fmt.Errorf("token %s has invalid address %q", token.Symbol, token.Address)
		}
		if token.Decimals < 0 || token.Decimals > 36 {
			return nil, fmt.Errorf("token %s has invalid decimals %d", token.Symbol, token.Decimals)
		}
		if _, exists := venues.tokens[token.Symbol]; exists {
			return nil, fmt.Errorf("token %s defined twice", token.Symbol)
		}
		venues.tokens[token.Symbol] = token
		venues.symbols[ethcommon.HexToAddress(token.Address)] = token.Symbol
	}

	for i, b := range venues.Bridges {
		if b.Name == "" || b.Kind == "" {
			return nil, fmt.Errorf("bridge at index %d missing name or kind", i)
		}
		if !ethcommon.IsHexAddress(b.Address) {
			return nil, fmt.Errorf("bridge %s has invalid address %q", b.Name, b.Address)
		}
	}

	for i, pair := range venues.Pairs {
		if len(pair.Tokens) != 2 || len(pair.Reserves) != 2 {
			return nil, fmt.Errorf("pair at index %d needs exactly two tokens and two reserves", i)
		}
	}

	if venues.Wrapped != "" {
		if _, ok := venues.tokens[venues.Wrapped]; !ok {
			return nil, fmt.Errorf("wrapped token %s is not defined", venues.Wrapped)
		}
	}

	return &venues, nil
}

// Resolve turns a token symbol, bridge name, named account or hex string into an address.
func (v *Venues) Resolve(name string) (ethcommon.Address, error) {
	name = strings.TrimSpace(name)
	if token, ok := v.tokens[name]; ok {
		return ethcommon.HexToAddress(token.Address), nil
	}
	for _, b := range v.Bridges {
		if b.Name == name {
			return ethcommon.HexToAddress(b.Address), nil
		}
	}
	if address, ok := v.Accounts[name]; ok {
		if !ethcommon.IsHexAddress(address) {
			return ethcommon.Address{}, fmt.Errorf("account %s has invalid address %q", name, address)
		}
		return ethcommon.HexToAddress(address), nil
	}
	if ethcommon.IsHexAddress(name) {
		return ethcommon.HexToAddress(name), nil
	}
	return ethcommon.Address{}, fmt.Errorf("unknown token, bridge or account %q", name)
}

// Symbol returns the symbol of a known token, or "" when the token is unknown.
func (v *Venues) Symbol(token ethcommon.Address) string {
	return v.symbols[token]
}

// WrappedToken returns the wrapped native token, or the zero address when none is configured.
func (v *Venues) WrappedToken() ethcommon.Address {
	if v.Wrapped == "" {
		return ethcommon.Address{}
	}
	return ethcommon.HexToAddress(v.tokens[v.Wrapped].Address)
}

// ParseAmount converts a whole-unit amount such as "1.5" of token into base units.
func (v *Venues) ParseAmount(symbol, amount string) (ethcommon.Address, decimal.Decimal, error) {
	token, ok := v.tokens[symbol]
	if !ok {
		return ethcommon.Address{}, decimal.Zero, fmt.Errorf("unknown token %q", symbol)
	}

	units, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return ethcommon.Address{}, decimal.Zero, fmt.Errorf("invalid %s amount %q: %w", symbol, amount, err)
	}
	base := units.Shift(token.Decimals)
	if base.IsNegative() || !base.Equal(base.Truncate(0)) {
		return ethcommon.Address{}, decimal.Zero, fmt.Errorf("%s amount %q is not a whole number of base units", symbol, amount)
	}
	return ethcommon.HexToAddress(token.Address), base, nil
}

// FormatAmount renders base units of token in whole units.
func (v *Venues) FormatAmount(token ethcommon.Address, amount decimal.Decimal) string {
	symbol, ok := v.symbols[token]
	if !ok {
		return amount.String()
	}
	return amount.Shift(-v.tokens[symbol].Decimals).String() + " " + symbol
}

// BuildBridges allow-lists every configured bridge under its address.
func (v *Venues) BuildBridges() (*bridge.Registry, error) {
	registry := bridge.NewRegistry()
	for _, b := range v.Bridges {
		adapter, err := adapters.New(b.Kind, v.WrappedToken())
		if err != nil {
			return nil, fmt.Errorf("bridge %s: %w", b.Name, err)
		}
		if err := registry.Allow(ethcommon.HexToAddress(b.Address), adapter); err != nil {
			return nil, fmt.Errorf("bridge %s: %w", b.Name, err)
		}
	}
	return registry, nil
}

// Seed writes pair reserves, pool liquidity, faucet balances and allowances in one unit of work.
func (v *Venues) Seed(ctx context.Context, st store.Store, registry ethcommon.Address) error {
	return st.Atomic(ctx, func(uow store.UnitOfWork) error {
		for _, pair := range v.Pairs {
			router, err := v.Resolve(pair.Router)
			if err != nil {
				return err
			}
			tokenA, reserveA, err := v.ParseAmount(pair.Tokens[0], pair.Reserves[0])
			if err != nil {
				return err
			}
			tokenB, reserveB, err := v.ParseAmount(pair.Tokens[1], pair.Reserves[1])
			if err != nil {
				return err
			}

			address := adapters.PairFor(router, tokenA, tokenB)
			if err := v.mint(ctx, uow, address, tokenA, reserveA); err != nil {
				return err
			}
			if err := v.mint(ctx, uow, address, tokenB, reserveB); err != nil {
				return err
			}
			zap.L().Info("Seeded pair",
				zap.String("pair", address.Hex()),
				zap.String("tokens", pair.Tokens[0]+"/"+pair.Tokens[1]))
		}

		for _, pool := range v.Pools {
			address, err := v.Resolve(pool.Pool)
			if err != nil {
				return err
			}
			token, liquidity, err := v.ParseAmount(pool.Token, pool.Liquidity)
			if err != nil {
				return err
			}
			if err := v.mint(ctx, uow, address, token, liquidity); err != nil {
				return err
			}
			zap.L().Info("Seeded pool", zap.String("pool", address.Hex()), zap.String("token", pool.Token))
		}

		for _, faucet := range v.Faucet {
			holder, err := v.Resolve(faucet.Holder)
			if err != nil {
				return err
			}
			token, amount, err := v.ParseAmount(faucet.Token, faucet.Amount)
			if err != nil {
				return err
			}
			if err := v.mint(ctx, uow, holder, token, amount); err != nil {
				return err
			}
		}

		for _, allowance := range v.Allowances {
			owner, err := v.Resolve(allowance.Owner)
			if err != nil {
				return err
			}
			spender := registry
			if allowance.Spender != "" {
				if spender, err = v.Resolve(allowance.Spender); err != nil {
					return err
				}
			}
			token, amount, err := v.ParseAmount(allowance.Token, allowance.Amount)
			if err != nil {
				return err
			}
			if err := uow.Approve(ctx, owner, spender, token, amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// mint credits holder and, for native value, keeps the wrapped token fully backed.
func (v *Venues) mint(ctx context.Context, uow store.UnitOfWork, holder, token ethcommon.Address, amount decimal.Decimal) error {
	if err := uow.Mint(ctx, holder, token, amount); err != nil {
		return err
	}
	if wrapped := v.WrappedToken(); wrapped != (ethcommon.Address{}) && token == wrapped {
		return uow.Mint(ctx, wrapped, store.NativeToken, amount)
	}
	return nil
}
