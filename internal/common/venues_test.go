package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"indexpool-go/internal/bridge/adapters"
	"indexpool-go/internal/database"
	"indexpool-go/internal/indexpool"
	"indexpool-go/internal/models"
	"indexpool-go/internal/store"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const testVenues = `
wrapped: WETH
accounts:
  alice: "0x00000000000000000000000000000000000a11ce"
  uniswap-router: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"
  aave-pool: "0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9"
tokens:
  - symbol: WETH
    address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
    decimals: 18
  - symbol: DAI
    address: "0x6B175474E89094C44Da98b954EedeAC495271d0F"
    decimals: 18
  - symbol: USDC
    address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
    decimals: 6
bridges:
  - name: uniswap
    kind: uniswap-v2-swap
    address: "0x0000000000000000000000000000000000000b01"
  - name: aave
    kind: aave-v2-deposit
    address: "0x0000000000000000000000000000000000000b02"
pairs:
  - router: uniswap-router
    tokens: [DAI, USDC]
    reserves: ["10000", "10000"]
  - router: uniswap-router
    tokens: [WETH, DAI]
    reserves: ["100", "200000"]
pools:
  - pool: aave-pool
    token: USDC
    liquidity: "5000"
faucet:
  - holder: alice
    token: DAI
    amount: "1000"
  - holder: alice
    token: ETH
    amount: "10"
allowances:
  - owner: alice
    token: DAI
    amount: "1000"
`

const testPlan = `
from: alice
value: "0.5"
inputs:
  - token: DAI
    amount: "100"
calls:
  - bridge: uniswap
    method: swapExactTokensForTokens
    args:
      router: uniswap-router
      percentage: 100000
      amountOutMin: "0"
      path: [DAI, USDC]
  - bridge: aave
    method: deposit
    args:
      pool: aave-pool
      token: USDC
      percentage: 100000
`

var (
	alice = ethcommon.HexToAddress("0x00000000000000000000000000000000000a11ce")
	dai   = ethcommon.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	usdc  = ethcommon.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	weth  = ethcommon.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func parseTestVenues(t *testing.T) *Venues {
	t.Helper()
	venues, err := ParseVenues([]byte(testVenues))
	if err != nil {
		t.Fatalf("ParseVenues failed: %v", err)
	}
	return venues
}

func TestParseVenues_Resolve(t *testing.T) {
	venues := parseTestVenues(t)

	tests := map[string]ethcommon.Address{
		"DAI":     dai,
		"ETH":     store.NativeToken,
		"alice":   alice,
		"uniswap": ethcommon.HexToAddress("0xb01"),
		"0x00000000000000000000000000000000000000ff": ethcommon.HexToAddress("0xff"),
	}
	for name, want := range tests {
		got, err := venues.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%q): expected %s, got %s", name, want.Hex(), got.Hex())
		}
	}

	if _, err := venues.Resolve("bob"); err == nil {
		t.Error("Expected error for unknown name")
	}
	if venues.WrappedToken() != weth {
		t.Errorf("Expected wrapped token %s, got %s", weth.Hex(), venues.WrappedToken().Hex())
	}
	if venues.Symbol(usdc) != "USDC" {
		t.Errorf("Expected USDC symbol, got %q", venues.Symbol(usdc))
	}
}

func TestParseVenues_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing symbol":  "tokens:\n  - address: \"0x6B175474E89094C44Da98b954EedeAC495271d0F\"\n",
		"bad address":     "tokens:\n  - symbol: DAI\n    address: nope\n",
		"unknown wrapped": "wrapped: WETH\n",
		"bridge kind":     "bridges:\n  - name: x\n    address: \"0x0000000000000000000000000000000000000b01\"\n",
		"short pair":      "pairs:\n  - router: r\n    tokens: [DAI]\n    reserves: [\"1\"]\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseVenues([]byte(data)); err == nil {
				t.Error("Expected parse error")
			}
		})
	}
}

func TestParseAmountAndFormat(t *testing.T) {
	venues := parseTestVenues(t)

	token, amount, err := venues.ParseAmount("USDC", "1.5")
	if err != nil {
		t.Fatalf("ParseAmount failed: %v", err)
	}
	if token != usdc || !amount.Equal(decimal.NewFromInt(1_500_000)) {
		t.Errorf("Expected 1500000 USDC base units, got %s of %s", amount, token.Hex())
	}
	if got := venues.FormatAmount(usdc, amount); got != "1.5 USDC" {
		t.Errorf("Expected \"1.5 USDC\", got %q", got)
	}

	if _, _, err := venues.ParseAmount("USDC", "0.0000001"); err == nil {
		t.Error("Expected error below one base unit")
	}
	if _, _, err := venues.ParseAmount("WBTC", "1"); err == nil {
		t.Error("Expected error for unknown token")
	}
}

func TestSeedAndMintFromPlan(t *testing.T) {
	ctx := context.Background()
	venues := parseTestVenues(t)

	bridges, err := venues.BuildBridges()
	if err != nil {
		t.Fatalf("BuildBridges failed: %v", err)
	}
	if len(bridges.Addresses()) != 2 {
		t.Fatalf("Expected 2 bridges, got %d", len(bridges.Addresses()))
	}

	db, err := database.NewService(ctx, models.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, PingTimeout: time.Second})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	registryAddress := ethcommon.HexToAddress("0x1d9001")
	if err := venues.Seed(ctx, db, registryAddress); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	router := ethcommon.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	err = db.View(ctx, func(uow store.UnitOfWork) error {
		reserve, err := uow.BalanceOf(ctx, adapters.PairFor(router, dai, usdc), usdc)
		if err != nil {
			return err
		}
		if !reserve.Equal(decimal.New(10000, 6)) {
			t.Errorf("Expected 10000 USDC reserve, got %s", reserve)
		}
		backing, err := uow.BalanceOf(ctx, weth, store.NativeToken)
		if err != nil {
			return err
		}
		if !backing.Equal(decimal.New(100, 18)) {
			t.Errorf("Expected seeded WETH to be backed by 100 ETH, got %s", backing)
		}
		allowance, err := uow.Allowance(ctx, alice, registryAddress, dai)
		if err != nil {
			return err
		}
		if !allowance.Equal(decimal.New(1000, 18)) {
			t.Errorf("Expected allowance of 1000 DAI to the registry, got %s", allowance)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}

	planFile := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(planFile, []byte(testPlan), 0o600); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}
	plan, err := LoadPlan(planFile)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	opts, params, err := plan.Build(venues, bridges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if opts.From != alice || params.Recipient != alice || params.Payer != alice {
		t.Errorf("Expected alice as caller, recipient and payer, got %+v %+v", opts, params)
	}
	if !opts.Value.Equal(decimal.New(5, 17)) {
		t.Errorf("Expected 0.5 ETH, got %s", opts.Value)
	}

	registry, err := indexpool.New(db, bridges, models.RegistryConfig{Address: registryAddress})
	if err != nil {
		t.Fatalf("indexpool.New failed: %v", err)
	}
	tokenId, err := registry.MintPortfolio(ctx, opts, params)
	if err != nil {
		t.Fatalf("MintPortfolio failed: %v", err)
	}

	holdings, err := registry.Holdings(ctx, tokenId)
	if err != nil {
		t.Fatalf("Holdings failed: %v", err)
	}
	symbols := make(map[string]bool)
	for _, holding := range holdings {
		symbols[venues.Symbol(holding.Token)] = true
	}
	if !symbols["ETH"] || len(holdings) != 2 {
		t.Errorf("Expected ETH plus the lending receipt, got %+v", holdings)
	}
}

func TestLoadPlanRequiresFrom(t *testing.T) {
	planFile := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(planFile, []byte("value: \"1\"\n"), 0o600); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}
	if _, err := LoadPlan(planFile); err == nil {
		t.Error("Expected error for plan without from")
	}
}
