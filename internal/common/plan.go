package common

import (
	"fmt"
	"os"

	"indexpool-go/internal/bridge"
	"indexpool-go/internal/indexpool"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type InputConfig struct {
	Token  string `yaml:"token"`
	Amount string `yaml:"amount"`
}

// CallConfig is one bridge call with its arguments named as in the adapter's ABI.
type CallConfig struct {
	Bridge string                 `yaml:"bridge"`
	Method string                 `yaml:"method"`
	Args   map[string]interface{} `yaml:"args"`
}

// Plan is a basket to mint or edit, read from YAML. Amounts are in whole token units.
type Plan struct {
	From      string        `yaml:"from"`
	Recipient string        `yaml:"recipient"`
	Payer     string        `yaml:"payer"`
	Value     string        `yaml:"value"`
	Inputs    []InputConfig `yaml:"inputs"`
	Calls     []CallConfig  `yaml:"calls"`
}

func LoadPlan(planFile string) (*Plan, error) {
	planPath, err := resolvePath(planFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(planPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", planFile, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", planFile, err)
	}
	if plan.From == "" {
		return nil, fmt.Errorf("plan %s missing from", planFile)
	}
	return &plan, nil
}

// Build resolves every name in the plan and ABI-encodes its calls.
func (p *Plan) Build(v *Venues, bridges *bridge.Registry) (indexpool.CallOpts, indexpool.PortfolioParams, error) {
	var opts indexpool.CallOpts
	var params indexpool.PortfolioParams

	from, err := v.Resolve(p.From)
	if err != nil {
		return opts, params, fmt.Errorf("from: %w", err)
	}
	opts.From = from
	opts.Value = decimal.Zero
	if p.Value != "" {
		if _, opts.Value, err = v.ParseAmount(NativeSymbol, p.Value); err != nil {
			return opts, params, fmt.Errorf("value: %w", err)
		}
	}

	params.Recipient, params.Payer = from, from
	if p.Recipient != "" {
		if params.Recipient, err = v.Resolve(p.Recipient); err != nil {
			return opts, params, fmt.Errorf("recipient: %w", err)
		}
	}
	if p.Payer != "" {
		if params.Payer, err = v.Resolve(p.Payer); err != nil {
			return opts, params, fmt.Errorf("payer: %w", err)
		}
	}

	for i, input := range p.Inputs {
		token, amount, err := v.ParseAmount(input.Token, input.Amount)
		if err != nil {
			return opts, params, fmt.Errorf("input %d: %w", i, err)
		}
		params.InputTokens = append(params.InputTokens, token)
		params.InputAmounts = append(params.InputAmounts, amount)
	}

	for i, call := range p.Calls {
		address, err := v.Resolve(call.Bridge)
		if err != nil {
			return opts, params, fmt.Errorf("call %d: %w", i, err)
		}
		adapter, ok := bridges.Lookup(address)
		if !ok {
			return opts, params, fmt.Errorf("call %d: bridge %s is not configured", i, call.Bridge)
		}

		calldata, err := bridge.EncodeNamed(adapter, call.Method, call.Args, v.Resolve)
		if err != nil {
			return opts, params, fmt.Errorf("call %d: %w", i, err)
		}
		params.BridgeAddresses = append(params.BridgeAddresses, address)
		params.BridgeEncodedCalls = append(params.BridgeEncodedCalls, calldata)
	}

	return opts, params, nil
}
