package bridge

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrCalldataTooShort = errors.New("calldata shorter than a selector")
	ErrMissingArgument  = errors.New("missing argument")
)

// Encode packs a call to method with positional arguments.
func Encode(adapter Adapter, method string, args ...any) ([]byte, error) {
	return adapter.ABI().Pack(method, args...)
}

// Decode resolves the selector in calldata against the adapter's ABI and unpacks its arguments.
func Decode(adapter Adapter, calldata []byte) (*abi.Method, []any, error) {
	if len(calldata) < 4 {
		return nil, nil, ErrCalldataTooShort
	}

	method, err := adapter.ABI().MethodById(calldata[:4])
	if err != nil {
		return nil, nil, err
	}

	args, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return nil, nil, fmt.Errorf("unable to unpack %s arguments: %w", method.Name, err)
	}
	return method, args, nil
}

// AddressResolver turns a symbol or hex string into an address.
type AddressResolver func(string) (common.Address, error)

// EncodeNamed packs a call from loosely typed named arguments, the shape they take
// after being read from YAML. Addresses may be symbols understood by resolve.
func EncodeNamed(adapter Adapter, method string, named map[string]any, resolve AddressResolver) ([]byte, error) {
	m, ok := adapter.ABI().Methods[method]
	if !ok {
		return nil, fmt.Errorf("%s has no method %q", adapter.Name(), method)
	}

	values := make([]any, 0, len(m.Inputs))
	for _, input := range m.Inputs {
		raw, ok := named[input.Name]
		if !ok {
			return nil, fmt.Errorf("%w %q for %s.%s", ErrMissingArgument, input.Name, adapter.Name(), method)
		}
		value, err := convertArgument(input.Type, raw, resolve)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", input.Name, err)
		}
		values = append(values, value)
	}

	return adapter.ABI().Pack(method, values...)
}

func convertArgument(t abi.Type, raw any, resolve AddressResolver) (any, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected address string, got %T", raw)
		}
		return resolve(s)
	case abi.UintTy, abi.IntTy:
		return toBigInt(raw)
	case abi.SliceTy:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected list, got %T", raw)
		}
		switch t.Elem.T {
		case abi.AddressTy:
			out := make([]common.Address, len(items))
			for i, item := range items {
				v, err := convertArgument(*t.Elem, item, resolve)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				out[i] = v.(common.Address)
			}
			return out, nil
		case abi.UintTy, abi.IntTy:
			out := make([]*big.Int, len(items))
			for i, item := range items {
				v, err := toBigInt(item)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				out[i] = v
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("unsupported argument type %s", t.String())
}

func toBigInt(raw any) (*big.Int, error) {
	switch v := raw.(type) {
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case string:
		n, ok := new(big.Int).SetString(strings.TrimSpace(v), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("expected integer, got %T", raw)
}
