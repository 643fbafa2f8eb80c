package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	ErrZeroAddress    = errors.New("bridge address cannot be zero")
	ErrAlreadyAllowed = errors.New("bridge address already allowed")
)

// Registry is the allow-list of adapters trusted to run with wallet custody.
type Registry struct {
	mu       sync.RWMutex
	adapters map[common.Address]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[common.Address]Adapter)}
}

// Allow trusts adapter at address. An address can be bound once.
func (r *Registry) Allow(address common.Address, adapter Adapter) error {
	if address == (common.Address{}) {
		return ErrZeroAddress
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.adapters[address]; ok {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyAllowed, address.Hex(), existing.Name())
	}
	r.adapters[address] = adapter

	zap.L().Info("Bridge allowed", zap.String("address", address.Hex()), zap.String("adapter", adapter.Name()))
	return nil
}

func (r *Registry) Lookup(address common.Address) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[address]
	return adapter, ok
}

// Addresses returns every allowed bridge address in a stable order.
func (r *Registry) Addresses() []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addresses := make([]common.Address, 0, len(r.adapters))
	for address := range r.adapters {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i].Bytes(), addresses[j].Bytes()) < 0
	})
	return addresses
}
