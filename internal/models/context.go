package models

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type operationContextKey struct{}

// Operation identifies one registry call so every ledger movement, event and log
// line written while it runs can be correlated.
type Operation struct {
	Id      string         // uuid for the whole mint/edit/governance call
	Kind    string         // "mint", "edit", "register", "set-max-deposit"
	Caller  common.Address // msg.sender of the call
	TokenId *uint64        // nil until the portfolio id is known
}

// WithOperation attaches the running operation to a context.
func WithOperation(ctx context.Context, op *Operation) context.Context {
	return context.WithValue(ctx, operationContextKey{}, op)
}

// GetOperation retrieves the running operation from context, or nil if absent.
func GetOperation(ctx context.Context) *Operation {
	op, _ := ctx.Value(operationContextKey{}).(*Operation)
	return op
}
