/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"errors"
)

// Error kinds. Every failed registry operation carries exactly one of these.
var (
	ErrInputValidation  = errors.New("input validation error")
	ErrAuthorization    = errors.New("authorization error")
	ErrGuardRail        = errors.New("guard rail violation")
	ErrAdapterExecution = errors.New("adapter execution failure")
)

// Sentinel errors shared by ledger implementations.
var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientAllowance  = errors.New("insufficient allowance")
	ErrPortfolioNotFound      = errors.New("portfolio not found")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// Canonical revert reasons. Callers assert on these verbatim.
const (
	ReasonOnlyOwner       = "INDEXPOOL: ONLY NFT OWNER CAN EDIT IT"
	ReasonDepositAboveMax = "DEPOSIT ABOVE MAXIMUM AMOUNT (GUARDED LAUNCH)"
	ReasonOnlyIndexPool   = "ONLY INDEXPOOL CAN CALL THIS FUNCTION"
	ReasonOnlyAdmin       = "INDEXPOOL: ONLY ADMIN CAN GOVERN"
)

// Revert is a failed operation with a stable, human readable reason.
type Revert struct {
	Kind   error
	Reason string
	Err    error
}

func (r *Revert) Error() string {
	return r.Reason
}

func (r *Revert) Unwrap() []error {
	if r.Err == nil {
		return []error{r.Kind}
	}
	return []error{r.Kind, r.Err}
}

// NewRevert builds a Revert of the given kind. cause may be nil.
func NewRevert(kind error, reason string, cause error) *Revert {
	return &Revert{Kind: kind, Reason: reason, Err: cause}
}

// ReasonOf returns the revert reason carried by err, or err.Error() when err is not a Revert.
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var r *Revert
	if errors.As(err, &r) {
		return r.Reason
	}
	return err.Error()
}
