// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"errors"

	"github.com/stokwell/stokwell/internal/store"
)

// Sentinel errors returned by the registries and the coordinator. They are
// wrapped with context, so compare with errors.Is.
var (
	ErrDuplicateUser     = errors.New("user already exists")
	ErrDuplicateStokvel  = errors.New("stokvel already exists")
	ErrUnknownUser       = errors.New("unknown user")
	ErrUnknownStokvel    = errors.New("unknown stokvel")
	ErrNotAMember        = errors.New("not a member of the stokvel")
	ErrAlreadyMember     = errors.New("already a member of the stokvel")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidAmount     = errors.New("amount must be strictly positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidUser       = errors.New("invalid user id")
	ErrInvalidStokvel    = errors.New("invalid stokvel name")

	// ErrStoreUnavailable is the store's error, re-exported so callers of the
	// coordinator need not import the store package.
	ErrStoreUnavailable = store.ErrStoreUnavailable
)

// kinds maps each sentinel to a stable identifier. The CLI uses it as the
// message key suffix for localized errors.
var kinds = []struct {
	err  error
	kind string
}{
	{ErrDuplicateUser, "duplicate_user"},
	{ErrDuplicateStokvel, "duplicate_stokvel"},
	{ErrUnknownUser, "unknown_user"},
	{ErrUnknownStokvel, "unknown_stokvel"},
	{ErrNotAMember, "not_a_member"},
	{ErrAlreadyMember, "already_member"},
	{ErrInvalidCredential, "invalid_credential"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrInvalidUser, "invalid_user"},
	{ErrInvalidStokvel, "invalid_stokvel"},
	{ErrStoreUnavailable, "store_unavailable"},
}

// Kind returns the stable identifier of err's ledger error kind, "" for nil
// and "internal" for errors outside the taxonomy.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

// IsValidation reports whether err is a recoverable input error, i.e. any
// ledger kind other than a store failure.
func IsValidation(err error) bool {
	k := Kind(err)
	return k != "" && k != "internal" && k != "store_unavailable"
}
