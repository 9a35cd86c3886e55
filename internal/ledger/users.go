// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/model"
	"github.com/stokwell/stokwell/internal/security"
)

// Users is the user registry: account creation, credential checks and the
// per-user wallet, transaction log and membership set. It works on the
// LedgerState it was built over and never persists anything itself.
type Users struct {
	state  *model.LedgerState
	policy security.PasswordPolicy
	hasher security.Hasher
}

// NewUsers returns a registry over state.
func NewUsers(state *model.LedgerState, policy security.PasswordPolicy, hasher security.Hasher) *Users {
	return &Users{state: state, policy: policy, hasher: hasher}
}

// Register creates a user with a zero balance, an empty transaction log and
// no memberships.
func (r *Users) Register(id string, password security.Secret) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidUser)
	}
	if _, exists := r.state.Users[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateUser, id)
	}
	if err := r.policy.Check(password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	u := &model.User{
		ID:             id,
		CredentialHash: hash,
		Balance:        decimal.Zero,
		Transactions:   []string{},
		Stokvels:       []string{},
	}
	r.state.Users[id] = u
	return u.Clone(), nil
}

// Authenticate returns a snapshot of the user when password matches the
// stored credential hash.
func (r *Users) Authenticate(id string, password security.Secret) (*model.User, error) {
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if !r.hasher.Verify(u.CredentialHash, password) {
		return nil, fmt.Errorf("%w: for %q", ErrInvalidCredential, id)
	}
	return u.Clone(), nil
}

// ChangePassword replaces the credential hash after checking the current
// password and the policy for the new one.
func (r *Users) ChangePassword(id string, current, next security.Secret) error {
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	if !r.hasher.Verify(u.CredentialHash, current) {
		return fmt.Errorf("%w: for %q", ErrInvalidCredential, id)
	}
	if err := r.policy.Check(next); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	hash, err := r.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	u.CredentialHash = hash
	return nil
}

// RecordTransaction appends description to the user's transaction log.
func (r *Users) RecordTransaction(id, description string) error {
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	u.Transactions = append(u.Transactions, description)
	return nil
}

// AdjustBalance adds delta to the user's wallet and returns the new balance.
// A negative delta that would take the balance below zero is rejected.
func (r *Users) AdjustBalance(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	u, err := r.lookup(id)
	if err != nil {
		return decimal.Zero, err
	}
	next := u.Balance.Add(delta)
	if delta.IsNegative() && next.IsNegative() {
		return u.Balance, fmt.Errorf("%w: %q has %s, needs %s", ErrInsufficientFunds, id, u.Balance, delta.Neg())
	}
	u.Balance = next
	return next, nil
}

// AddStokvel records that the user belongs to the named stokvel.
func (r *Users) AddStokvel(id, name string) error {
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	if u.InStokvel(name) {
		return fmt.Errorf("%w: %q already lists %q", ErrAlreadyMember, id, name)
	}
	u.Stokvels = append(u.Stokvels, name)
	return nil
}

// Get returns a snapshot of the user.
func (r *Users) Get(id string) (*model.User, error) {
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

// Exists reports whether id is registered.
func (r *Users) Exists(id string) bool {
	_, ok := r.state.Users[id]
	return ok
}

// List returns every user id in sorted order.
func (r *Users) List() []string {
	return r.state.UserIDs()
}

func (r *Users) lookup(id string) (*model.User, error) {
	u, ok := r.state.Users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	return u, nil
}
