// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the ledger value types shared by the registries, the
// coordinator and the record store.
package model // import "github.com/stokwell/stokwell/internal/model"

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered member. The ID is a case-sensitive handle.
type User struct {
	ID             string
	CredentialHash string
	Balance        decimal.Decimal
	// Transactions is an append-only log of human-readable descriptions.
	Transactions []string
	// Stokvels lists the names of the stokvels the user belongs to, in join order.
	Stokvels []string
}

// String returns the user handle.
func (u User) String() string {
	return u.ID
}

// InStokvel reports whether the user lists the named stokvel.
func (u *User) InStokvel(name string) bool {
	return slices.Contains(u.Stokvels, name)
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Transactions = slices.Clone(u.Transactions)
	c.Stokvels = slices.Clone(u.Stokvels)
	return &c
}

// Contribution is one immutable deposit into a stokvel.
type Contribution struct {
	ID     string
	User   string
	Amount decimal.Decimal
	Date   time.Time
}

// String returns "user: amount".
func (c Contribution) String() string {
	return fmt.Sprintf("%s: %s", c.User, FormatAmount(c.Amount))
}

// Stokvel is a member-contributed savings pool.
type Stokvel struct {
	Name          string
	Members       []string
	Contributions []Contribution
	// Balance must always equal the sum of Contributions. Only the stokvel
	// registry updates it, together with appending a contribution.
	Balance     decimal.Decimal
	CreatedDate time.Time
	CreatedBy   string
}

// String returns the stokvel name.
func (s Stokvel) String() string {
	return s.Name
}

// HasMember reports whether userID is in the membership list.
func (s *Stokvel) HasMember(userID string) bool {
	return slices.Contains(s.Members, userID)
}

// ContributionTotal sums the contribution amounts.
func (s *Stokvel) ContributionTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Contributions {
		total = total.Add(c.Amount)
	}
	return total
}

// Clone returns a deep copy of the stokvel. Contributions are values, so a
// slice copy is enough.
func (s *Stokvel) Clone() *Stokvel {
	if s == nil {
		return nil
	}
	c := *s
	c.Members = slices.Clone(s.Members)
	c.Contributions = slices.Clone(s.Contributions)
	return &c
}

// LedgerState is the complete ledger: every user and every stokvel, keyed by
// their unique identifiers. Map keys always equal the entity's ID/Name.
type LedgerState struct {
	Users    map[string]*User
	Stokvels map[string]*Stokvel
}

// NewLedgerState returns an empty state.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		Users:    make(map[string]*User),
		Stokvels: make(map[string]*Stokvel),
	}
}

// Clone returns a deep copy of the state. The coordinator mutates clones and
// only publishes them once they are persisted.
func (s *LedgerState) Clone() *LedgerState {
	out := NewLedgerState()
	if s == nil {
		return out
	}
	for id, u := range s.Users {
		out.Users[id] = u.Clone()
	}
	for name, st := range s.Stokvels {
		out.Stokvels[name] = st.Clone()
	}
	return out
}

// UserIDs returns the user ids in sorted order.
func (s *LedgerState) UserIDs() []string {
	ids := make([]string, 0, len(s.Users))
	for id := range s.Users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// StokvelNames returns the stokvel names in sorted order.
func (s *LedgerState) StokvelNames() []string {
	names := make([]string, 0, len(s.Stokvels))
	for name := range s.Stokvels {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FormatAmount renders an amount in rand with two decimals, e.g. "R100.00".
func FormatAmount(d decimal.Decimal) string {
	return "R" + d.StringFixed(2)
}
