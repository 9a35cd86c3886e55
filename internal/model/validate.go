// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInconsistent is returned by Validate when a state breaks a ledger invariant.
var ErrInconsistent = errors.New("inconsistent ledger state")

// Validate checks every cross-entity invariant of the state and returns all
// violations joined together, each wrapping ErrInconsistent.
func (s *LedgerState) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInconsistent)
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...)))
	}

	for _, id := range s.UserIDs() {
		u := s.Users[id]
		if u == nil {
			fail("user %q has no record", id)
			continue
		}
		if u.ID != id {
			fail("user keyed %q has id %q", id, u.ID)
		}
		if strings.TrimSpace(id) == "" {
			fail("empty user id")
		}
		if u.CredentialHash == "" {
			fail("user %q has no credential hash", id)
		}
		for i, name := range u.Stokvels {
			st, ok := s.Stokvels[name]
			if !ok {
				fail("user %q lists unknown stokvel %q", id, name)
				continue
			}
			if !st.HasMember(id) {
				fail("user %q lists stokvel %q which does not list the user", id, name)
			}
			if slices.Index(u.Stokvels, name) != i {
				fail("user %q lists stokvel %q twice", id, name)
			}
		}
	}

	for _, name := range s.StokvelNames() {
		st := s.Stokvels[name]
		if st == nil {
			fail("stokvel %q has no record", name)
			continue
		}
		if st.Name != name {
			fail("stokvel keyed %q has name %q", name, st.Name)
		}
		if strings.TrimSpace(name) == "" {
			fail("empty stokvel name")
		}
		for i, member := range st.Members {
			u, ok := s.Users[member]
			if !ok {
				fail("stokvel %q references unknown user %q", name, member)
				continue
			}
			if !u.InStokvel(name) {
				fail("stokvel %q lists member %q who does not list the stokvel", name, member)
			}
			if slices.Index(st.Members, member) != i {
				fail("stokvel %q lists member %q twice", name, member)
			}
		}
		for _, c := range st.Contributions {
			if !c.Amount.IsPositive() {
				fail("stokvel %q has non-positive contribution %s", name, c.Amount)
			}
			if !st.HasMember(c.User) {
				fail("stokvel %q has contribution from non-member %q", name, c.User)
			}
		}
		if total := st.ContributionTotal(); !total.Equal(st.Balance) {
			fail("stokvel %q balance %s does not equal contribution total %s", name, st.Balance, total)
		}
	}

	return errors.Join(errs...)
}

// Equal reports whether two states hold the same logical ledger. Decimal
// amounts compare by value and timestamps by instant.
func (s *LedgerState) Equal(o *LedgerState) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.Users) != len(o.Users) || len(s.Stokvels) != len(o.Stokvels) {
		return false
	}
	for id, u := range s.Users {
		ou, ok := o.Users[id]
		if !ok || !u.Equal(ou) {
			return false
		}
	}
	for name, st := range s.Stokvels {
		ost, ok := o.Stokvels[name]
		if !ok || !st.Equal(ost) {
			return false
		}
	}
	return true
}

// Equal reports whether two users hold the same data.
func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.ID == o.ID &&
		u.CredentialHash == o.CredentialHash &&
		u.Balance.Equal(o.Balance) &&
		slices.Equal(u.Transactions, o.Transactions) &&
		slices.Equal(u.Stokvels, o.Stokvels)
}

// Equal reports whether two stokvels hold the same data.
func (s *Stokvel) Equal(o *Stokvel) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Name != o.Name || s.CreatedBy != o.CreatedBy || !s.CreatedDate.Equal(o.CreatedDate) {
		return false
	}
	if !s.Balance.Equal(o.Balance) || !slices.Equal(s.Members, o.Members) {
		return false
	}
	return slices.EqualFunc(s.Contributions, o.Contributions, func(a, b Contribution) bool {
		return a.ID == b.ID && a.User == b.User && a.Amount.Equal(b.Amount) && a.Date.Equal(b.Date)
	})
}
