// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"github.com/stokwell/stokwell/internal/model"
)

// User returns a snapshot of the user.
func (c *Coordinator) User(id string) (*model.User, error) {
	var out *model.User
	err := c.read(func(users *Users, _ *Stokvels) error {
		u, err := users.Get(id)
		out = u
		return err
	})
	return out, err
}

// Users returns every user id in sorted order.
func (c *Coordinator) Users() []string {
	var out []string
	_ = c.read(func(users *Users, _ *Stokvels) error {
		out = users.List()
		return nil
	})
	return out
}

// Stokvel returns a snapshot of the stokvel.
func (c *Coordinator) Stokvel(name string) (*model.Stokvel, error) {
	var out *model.Stokvel
	err := c.read(func(_ *Users, stokvels *Stokvels) error {
		st, err := stokvels.Get(name)
		out = st
		return err
	})
	return out, err
}

// Stokvels returns every stokvel name in sorted order.
func (c *Coordinator) Stokvels() []string {
	var out []string
	_ = c.read(func(_ *Users, stokvels *Stokvels) error {
		out = stokvels.List()
		return nil
	})
	return out
}

// StokvelSummary returns the activity summary of a stokvel.
func (c *Coordinator) StokvelSummary(name string) (Summary, error) {
	var out Summary
	err := c.read(func(_ *Users, stokvels *Stokvels) error {
		s, err := stokvels.Summary(name)
		out = s
		return err
	})
	return out, err
}

// UserStokvels returns snapshots of the stokvels the user belongs to, in
// join order.
func (c *Coordinator) UserStokvels(id string) ([]*model.Stokvel, error) {
	var out []*model.Stokvel
	err := c.read(func(users *Users, stokvels *Stokvels) error {
		u, err := users.Get(id)
		if err != nil {
			return err
		}
		for _, name := range u.Stokvels {
			st, err := stokvels.Get(name)
			if err != nil {
				return err
			}
			out = append(out, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecentTransactions returns the user's last n transaction descriptions,
// oldest first. n <= 0 returns the whole log.
func (c *Coordinator) RecentTransactions(id string, n int) ([]string, error) {
	u, err := c.User(id)
	if err != nil {
		return nil, err
	}
	tx := u.Transactions
	if n > 0 && len(tx) > n {
		tx = tx[len(tx)-n:]
	}
	return tx, nil
}

// Snapshot returns a deep copy of the whole ledger.
func (c *Coordinator) Snapshot() *model.LedgerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}
