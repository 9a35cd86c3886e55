// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/logging"
	"github.com/stokwell/stokwell/internal/model"
	"github.com/stokwell/stokwell/internal/security"
	"github.com/stokwell/stokwell/internal/store"
)

// Coordinator is the only component that mutates the ledger. Every mutating
// operation runs on a private copy of the state, saves that copy and only then
// publishes it, so callers never observe a change the store did not accept.
type Coordinator struct {
	mu     sync.Mutex
	store  store.Store
	state  *model.LedgerState
	policy security.PasswordPolicy
	hasher security.Hasher
	now    func() time.Time
	newID  func() string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPolicy sets the password policy used by Register and ChangePassword.
func WithPolicy(p security.PasswordPolicy) Option {
	return func(c *Coordinator) { c.policy = p }
}

// WithHasher sets the credential hasher.
func WithHasher(h security.Hasher) Option {
	return func(c *Coordinator) { c.hasher = h }
}

// WithClock sets the clock used to timestamp stokvels and contributions.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithIDGenerator sets the generator for contribution ids.
func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

// Open loads the ledger from st and returns a coordinator owning it.
func Open(ctx context.Context, st store.Store, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		store:  st,
		policy: security.DefaultPolicy(),
		hasher: security.NewBcryptHasher(0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	state, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.state = state
	logging.Debugf("ledger: opened with %d users and %d stokvels", len(state.Users), len(state.Stokvels))
	return c, nil
}

// commit runs fn against registries over a copy of the current state. The copy
// replaces the current state only when fn and the save both succeed; on any
// error the current state is untouched.
func (c *Coordinator) commit(ctx context.Context, op string, fn func(users *Users, stokvels *Stokvels) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	work := c.state.Clone()
	if err := fn(c.users(work), c.stokvels(work)); err != nil {
		logging.Debugf("ledger: %s rejected: %v", op, err)
		return err
	}
	if err := c.store.Save(ctx, work); err != nil {
		logging.Errorf("ledger: %s not committed: %v", op, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	c.state = work
	logging.Debugf("ledger: %s committed", op)
	return nil
}

// read runs fn against registries over the current state. fn must not mutate.
func (c *Coordinator) read(fn func(users *Users, stokvels *Stokvels) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.users(c.state), c.stokvels(c.state))
}

func (c *Coordinator) users(state *model.LedgerState) *Users {
	return NewUsers(state, c.policy, c.hasher)
}

func (c *Coordinator) stokvels(state *model.LedgerState) *Stokvels {
	return NewStokvels(state, c.now, c.newID)
}

// Register creates a user account.
func (c *Coordinator) Register(ctx context.Context, id string, password security.Secret) (*model.User, error) {
	var out *model.User
	err := c.commit(ctx, "register", func(users *Users, _ *Stokvels) error {
		u, err := users.Register(id, password)
		out = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Authenticate checks a password and returns the user's current snapshot.
// It does not change state.
func (c *Coordinator) Authenticate(id string, password security.Secret) (*model.User, error) {
	var out *model.User
	err := c.read(func(users *Users, _ *Stokvels) error {
		u, err := users.Authenticate(id, password)
		out = u
		return err
	})
	return out, err
}

// ChangePassword replaces a user's password.
func (c *Coordinator) ChangePassword(ctx context.Context, id string, current, next security.Secret) error {
	return c.commit(ctx, "change password", func(users *Users, _ *Stokvels) error {
		return users.ChangePassword(id, current, next)
	})
}

// CreateStokvel creates a stokvel founded by founderID and adds it to the
// founder's memberships.
func (c *Coordinator) CreateStokvel(ctx context.Context, name, founderID string) (*model.Stokvel, error) {
	var out *model.Stokvel
	err := c.commit(ctx, "create stokvel", func(users *Users, stokvels *Stokvels) error {
		st, err := stokvels.Create(name, founderID)
		if err != nil {
			return err
		}
		out = st
		return users.AddStokvel(founderID, name)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember adds userID to the stokvel and the stokvel to the user's
// memberships.
func (c *Coordinator) AddMember(ctx context.Context, name, userID string) error {
	return c.commit(ctx, "add member", func(users *Users, stokvels *Stokvels) error {
		if err := stokvels.AddMember(name, userID); err != nil {
			return err
		}
		return users.AddStokvel(userID, name)
	})
}

// JoinStokvel is AddMember seen from the joining user's side.
func (c *Coordinator) JoinStokvel(ctx context.Context, name, userID string) error {
	return c.AddMember(ctx, name, userID)
}

// Contribute records a contribution by userID to the stokvel and logs it in
// the user's transaction history. The user's wallet is not debited.
func (c *Coordinator) Contribute(ctx context.Context, name, userID string, amount decimal.Decimal) (model.Contribution, error) {
	var out model.Contribution
	err := c.commit(ctx, "contribute", func(users *Users, stokvels *Stokvels) error {
		contribution, err := stokvels.Contribute(name, userID, amount)
		if err != nil {
			return err
		}
		out = contribution
		return users.RecordTransaction(userID, ContributionDescription(name, amount))
	})
	if err != nil {
		return model.Contribution{}, err
	}
	return out, nil
}

// Deposit credits the user's wallet.
func (c *Coordinator) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return c.moveWallet(ctx, "deposit", userID, amount, amount, "Deposited %s")
}

// Withdraw debits the user's wallet; the balance may not go below zero.
func (c *Coordinator) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return c.moveWallet(ctx, "withdraw", userID, amount, amount.Neg(), "Withdrew %s")
}

func (c *Coordinator) moveWallet(ctx context.Context, op, userID string, amount, delta decimal.Decimal, format string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	var balance decimal.Decimal
	err := c.commit(ctx, op, func(users *Users, _ *Stokvels) error {
		b, err := users.AdjustBalance(userID, delta)
		if err != nil {
			return err
		}
		balance = b
		return users.RecordTransaction(userID, fmt.Sprintf(format, amount))
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// Restore replaces the whole ledger with state after validating it.
func (c *Coordinator) Restore(ctx context.Context, state *model.LedgerState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	work := state.Clone()
	if err := c.store.Save(ctx, work); err != nil {
		logging.Errorf("ledger: restore not committed: %v", err)
		return fmt.Errorf("restore: %w", err)
	}
	c.state = work
	logging.Infof("ledger: restored %d users and %d stokvels", len(work.Users), len(work.Stokvels))
	return nil
}

// ContributionDescription is the transaction log entry for a contribution.
func ContributionDescription(stokvel string, amount decimal.Decimal) string {
	return fmt.Sprintf("Contributed %s to %s", amount, stokvel)
}
