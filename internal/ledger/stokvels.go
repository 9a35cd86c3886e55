// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/model"
)

// Stokvels is the stokvel registry: group creation, membership lists and
// contributions. It reads the user map to check references but only mutates
// stokvel records; the coordinator keeps users' membership sets in step.
type Stokvels struct {
	state *model.LedgerState
	now   func() time.Time
	newID func() string
}

// NewStokvels returns a registry over state. A nil clock means time.Now and a
// nil id generator means random UUIDs.
func NewStokvels(state *model.LedgerState, now func() time.Time, newID func() string) *Stokvels {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Stokvels{state: state, now: now, newID: newID}
}

// Create registers a stokvel with founderID as its only member.
func (r *Stokvels) Create(name, founderID string) (*model.Stokvel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidStokvel)
	}
	if _, exists := r.state.Stokvels[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateStokvel, name)
	}
	if _, ok := r.state.Users[founderID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, founderID)
	}

	st := &model.Stokvel{
		Name:          name,
		Members:       []string{founderID},
		Contributions: []model.Contribution{},
		Balance:       decimal.Zero,
		CreatedDate:   r.now().UTC(),
		CreatedBy:     founderID,
	}
	r.state.Stokvels[name] = st
	return st.Clone(), nil
}

// AddMember appends userID to the membership list. Adding an existing member
// is an error rather than a no-op.
func (r *Stokvels) AddMember(name, userID string) error {
	st, err := r.lookup(name)
	if err != nil {
		return err
	}
	if _, ok := r.state.Users[userID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUser, userID)
	}
	if st.HasMember(userID) {
		return fmt.Errorf("%w: %q in %q", ErrAlreadyMember, userID, name)
	}
	st.Members = append(st.Members, userID)
	return nil
}

// Contribute appends a contribution record and raises the balance by exactly
// amount. Amounts that are zero or negative are always rejected first.
func (r *Stokvels) Contribute(name, userID string, amount decimal.Decimal) (model.Contribution, error) {
	if !amount.IsPositive() {
		return model.Contribution{}, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	st, err := r.lookup(name)
	if err != nil {
		return model.Contribution{}, err
	}
	if _, ok := r.state.Users[userID]; !ok {
		return model.Contribution{}, fmt.Errorf("%w: %q", ErrUnknownUser, userID)
	}
	if !st.HasMember(userID) {
		return model.Contribution{}, fmt.Errorf("%w: %q in %q", ErrNotAMember, userID, name)
	}

	c := model.Contribution{
		ID:     r.newID(),
		User:   userID,
		Amount: amount,
		Date:   r.now().UTC(),
	}
	st.Contributions = append(st.Contributions, c)
	st.Balance = st.Balance.Add(amount)
	return c, nil
}

// Get returns a snapshot of the stokvel.
func (r *Stokvels) Get(name string) (*model.Stokvel, error) {
	st, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

// List returns every stokvel name in sorted order.
func (r *Stokvels) List() []string {
	return r.state.StokvelNames()
}

// Summary describes a stokvel's activity.
type Summary struct {
	Name               string
	Balance            decimal.Decimal
	TotalContributions decimal.Decimal
	ContributionCount  int
	MemberCount        int
	Members            []string
	// MemberTotals holds the amount each member has contributed; members who
	// have not contributed map to zero.
	MemberTotals map[string]decimal.Decimal
	CreatedDate  time.Time
	CreatedBy    string
}

// Summary computes the activity summary of the named stokvel.
func (r *Stokvels) Summary(name string) (Summary, error) {
	st, err := r.lookup(name)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Name:               st.Name,
		Balance:            st.Balance,
		TotalContributions: st.ContributionTotal(),
		ContributionCount:  len(st.Contributions),
		MemberCount:        len(st.Members),
		Members:            append([]string(nil), st.Members...),
		MemberTotals:       make(map[string]decimal.Decimal, len(st.Members)),
		CreatedDate:        st.CreatedDate,
		CreatedBy:          st.CreatedBy,
	}
	for _, m := range st.Members {
		s.MemberTotals[m] = decimal.Zero
	}
	for _, c := range st.Contributions {
		s.MemberTotals[c.User] = s.MemberTotals[c.User].Add(c.Amount)
	}
	return s, nil
}

func (r *Stokvels) lookup(name string) (*model.Stokvel, error) {
	st, ok := r.state.Stokvels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStokvel, name)
	}
	return st, nil
}
