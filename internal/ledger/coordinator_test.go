// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_AliceContributesToSavers(t *testing.T) {
	c, ms := newTestCoordinator(t)
	seedSavers(t, c)

	contribution, err := c.Contribute(context.Background(), "Savers", "alice", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "c-1", contribution.ID)
	assert.Equal(t, fixedNow, contribution.Date)

	st, err := c.Stokvel("Savers")
	require.NoError(t, err)
	assert.True(t, st.Balance.Equal(decimal.NewFromInt(100)), "balance = %s", st.Balance)

	alice, err := c.User("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Contributed 100 to Savers"}, alice.Transactions)
	assert.Equal(t, []string{"Savers"}, alice.Stokvels)
	// Contributions do not touch the wallet.
	assert.True(t, alice.Balance.IsZero())

	// The persisted document agrees with memory.
	loaded, err := ms.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded.Equal(c.Snapshot()))
}

func TestScenario_UnregisteredBobCannotContribute(t *testing.T) {
	c, ms := newTestCoordinator(t)
	seedSavers(t, c)
	before := c.Snapshot()
	saves := ms.Saves()

	_, err := c.Contribute(context.Background(), "Savers", "bob", decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrUnknownUser)
	assert.True(t, before.Equal(c.Snapshot()), "state changed")
	assert.Equal(t, saves, ms.Saves(), "rejected operation must not save")
}

func TestScenario_DuplicateRegistration(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()
	_, err := c.Register(ctx, "alice", pw("Secret123"))
	require.NoError(t, err)
	_, err = c.Register(ctx, "alice", pw("Other4567"))
	require.ErrorIs(t, err, ErrDuplicateUser)

	// The first password still applies.
	_, err = c.Authenticate("alice", pw("Secret123"))
	require.NoError(t, err)
}

func TestContribute_BalanceIsExactSum(t *testing.T) {
	c, _ := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()
	_, err := c.Register(ctx, "bob", pw("Passw0rd!"))
	require.NoError(t, err)
	require.NoError(t, c.JoinStokvel(ctx, "Savers", "bob"))

	amounts := []string{"0.1", "0.2", "0.3", "19.99", "0.01", "1000000.005", "7"}
	want := decimal.Zero
	for i, a := range amounts {
		who := "alice"
		if i%2 == 1 {
			who = "bob"
		}
		_, err := c.Contribute(ctx, "Savers", who, amt(a))
		require.NoError(t, err)
		want = want.Add(amt(a))

		st, err := c.Stokvel("Savers")
		require.NoError(t, err)
		require.True(t, st.Balance.Equal(want), "after %d contributions balance %s, want %s", i+1, st.Balance, want)
		require.True(t, st.Balance.Equal(st.ContributionTotal()))
	}
	assert.Equal(t, "1000027.605", want.String())

	summary, err := c.StokvelSummary("Savers")
	require.NoError(t, err)
	assert.Equal(t, len(amounts), summary.ContributionCount)
	assert.Equal(t, 2, summary.MemberCount)
	assert.True(t, summary.TotalContributions.Equal(want))
	assert.True(t, summary.MemberTotals["alice"].Add(summary.MemberTotals["bob"]).Equal(want))
	assert.Equal(t, "alice", summary.CreatedBy)
	assert.Equal(t, fixedNow, summary.CreatedDate)
}

func TestContribute_NonPositiveAmountAlwaysInvalid(t *testing.T) {
	c, _ := newTestCoordinator(t)
	seedSavers(t, c)
	before := c.Snapshot()

	for _, a := range []string{"0", "-1", "-0.01", "0.000"} {
		_, err := c.Contribute(context.Background(), "Savers", "alice", amt(a))
		require.ErrorIs(t, err, ErrInvalidAmount, "amount %s", a)
		// Even for an unknown stokvel or user the amount is rejected first.
		_, err = c.Contribute(context.Background(), "Nope", "ghost", amt(a))
		require.ErrorIs(t, err, ErrInvalidAmount, "amount %s", a)
	}
	assert.True(t, before.Equal(c.Snapshot()))
}

func TestContribute_Errors(t *testing.T) {
	c, _ := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()
	_, err := c.Register(ctx, "carol", pw("Carol2026"))
	require.NoError(t, err)

	_, err = c.Contribute(ctx, "Missing", "alice", decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrUnknownStokvel)

	_, err = c.Contribute(ctx, "Savers", "carol", decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrNotAMember)

	carol, err := c.User("carol")
	require.NoError(t, err)
	assert.Empty(t, carol.Transactions)
}

func TestAddMember_TwiceFailsAndLengthUnchanged(t *testing.T) {
	c, _ := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()
	_, err := c.Register(ctx, "bob", pw("Passw0rd1"))
	require.NoError(t, err)

	require.NoError(t, c.AddMember(ctx, "Savers", "bob"))
	st, _ := c.Stokvel("Savers")
	require.Len(t, st.Members, 2)

	err = c.AddMember(ctx, "Savers", "bob")
	require.ErrorIs(t, err, ErrAlreadyMember)
	st, _ = c.Stokvel("Savers")
	assert.Len(t, st.Members, 2)
	bob, _ := c.User("bob")
	assert.Equal(t, []string{"Savers"}, bob.Stokvels)

	// The founder is already a member too.
	require.ErrorIs(t, c.AddMember(ctx, "Savers", "alice"), ErrAlreadyMember)
	require.ErrorIs(t, c.AddMember(ctx, "Nope", "bob"), ErrUnknownStokvel)
	require.ErrorIs(t, c.AddMember(ctx, "Savers", "ghost"), ErrUnknownUser)
}

func TestCreateStokvel_Errors(t *testing.T) {
	c, _ := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()

	_, err := c.CreateStokvel(ctx, "Savers", "alice")
	require.ErrorIs(t, err, ErrDuplicateStokvel)
	_, err = c.CreateStokvel(ctx, "Other", "ghost")
	require.ErrorIs(t, err, ErrUnknownUser)
	_, err = c.CreateStokvel(ctx, "  ", "alice")
	require.ErrorIs(t, err, ErrInvalidStokvel)

	assert.Equal(t, []string{"Savers"}, c.Stokvels())
}

func TestAuthenticate_MostRecentCredentialWins(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()
	_, err := c.Register(ctx, "alice", pw("Secret123"))
	require.NoError(t, err)

	_, err = c.Authenticate("alice", pw("Secret124"))
	require.ErrorIs(t, err, ErrInvalidCredential)
	_, err = c.Authenticate("bob", pw("Secret123"))
	require.ErrorIs(t, err, ErrUnknownUser)

	require.ErrorIs(t, c.ChangePassword(ctx, "alice", pw("wrong0000"), pw("NewSecret9")), ErrInvalidCredential)
	require.ErrorIs(t, c.ChangePassword(ctx, "alice", pw("Secret123"), pw("weak")), ErrInvalidCredential)
	require.NoError(t, c.ChangePassword(ctx, "alice", pw("Secret123"), pw("NewSecret9")))

	_, err = c.Authenticate("alice", pw("Secret123"))
	require.ErrorIs(t, err, ErrInvalidCredential)
	u, err := c.Authenticate("alice", pw("NewSecret9"))
	require.NoError(t, err)
	assert.Equal(t, "alice", u.ID)
}

func TestRegister_PolicyAndInvalidID(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice", pw("short1"))
	require.ErrorIs(t, err, ErrInvalidCredential)
	_, err = c.Register(ctx, "", pw("Secret123"))
	require.ErrorIs(t, err, ErrInvalidUser)
	assert.Empty(t, c.Users())

	u, err := c.Register(ctx, "Alice", pw("Secret123"))
	require.NoError(t, err)
	assert.True(t, u.Balance.IsZero())
	assert.Empty(t, u.Transactions)
	assert.Empty(t, u.Stokvels)
	assert.NotContains(t, u.CredentialHash, "Secret123")

	// Ids are case-sensitive.
	_, err = c.Register(ctx, "alice", pw("Secret123"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "alice"}, c.Users())
}

func TestWallet_DepositAndWithdraw(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()
	_, err := c.Register(ctx, "alice", pw("Secret123"))
	require.NoError(t, err)

	b, err := c.Deposit(ctx, "alice", amt("150.50"))
	require.NoError(t, err)
	assert.Equal(t, "150.5", b.String())

	b, err = c.Withdraw(ctx, "alice", amt("50.5"))
	require.NoError(t, err)
	assert.Equal(t, "100", b.String())

	_, err = c.Withdraw(ctx, "alice", amt("100.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = c.Deposit(ctx, "alice", amt("0"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = c.Deposit(ctx, "ghost", amt("1"))
	require.ErrorIs(t, err, ErrUnknownUser)

	tx, err := c.RecentTransactions("alice", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deposited 150.5", "Withdrew 50.5"}, tx)
	u, _ := c.User("alice")
	assert.Equal(t, "100", u.Balance.String())
}

func TestSaveFailure_RollsBack(t *testing.T) {
	c, ms := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()
	_, err := c.Contribute(ctx, "Savers", "alice", decimal.NewFromInt(10))
	require.NoError(t, err)
	persisted := c.Snapshot()

	ms.FailSaves(errors.New("disk full"))
	_, err = c.Contribute(ctx, "Savers", "alice", decimal.NewFromInt(25))
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, "store_unavailable", Kind(err))

	_, err = c.Register(ctx, "bob", pw("Secret123"))
	require.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = c.Deposit(ctx, "alice", decimal.NewFromInt(5))
	require.ErrorIs(t, err, ErrStoreUnavailable)

	// Nothing from the failed operations is visible.
	assert.True(t, persisted.Equal(c.Snapshot()))
	st, _ := c.Stokvel("Savers")
	assert.Equal(t, "10", st.Balance.String())
	alice, _ := c.User("alice")
	assert.Equal(t, []string{"Contributed 10 to Savers"}, alice.Transactions)

	// Once the store recovers the coordinator carries on from the persisted state.
	ms.FailSaves(nil)
	_, err = c.Contribute(ctx, "Savers", "alice", decimal.NewFromInt(25))
	require.NoError(t, err)
	loaded, err := ms.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "35", loaded.Stokvels["Savers"].Balance.String())
	assert.True(t, loaded.Equal(c.Snapshot()))
}

func TestOpen_ReloadsPersistedState(t *testing.T) {
	c, ms := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()
	_, err := c.Contribute(ctx, "Savers", "alice", amt("12.34"))
	require.NoError(t, err)

	reopened, err := Open(ctx, ms)
	require.NoError(t, err)
	assert.True(t, c.Snapshot().Equal(reopened.Snapshot()))
	_, err = reopened.Authenticate("alice", pw("Secret123"))
	require.NoError(t, err)
}

func TestOpen_CorruptStoreFails(t *testing.T) {
	ms := newCorruptStore()
	_, err := Open(context.Background(), ms)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestQueries(t *testing.T) {
	c, _ := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()
	_, err := c.CreateStokvel(ctx, "Burial", "alice")
	require.NoError(t, err)
	for i := 1; i <= 7; i++ {
		_, err := c.Contribute(ctx, "Burial", "alice", decimal.NewFromInt(int64(i)))
		require.NoError(t, err)
	}

	sts, err := c.UserStokvels("alice")
	require.NoError(t, err)
	require.Len(t, sts, 2)
	assert.Equal(t, "Savers", sts[0].Name)
	assert.Equal(t, "Burial", sts[1].Name)

	recent, err := c.RecentTransactions("alice", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Contributed 3 to Burial", "Contributed 4 to Burial", "Contributed 5 to Burial",
		"Contributed 6 to Burial", "Contributed 7 to Burial",
	}, recent)

	_, err = c.UserStokvels("ghost")
	require.ErrorIs(t, err, ErrUnknownUser)
	_, err = c.StokvelSummary("ghost")
	require.ErrorIs(t, err, ErrUnknownStokvel)
	assert.Equal(t, []string{"Burial", "Savers"}, c.Stokvels())

	// Snapshots are detached copies.
	snap := c.Snapshot()
	snap.Stokvels["Savers"].Members = append(snap.Stokvels["Savers"].Members, "mallory")
	st, _ := c.Stokvel("Savers")
	assert.Equal(t, []string{"alice"}, st.Members)
}

func TestRestore(t *testing.T) {
	c, ms := newTestCoordinator(t)
	seedSavers(t, c)
	ctx := context.Background()
	backup := c.Snapshot()

	_, err := c.Contribute(ctx, "Savers", "alice", decimal.NewFromInt(10))
	require.NoError(t, err)

	bad := backup.Clone()
	bad.Stokvels["Savers"].Balance = decimal.NewFromInt(1)
	require.ErrorIs(t, c.Restore(ctx, bad), model.ErrInconsistent)

	require.NoError(t, c.Restore(ctx, backup))
	assert.True(t, backup.Equal(c.Snapshot()))
	loaded, err := ms.Load(ctx)
	require.NoError(t, err)
	assert.True(t, backup.Equal(loaded))
}
