// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/security"
	"github.com/stokwell/stokwell/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// newTestCoordinator returns a coordinator over a fresh memory store with a
// cheap bcrypt cost, a fixed clock and sequential contribution ids.
func newTestCoordinator(t *testing.T) (*Coordinator, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore()
	seq := 0
	c, err := Open(context.Background(), ms,
		WithHasher(security.NewBcryptHasher(bcrypt.MinCost)),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("c-%d", seq) }),
	)
	require.NoError(t, err)
	return c, ms
}

func pw(s string) security.Secret { return security.FromString(s) }

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedSavers registers alice and creates the Savers stokvel she founded.
func seedSavers(t *testing.T, c *Coordinator) {
	t.Helper()
	ctx := context.Background()
	_, err := c.Register(ctx, "alice", pw("Secret123"))
	require.NoError(t, err)
	_, err = c.CreateStokvel(ctx, "Savers", "alice")
	require.NoError(t, err)
}

func newCorruptStore() *store.MemoryStore {
	ms := store.NewMemoryStore()
	ms.SetDocument([]byte(`{"version": 1, "users": {`))
	return ms
}
