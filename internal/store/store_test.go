// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *model.LedgerState {
	s := model.NewLedgerState()
	s.Users["alice"] = &model.User{
		ID:             "alice",
		CredentialHash: "$2a$04$abcdefghijklmnopqrstuv",
		Balance:        decimal.RequireFromString("250.75"),
		Transactions:   []string{"Contributed 100 to Savers", "Contributed 0.1 to Savers"},
		Stokvels:       []string{"Savers"},
	}
	s.Users["bob"] = &model.User{ID: "bob", CredentialHash: "x", Stokvels: []string{"Savers"}}
	s.Users["carol"] = &model.User{ID: "carol", CredentialHash: "y"}
	s.Stokvels["Savers"] = &model.Stokvel{
		Name:    "Savers",
		Members: []string{"alice", "bob"},
		Contributions: []model.Contribution{
			{ID: "c-1", User: "alice", Amount: decimal.RequireFromString("100"), Date: time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC)},
			{ID: "c-2", User: "alice", Amount: decimal.RequireFromString("0.1"), Date: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
			{ID: "c-3", User: "bob", Amount: decimal.RequireFromString("0.2"), Date: time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)},
		},
		Balance:     decimal.RequireFromString("100.3"),
		CreatedDate: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		CreatedBy:   "alice",
	}
	return s
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(ctx, "", filepath.Join(dir, "ledger.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = New(ctx, "memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, "sqlite", filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	assert.IsType(t, &SqliteStore{}, s)
	require.NoError(t, s.Close())

	_, err = New(ctx, "postgres", "x")
	require.Error(t, err)

	_, err = New(ctx, "file", "")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

// TestRoundTrip_AllBackends checks load(save(state)) == state for every backend.
func TestRoundTrip_AllBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sq, err := OpenSqliteStore(ctx, filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	backends := map[string]Store{
		"file":   NewFileStore(filepath.Join(dir, "ledger.json")),
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
	for name, s := range backends {
		t.Run(name, func(t *testing.T) {
			empty, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty.Users)
			assert.Empty(t, empty.Stokvels)

			want := sampleState()
			require.NoError(t, s.Save(ctx, want))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "round trip changed the state")

			// Saving again replaces rather than appends.
			want.Users["carol"].Transactions = append(want.Users["carol"].Transactions, "Deposited 5")
			require.NoError(t, s.Save(ctx, want))
			got, err = s.Load(ctx)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}
}

func TestSave_RefusesInconsistentState(t *testing.T) {
	s := sampleState()
	s.Stokvels["Savers"].Balance = decimal.NewFromInt(1)

	err := NewMemoryStore().Save(context.Background(), s)
	require.ErrorIs(t, err, model.ErrInconsistent)
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
	_, err := fs.Load(ctx)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, fs.Save(ctx, model.NewLedgerState()), ErrStoreUnavailable)
}

func TestFileStore_CreatesParentDirectoryAndRestrictsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.json")
	fs := NewFileStore(path)
	require.NoError(t, fs.Save(context.Background(), sampleState()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, path, fs.Path())
}
