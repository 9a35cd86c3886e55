// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/shopspring/decimal"
	"github.com/stokwell/stokwell/internal/model"
	"github.com/stokwell/stokwell/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *model.LedgerState {
	s := model.NewLedgerState()
	when := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	s.Users["alice"] = &model.User{
		ID:             "alice",
		CredentialHash: "$2a$04$abcdefghijklmnopqrstuu",
		Balance:        decimal.RequireFromString("20.5"),
		Transactions:   []string{"Contributed 100.25 to Savers"},
		Stokvels:       []string{"Savers"},
	}
	s.Stokvels["Savers"] = &model.Stokvel{
		Name:    "Savers",
		Members: []string{"alice"},
		Contributions: []model.Contribution{
			{ID: "c1", User: "alice", Amount: decimal.RequireFromString("100.25"), Date: when},
		},
		Balance:     decimal.RequireFromString("100.25"),
		CreatedDate: when,
		CreatedBy:   "alice",
	}
	return s
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "stokwell-backup-2026-10-19.json.zst", FileName("", now))
	assert.Equal(t, "ledger.json.zst", FileName("ledger.json", now))
	assert.Equal(t, "ledger.zst", FileName("ledger.zst", now))
}

func TestWriteRead_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState()))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, sampleState().Equal(got))
}

func TestWrite_IsStoreDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState()))

	zr, err := zstd.NewReader(&buf)
	require.NoError(t, err)
	defer zr.Close()
	var plain bytes.Buffer
	_, err = plain.ReadFrom(zr)
	require.NoError(t, err)

	want, err := store.Encode(sampleState())
	require.NoError(t, err)
	assert.Equal(t, string(want), plain.String())
}

func TestWrite_RefusesInconsistentState(t *testing.T) {
	s := sampleState()
	s.Stokvels["Savers"].Balance = decimal.NewFromInt(1)
	var buf bytes.Buffer
	require.ErrorIs(t, Write(&buf, s), model.ErrInconsistent)
}

func TestRead_Invalid(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not zstd at all")))
	require.ErrorIs(t, err, ErrInvalidBackup)

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(`{"version": 1, "users": {"bob": {"id": "alice"}}}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Read(&buf)
	require.ErrorIs(t, err, ErrInvalidBackup)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json.zst")
	require.NoError(t, WriteFile(path, sampleState()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, sampleState().Equal(got))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.zst"))
	require.Error(t, err)
}
