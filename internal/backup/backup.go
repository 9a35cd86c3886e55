// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup exports and imports the ledger as a Zstandard-compressed
// copy of the store document. A backup restores onto any store backend.
package backup // import "github.com/stokwell/stokwell/internal/backup"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stokwell/stokwell/internal/model"
	"github.com/stokwell/stokwell/internal/store"
)

// Extension is appended to backup file names that lack it.
const Extension = ".zst"

// ErrInvalidBackup is returned when a backup cannot be decompressed or does
// not contain a valid ledger document.
var ErrInvalidBackup = errors.New("invalid backup")

// DefaultFileName returns the file name used when none is given, e.g.
// "stokwell-backup-2026-10-19.json.zst".
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("stokwell-backup-%s.json%s", now.Format("2006-01-02"), Extension)
}

// FileName normalizes a user supplied backup name.
func FileName(name string, now time.Time) string {
	if name == "" {
		return DefaultFileName(now)
	}
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}
	return name
}

// Write encodes state and streams it compressed to w.
func Write(w io.Writer, state *model.LedgerState) error {
	data, err := store.Encode(state)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not write backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not finish backup: %w", err)
	}
	return nil
}

// Read decompresses and decodes a backup. The decoded state has passed
// validation.
func Read(r io.Reader) (*model.LedgerState, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: could not create zstd reader: %w", ErrInvalidBackup, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decompress: %w", ErrInvalidBackup, err)
	}
	state, err := store.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	return state, nil
}

// WriteFile writes a backup of state to path.
func WriteFile(path string, state *model.LedgerState) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Write(file, state)
}

// ReadFile reads a backup from path.
func ReadFile(path string) (*model.LedgerState, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Read(file)
}
