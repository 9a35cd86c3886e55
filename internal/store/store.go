// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package store is the durable persistence boundary for the ledger. Every
// backend keeps the entire ledger as one document that is loaded on startup
// and replaced atomically on every save.
package store // import "github.com/stokwell/stokwell/internal/store"

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stokwell/stokwell/internal/model"
)

// ErrStoreUnavailable is returned when the underlying medium cannot be read
// or written, or when the stored document is corrupt.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrCorruptDocument marks a document that exists but cannot be decoded or
// breaks a ledger invariant. It is always wrapped together with
// ErrStoreUnavailable.
var ErrCorruptDocument = errors.New("corrupt ledger document")

// Store loads and saves the whole ledger.
type Store interface {
	// Load returns the persisted state, or an empty state when nothing has
	// been saved yet.
	Load(ctx context.Context) (*model.LedgerState, error)
	// Save replaces the persisted document with state. Either the new
	// document is fully written or the previous one is left intact.
	Save(ctx context.Context, state *model.LedgerState) error
	// Close releases any handle held by the backend.
	Close() error
}

// Backend kinds accepted by New.
const (
	KindFile   = "file"
	KindSqlite = "sqlite"
	KindMemory = "memory"
)

// New opens the backend named by kind at path. An empty kind means KindFile.
func New(ctx context.Context, kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case "", KindFile:
		if path == "" {
			return nil, fmt.Errorf("%w: empty document path", ErrStoreUnavailable)
		}
		return NewFileStore(path), nil
	case KindSqlite:
		return OpenSqliteStore(ctx, path)
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store type %q", kind)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func corrupt(source string, err error) error {
	return fmt.Errorf("%w: %w: %s: %w", ErrStoreUnavailable, ErrCorruptDocument, source, err)
}
