// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"sync"

	"github.com/stokwell/stokwell/internal/model"
)

// MemoryStore keeps the encoded document in memory. It goes through the same
// codec as the durable backends, which makes it a faithful stand-in for tests
// and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	failErr error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context) (*model.LedgerState, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("load", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return model.NewLedgerState(), nil
	}
	state, err := Decode(m.data)
	if err != nil {
		return nil, corrupt("memory", err)
	}
	return state, nil
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, state *model.LedgerState) error {
	if err := ctx.Err(); err != nil {
		return unavailable("save", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return unavailable("save", m.failErr)
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}

// FailSaves makes every following Save fail with err wrapped in
// ErrStoreUnavailable. A nil err restores normal behaviour.
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Saves returns the number of successful saves.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Document returns a copy of the last saved document, or nil.
func (m *MemoryStore) Document() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// SetDocument replaces the stored bytes, bypassing validation.
func (m *MemoryStore) SetDocument(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}
