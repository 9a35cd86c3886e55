// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/stokwell/stokwell/internal/logging"
	"github.com/stokwell/stokwell/internal/model"
)

// FileStore keeps the ledger as a JSON document on the local filesystem.
// There is no cross-process locking: if two processes save the same file, the
// last writer wins.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the document at path. The file is not
// touched until Load or Save is called.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document path.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads and decodes the document. A missing file yields an empty state.
func (f *FileStore) Load(ctx context.Context) (*model.LedgerState, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("load", err)
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debugf("store: no document at %s, starting empty", f.path)
		return model.NewLedgerState(), nil
	}
	if err != nil {
		return nil, unavailable("read "+f.path, err)
	}
	state, err := Decode(data)
	if err != nil {
		return nil, corrupt(f.path, err)
	}
	logging.Debugf("store: loaded %d users and %d stokvels from %s", len(state.Users), len(state.Stokvels), f.path)
	return state, nil
}

// Save writes the document to a temporary file next to the target, syncs it
// and renames it over the target, so a crash leaves either the old or the new
// document but never a truncated one.
func (f *FileStore) Save(ctx context.Context, state *model.LedgerState) error {
	if err := ctx.Err(); err != nil {
		return unavailable("save", err)
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return unavailable("create directory "+dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return unavailable("create temp file", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return unavailable("write "+tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return unavailable("sync "+tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("close "+tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return unavailable("chmod "+tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return unavailable("rename "+tmpName, err)
	}
	committed = true
	syncDir(dir)

	logging.Debugf("store: saved %d bytes to %s", len(data), f.path)
	return nil
}

// Close implements Store. FileStore holds no open handles.
func (f *FileStore) Close() error {
	return nil
}

// syncDir flushes the directory entry for the rename. Windows cannot fsync
// directories, and failures elsewhere only weaken durability, not atomicity.
func syncDir(dir string) {
	if runtime.GOOS == "windows" {
		return
	}
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer func() { _ = d.Close() }()
	if err := d.Sync(); err != nil {
		logging.Debugf("store: directory sync failed for %s: %v", dir, err)
	}
}
