// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stokwell/stokwell/internal/logging"
	"github.com/stokwell/stokwell/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// documentRowID is the primary key of the single row holding the ledger.
const documentRowID = 1

// ledgerDocument is the only table: one row whose body is the same JSON
// document the file backend writes.
type ledgerDocument struct {
	bun.BaseModel `bun:"table:ledger_document"`

	ID        int64     `bun:"id,pk"`
	Body      string    `bun:"body,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// SqliteStore keeps the ledger document inside a SQLite file. SQLite is only
// the container here; saves replace the single row inside one transaction.
type SqliteStore struct {
	db  *sql.DB
	bun *bun.DB
	dsn string
}

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// OpenSqliteStore opens (and if needed creates) the SQLite database at dsn.
func OpenSqliteStore(ctx context.Context, dsn string) (*SqliteStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty sqlite dsn", ErrStoreUnavailable)
	}
	sqlDB, err := sqlOpenFunc("sqlite", dsn)
	if err != nil {
		return nil, unavailable("open "+dsn, err)
	}
	// In-memory SQLite databases are per connection; pin to one so the
	// schema stays visible.
	if dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	if _, err := bunDB.NewCreateTable().
		Model((*ledgerDocument)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, unavailable("create table", err)
	}
	logging.Debugf("store: opened sqlite document store %s", dsn)
	return &SqliteStore{db: sqlDB, bun: bunDB, dsn: dsn}, nil
}

// Load implements Store.
func (s *SqliteStore) Load(ctx context.Context) (*model.LedgerState, error) {
	var row ledgerDocument
	err := s.bun.NewSelect().
		Model(&row).
		Where("id = ?", documentRowID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewLedgerState(), nil
	}
	if err != nil {
		return nil, unavailable("select document", err)
	}
	state, err := Decode([]byte(row.Body))
	if err != nil {
		return nil, corrupt(s.dsn, err)
	}
	return state, nil
}

// Save implements Store.
func (s *SqliteStore) Save(ctx context.Context, state *model.LedgerState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	row := &ledgerDocument{ID: documentRowID, Body: string(data), UpdatedAt: time.Now().UTC()}
	err = s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(row).
			On("CONFLICT (id) DO UPDATE").
			Set("body = EXCLUDED.body").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return unavailable("save document", err)
	}
	logging.Debugf("store: saved %d bytes to sqlite %s", len(data), s.dsn)
	return nil
}

// Close implements Store.
func (s *SqliteStore) Close() error {
	return s.bun.Close()
}
