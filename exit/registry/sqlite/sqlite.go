// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sqlite

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS ProcessedExits (Hash BLOB PRIMARY KEY);`

// Registry is a registry of processed exits persisted in an SQLite
// database.
type Registry struct {
	db *sqlx.DB
}

// Open opens the registry in the given database file, creating it if
// needed. The path ":memory:" creates a transient registry.
func Open(path string) (*Registry, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create schema: %w", err), db.Close())
	}
	return &Registry{db: db}, nil
}

func (r *Registry) MarkProcessed(hash common.Hash) (bool, error) {
	res, err := r.db.Exec(`INSERT OR IGNORE INTO ProcessedExits (Hash) VALUES (?)`, hash[:])
	if err != nil {
		return false, fmt.Errorf("failed to insert exit %x: %w", hash, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted == 1, nil
}

func (r *Registry) IsProcessed(hash common.Hash) (bool, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM ProcessedExits WHERE Hash = ?`, hash[:]); err != nil {
		return false, fmt.Errorf("failed to look up exit %x: %w", hash, err)
	}
	return count > 0, nil
}

func (r *Registry) Close() error {
	return r.db.Close()
}
