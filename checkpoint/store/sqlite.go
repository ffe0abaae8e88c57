// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS Checkpoints (
	Id         INTEGER PRIMARY KEY,
	StartBlock INTEGER NOT NULL,
	EndBlock   INTEGER NOT NULL,
	Root       BLOB    NOT NULL
);`

// checkpointRow is the database representation of a checkpoint. SQLite
// integers are signed, so values are limited to math.MaxInt64.
type checkpointRow struct {
	ID         int64  `db:"Id"`
	StartBlock int64  `db:"StartBlock"`
	EndBlock   int64  `db:"EndBlock"`
	Root       []byte `db:"Root"`
}

func (r *checkpointRow) toCheckpoint() (checkpoint.Checkpoint, error) {
	if len(r.Root) != common.HashLength {
		return checkpoint.Checkpoint{}, fmt.Errorf("corrupted root of checkpoint %d: %x", r.ID, r.Root)
	}
	return checkpoint.Checkpoint{
		ID:         uint64(r.ID),
		StartBlock: uint64(r.StartBlock),
		EndBlock:   uint64(r.EndBlock),
		Root:       common.Hash(r.Root),
	}, nil
}

// Sqlite is a checkpoint store persisted in an SQLite database file.
type Sqlite struct {
	db *sqlx.DB
	mu sync.Mutex // < serializes appends
}

// OpenSqlite opens the store in the given database file, creating it if
// needed. The path ":memory:" creates a transient store.
func OpenSqlite(path string) (*Sqlite, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY errors between concurrent writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create schema: %w", err), db.Close())
	}
	return &Sqlite{db: db}, nil
}

func (s *Sqlite) Add(ctx context.Context, cp checkpoint.Checkpoint) error {
	if cp.ID > math.MaxInt64 || cp.StartBlock > math.MaxInt64 || cp.EndBlock > math.MaxInt64 {
		return fmt.Errorf("%w: values exceed %d", ErrInvalidCheckpoint, int64(math.MaxInt64))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, err := s.Latest(ctx)
	var last *checkpoint.Checkpoint
	switch {
	case err == nil:
		last = &latest
	case !errors.Is(err, checkpoint.ErrUnknownCheckpoint):
		return err
	}
	if err := checkAppend(cp, last); err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO Checkpoints (Id, StartBlock, EndBlock, Root) VALUES (:Id, :StartBlock, :EndBlock, :Root)`,
		checkpointRow{
			ID:         int64(cp.ID),
			StartBlock: int64(cp.StartBlock),
			EndBlock:   int64(cp.EndBlock),
			Root:       cp.Root[:],
		})
	if err != nil {
		return fmt.Errorf("failed to insert checkpoint %d: %w", cp.ID, err)
	}
	return nil
}

func (s *Sqlite) GetCheckpoint(ctx context.Context, id uint64) (checkpoint.Checkpoint, error) {
	if id > math.MaxInt64 {
		return checkpoint.Checkpoint{}, unknown(id)
	}
	var row checkpointRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM Checkpoints WHERE Id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return checkpoint.Checkpoint{}, unknown(id)
	}
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("failed to read checkpoint %d: %w", id, err)
	}
	return row.toCheckpoint()
}

func (s *Sqlite) Latest(ctx context.Context) (checkpoint.Checkpoint, error) {
	var row checkpointRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM Checkpoints ORDER BY Id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return checkpoint.Checkpoint{}, errEmpty
	}
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("failed to read latest checkpoint: %w", err)
	}
	return row.toCheckpoint()
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}
